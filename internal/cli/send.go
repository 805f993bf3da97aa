package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paylink/internal/checkoutform"
	"paylink/internal/normalize"
)

func (a *app) sendCmd() *cobra.Command {
	var (
		in           checkoutform.Input
		noOpen       bool
		openCheckout bool
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Create a checkout link and send it over WhatsApp or SMS",
		Example: `  paylink send -d "Lampada" -a 25,00 -p "333 1234567"
  paylink send -d "Sedia" -a 40 -p 3331234567 --channel sms --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := checkoutform.ParseChannel(a.v.GetString("channel"))
			if err != nil {
				return err
			}
			in.Channel = ch

			countryCode := a.v.GetString("country-code")
			contacts, err := a.contacts()
			if err != nil {
				a.opts.Logger.Warn("contacts unavailable", zap.Error(err))
				contacts = nil
			}
			if contacts != nil && in.Email == "" {
				if c, ok := contacts.Get(normalize.NormalizePhone(in.Phone, countryCode)); ok {
					in.Email = c.Email
				}
			}

			api := a.api()
			form := checkoutform.NewForm(api, a.opener(noOpen), contacts, countryCode, a.opts.Logger)

			vm, err := form.Submit(cmd.Context(), in)
			if err != nil {
				var fe checkoutform.FieldErrors
				if errors.As(err, &fe) {
					printFieldErrors(a.opts, fe)
					return errors.New("dati non validi")
				}
				return err
			}

			out := a.opts.Out
			fmt.Fprintf(out, "Link creato: %s\n", vm.CheckoutURL)
			fmt.Fprintf(out, "Sessione:    %s\n", vm.SessionID)

			if openCheckout {
				if err := form.OpenCheckout(); err != nil {
					a.opts.Logger.Warn("could not open checkout page", zap.Error(err))
				}
			}

			if !watch {
				return nil
			}
			vm, err = form.Watch(cmd.Context(), checkoutform.NewPoller(api, a.opts.Schedule), vm.SessionID)
			fmt.Fprint(out, checkoutform.RenderStatus(vm.Status))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.Description, "descrizione", "d", "", "product description")
	f.StringVarP(&in.Amount, "importo", "a", "", "amount in euro, comma or dot decimals")
	f.StringVarP(&in.Phone, "telefono", "p", "", "buyer phone")
	f.StringVarP(&in.Email, "email", "e", "", "buyer email")
	f.StringVarP(&in.Nickname, "nickname", "n", "", "seller nickname")
	f.StringP("channel", "c", string(checkoutform.ChannelWhatsApp), "wa or sms")
	f.BoolVar(&noOpen, "no-open", false, "print the messaging link instead of opening it")
	f.BoolVar(&openCheckout, "open-checkout", false, "also open the checkout page on this machine")
	f.BoolVarP(&watch, "watch", "w", false, "poll the payment status afterwards")

	_ = a.v.BindPFlag("channel", f.Lookup("channel"))
	return cmd
}

func printFieldErrors(opts Options, fe checkoutform.FieldErrors) {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(opts.Out, "%s: %s\n", field, fe[field])
	}
}
