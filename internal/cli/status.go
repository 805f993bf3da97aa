package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"paylink/internal/checkoutform"
)

func (a *app) statusCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status <session_id|success_url>",
		Short: "Show the payment status of a checkout session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := sessionIDFromArg(args[0])
			if err != nil {
				return err
			}

			api := a.api()
			form := checkoutform.NewForm(api, a.opts.Opener, nil, a.v.GetString("country-code"), a.opts.Logger)

			var vm checkoutform.ViewModel
			if watch {
				vm, err = form.Watch(cmd.Context(), checkoutform.NewPoller(api, a.opts.Schedule), sessionID)
			} else {
				vm, err = form.CheckStatus(cmd.Context(), sessionID)
			}
			if err != nil {
				return err
			}

			fmt.Fprint(a.opts.Out, checkoutform.RenderStatus(vm.Status))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "check again until the payment settles")
	return cmd
}

// sessionIDFromArg accepts a bare session id or the success page URL the
// buyer lands on, which carries it in the session_id query parameter.
func sessionIDFromArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if !strings.Contains(arg, "://") {
		if arg == "" {
			return "", errors.New("session id required")
		}
		return arg, nil
	}

	u, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	id := u.Query().Get("session_id")
	if id == "" {
		return "", errors.New("url has no session_id parameter")
	}
	return id, nil
}
