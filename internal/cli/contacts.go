package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) contactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts [prefix]",
		Short: "List recent buyers, optionally filtered by phone, name or email",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := a.contacts()
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			tw := tabwriter.NewWriter(a.opts.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TELEFONO\tNOME\tEMAIL\tULTIMO USO")
			for _, c := range contacts.Suggest(prefix) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Phone, c.Name, c.Email, c.LastUsed.Local().Format("02/01/2006 15:04"))
			}
			return tw.Flush()
		},
	}
}
