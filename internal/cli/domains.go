package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDomainsCommand creates the domains command.
func NewDomainsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List domain names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			names, err := client.ListDomains(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
