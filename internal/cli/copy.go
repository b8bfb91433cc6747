package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCopyCommand creates the copy command.
func NewCopyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <source> <dest>",
		Short: "Copy every item from one domain to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			items, err := dumpDomain(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			if err := importItems(cmd.Context(), client, args[1], items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d items from %s to %s\n", len(items), args[0], args[1])
			return nil
		},
	}
}
