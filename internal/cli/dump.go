package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/simpledb/sdb"
)

// domainJSON is the dump interchange shape: item name to attribute name
// to a single value or a list of values.
type domainJSON map[string]map[string]any

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "dump <domain>",
		Short: "Export a domain's items as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			items, err := dumpDomain(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return os.WriteFile(out, append(data, '\n'), 0o644)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

// dumpDomain selects every item in the domain, following all pages.
func dumpDomain(ctx context.Context, client *sdb.Client, domain string) (domainJSON, error) {
	items, err := client.Domain(domain).Query().Items(ctx)
	if err != nil {
		return nil, err
	}
	dump := make(domainJSON, len(items))
	for _, item := range items {
		attrs := make(map[string]any, len(item.Attributes))
		for name, values := range item.Attributes {
			if len(values) == 1 {
				attrs[name] = values[0]
			} else {
				attrs[name] = values
			}
		}
		dump[item.Name] = attrs
	}
	return dump, nil
}
