package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jacentio/simpledb/sdb"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <domain> <file.json>",
		Short: "Load a JSON dump into a domain, creating it if missing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var items domainJSON
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}
			client, err := newClient(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			if err := importItems(cmd.Context(), client, args[0], items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d items into %s\n", len(items), args[0])
			return nil
		},
	}
}

// importItems writes a dump into domain, provisioning the domain first
// when it does not exist yet.
func importItems(ctx context.Context, client *sdb.Client, domain string, items domainJSON) error {
	exists, err := client.HasDomain(ctx, domain)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := client.CreateDomain(ctx, domain); err != nil {
			return err
		}
	}

	// Sorted item and attribute names keep the generated requests
	// reproducible across runs.
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	batch := make([]sdb.BatchItem, 0, len(items))
	for _, name := range names {
		attrNames := make([]string, 0, len(items[name]))
		for attrName := range items[name] {
			attrNames = append(attrNames, attrName)
		}
		sort.Strings(attrNames)

		attrs := make([]sdb.Attr, 0, len(attrNames))
		for _, attrName := range attrNames {
			attrs = append(attrs, sdb.Attr{Name: attrName, Value: items[name][attrName]})
		}
		batch = append(batch, sdb.BatchItem{Name: name, Attrs: attrs})
	}
	return client.BatchPutAttributes(ctx, domain, batch)
}
