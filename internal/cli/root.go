// Package cli implements the sdb command line tool.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/spf13/cobra"

	"github.com/jacentio/simpledb/sdb"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	Endpoint  string
	Insecure  bool
	AccessKey string
	SecretKey string
	Verbose   bool
}

// NewRootCommand creates the root command for the sdb CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "sdb",
		Short:         "SimpleDB domain utilities",
		Long:          "Inspect, export, and load AWS SimpleDB domains.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "", "service host (default "+sdb.DefaultEndpoint+")")
	cmd.PersistentFlags().BoolVar(&opts.Insecure, "insecure", false, "use HTTP instead of HTTPS")
	cmd.PersistentFlags().StringVar(&opts.AccessKey, "access-key", "", "static access key id")
	cmd.PersistentFlags().StringVar(&opts.SecretKey, "secret-key", "", "static secret access key")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(NewDomainsCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewCopyCommand(opts))

	return cmd
}

// newClient builds a client from the root flags. Explicit static
// credentials win; otherwise the default AWS credential chain applies.
func newClient(ctx context.Context, opts *RootOptions) (*sdb.Client, error) {
	var provider aws.CredentialsProvider
	switch {
	case opts.AccessKey != "" && opts.SecretKey != "":
		provider = credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
	case opts.AccessKey != "" || opts.SecretKey != "":
		return nil, fmt.Errorf("static credentials need both --access-key and --secret-key")
	default:
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS credentials: %w", err)
		}
		provider = cfg.Credentials
	}

	var logger *slog.Logger
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return sdb.New(sdb.Config{
		Credentials: provider,
		Endpoint:    opts.Endpoint,
		Insecure:    opts.Insecure,
		Logger:      logger,
	}), nil
}
