// Package commands wires the cashctl operator CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cashbook/internal/backend"
	"cashbook/internal/cli"
	"cashbook/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cashctl",
		Short: "Cash collection reports and exports from the command line",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}

// openStore builds the configured record store. The CLI has no degraded
// mode: unusable store credentials are an error.
func openStore(ctx context.Context) (store.Store, func(), error) {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)
	if msg := cfg.StoreConfigError(); msg != "" {
		return nil, nil, fmt.Errorf("store not usable: %s", msg)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		StoreURL:     cfg.StoreURL,
		StoreKey:     cfg.StoreKey,
		SQLiteDBPath: cfg.SQLiteDBPath,
		// The CLI never publishes sync messages.
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing backend: %w", err)
	}

	cleanup := func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}
	return result.Store, cleanup, nil
}
