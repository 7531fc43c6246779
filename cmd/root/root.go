// Package root contains the root command for the application.
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzas/internal/config"
	"finanzas/internal/csvutil"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/storage"
	"finanzas/internal/storage/memory"
)

// CommonFlags represents the flags that are common to multiple commands.
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands. It is replaced with
	// the configured logger in PersistentPreRunE.
	Log = logging.NewLogrusAdapter("info", "text")

	// Cfg holds the loaded configuration after PersistentPreRunE.
	Cfg *config.Config

	// Store is the opened ledger store after PersistentPreRunE.
	Store ledger.Store

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "finanzas",
		Short: "A CLI personal finance ledger with CSV import/export.",
		Long: `finanzas tracks movements across accounts, reconstructs balances from an
opening baseline, aggregates income and expenses, reconciles net worth
against manual snapshots, and round-trips the ledger through CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			Cfg, err = config.Initialize()
			if err != nil {
				return err
			}

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLogging(Cfg))
			csvutil.SetDelimiter([]rune(Cfg.CSV.Delimiter)[0])

			Store, err = OpenStore(Cfg, Log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if Store != nil {
				if err := Store.Close(); err != nil {
					Log.WithError(err).Warn("failed to close store")
				}
			}
		},
	}

	// SharedFlags holds common flags accessible to all commands.
	SharedFlags = CommonFlags{}
)

// OpenStore opens the ledger store named by the configuration.
func OpenStore(cfg *config.Config, log logging.Logger) (ledger.Store, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Storage.Path, cfg.Owner.ID, log)
	case "memory":
		return memory.NewStore(cfg.Owner.ID), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}
