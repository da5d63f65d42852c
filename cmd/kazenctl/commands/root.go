// Package commands implements the kazenctl operator CLI.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kazen/backend/config"
	"github.com/kazen/backend/internal/obs"
)

var (
	cfg      *config.Config
	logger   *slog.Logger
	logLevel string
)

// Execute runs the root command with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the kazenctl command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kazenctl",
		Short:         "Operator tools for the Kazen price comparison backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			level := cfg.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			logger = obs.NewLogger(obs.LoggerOptions{Level: level, Format: "text", Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(migrateCmd(), seedCmd(), compareCmd(), importPricesCmd())
	return root
}
