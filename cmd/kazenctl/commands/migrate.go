package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kazen/backend/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Storage.Driver != "postgres" {
				return errors.New("migrate needs storage.driver=postgres")
			}
			if down > 0 {
				if err := postgres.MigrateDown(cfg.Storage.DatabaseURL, down, logger); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", down)
				return nil
			}
			if err := postgres.Migrate(cfg.Storage.DatabaseURL, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations instead")
	return cmd
}
