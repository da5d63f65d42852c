package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kazen/backend/internal/app"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog into storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.SeedDemo(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "demo catalog seeded")
			return nil
		},
	}
}
