package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kazen/backend/internal/app"
)

func importPricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-prices",
		Short: "Pull the partner price feed into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PriceFeed.BaseURL == "" {
				return errors.New("pricefeed.base_url is not configured")
			}

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Catalog.ImportPrices(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d, skipped %d, products %d\n",
				result.Applied, result.Skipped, result.Products)
			return nil
		},
	}
}
