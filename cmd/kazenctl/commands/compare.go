package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kazen/backend/internal/app"
	"github.com/kazen/backend/internal/domain"
)

type listFile struct {
	Items []domain.ItemRequest `json:"items"`
}

func compareCmd() *cobra.Command {
	var (
		listPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank stores for a shopping list file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listPath == "" {
				return errors.New("--list is required")
			}
			items, err := readListFile(listPath)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Comparison.CompareItems(cmd.Context(), items)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return writeComparison(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&listPath, "list", "", "JSON file with {\"items\":[{\"productId\":...,\"quantity\":...}]}")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw comparison as JSON")
	return cmd
}

func readListFile(path string) ([]domain.ItemRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	var lf listFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse list %s: %w", path, err)
	}
	return lf.Items, nil
}

func writeComparison(w io.Writer, result *domain.ComparisonResult) error {
	if len(result.Comparisons) == 0 {
		_, err := fmt.Fprintln(w, "list is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSTORE\tTOTAL\tITEMS")
	for i, c := range result.Comparisons {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d/%d\n", i+1, c.Store.Name, c.Total, c.PricedItems(), len(c.Items))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := result.Summary
	_, err := fmt.Fprintf(w, "\ncheapest %s, savings %.2f (%.0f%%)\n", s.CheapestStoreID, s.Savings, s.SavingsPercent)
	return err
}
