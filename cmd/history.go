package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"sales-history/feature/sales"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// historyCmd prints or exports the stored history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export the stored sales history",
	Long: `Reads the history store.

Examples:
  # Print the record count
  history

  # Print every record as JSON
  history --json

  # Export to an Excel workbook
  history --xlsx historico.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		svc := sales.NewService(a.engine, a.store, a.opts.Schema, nil, a.logger)

		if xlsxPath != "" {
			f, err := os.Create(xlsxPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", xlsxPath, err)
			}
			if err := svc.Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("History exported", zap.String("file", xlsxPath))
			return nil
		}

		view, err := svc.History(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}

		fmt.Printf("History records: %d\n", view.Total)
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("json", false, "Print every record as JSON")
	historyCmd.Flags().String("xlsx", "", "Export the history to this Excel file")
	RootCmd.AddCommand(historyCmd)
}
