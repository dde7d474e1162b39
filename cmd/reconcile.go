package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"sales-history/feature/sales"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd runs a single pass from the command line.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Append new sales from the source tables to the history",
	Long: `Runs one reconciliation pass: reads the detail, header, product and extension
tables, skips sales already in the history and appends the rest.

Examples:
  # Run a pass and print counts
  reconcile

  # Print the full pass summary as JSON
  reconcile --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		svc := sales.NewService(a.engine, a.store, a.opts.Schema, a.metrics, a.logger)
		summary, err := svc.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("reconciliation failed: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		fmt.Println("\n=== Reconciliation Summary ===")
		fmt.Printf("Appended: %d\n", summary.Appended)
		fmt.Printf("Total: %d\n", summary.Total)
		fmt.Printf("Scanned: %d\n", summary.Stats.Scanned)
		fmt.Printf("Duplicate: %d\n", summary.Stats.Duplicate)
		fmt.Printf("Orphan: %d\n", summary.Stats.Orphan)
		fmt.Printf("Bad Date: %d\n", summary.Stats.BadDate)
		fmt.Printf("Out Of Window: %d\n", summary.Stats.OutOfWindow)
		fmt.Printf("Overflow: %d\n", summary.Stats.Overflow)
		fmt.Printf("Execution Time: %s\n", summary.Duration)

		a.logger.Info("Reconciliation completed",
			zap.Int("appended", summary.Appended),
			zap.Int("total", summary.Total),
		)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().Bool("json", false, "Output the pass summary as JSON")
	RootCmd.AddCommand(reconcileCmd)
}
