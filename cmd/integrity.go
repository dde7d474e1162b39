package cmd

import (
	"encoding/json"
	"os"

	"sales-history/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check source tables, the history layout and archive storage",
	Long:  `Checks that the source tables are present, that the history store matches the output schema and that the archive bucket exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		fix, _ := cmd.Flags().GetBool("fix")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()
		logg := a.logger
		ctx := cmd.Context()

		svc := integrity.NewService(a.integrityDeps(), logg)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(svc.CheckAll(ctx))
		}

		logg.Info("Checking source tables...")
		sources := svc.CheckSources()
		if sources.Matched {
			logg.Info("Source tables are present.")
		} else {
			logg.Warn("Source tables missing or unreadable", zap.Strings("missing", sources.Missing))
			for name, st := range sources.Tables {
				if st.Error != "" {
					logg.Error("Unreadable table", zap.String("table", name), zap.String("error", st.Error))
				}
			}
		}

		logg.Info("Checking history schema...", zap.String("driver", a.cfg.History.Driver))
		hist, err := svc.CheckHistory()
		switch {
		case err != nil:
			logg.Error("History schema check failed", zap.Error(err))
		case !hist.Exists:
			logg.Info("History store does not exist yet; the next pass creates it.")
		case hist.Matched:
			logg.Info("History schema matches the output layout.")
		default:
			logg.Warn("History schema mismatches found",
				zap.Strings("missing", hist.MissingColumns),
				zap.Strings("mismatches", hist.TypeMismatches))
			for _, e := range hist.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}

		logg.Info("Checking archive storage...")
		st, err := svc.CheckStorage(ctx)
		switch {
		case err != nil:
			logg.Warn("Storage check failed", zap.Error(err))
		case st.Exists:
			logg.Info("Archive bucket is present.", zap.String("bucket", st.Bucket), zap.Int("archives", len(st.Archives)))
		case fix:
			logg.Info("Creating archive bucket...", zap.String("bucket", st.Bucket))
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
			logg.Info("Archive bucket created.")
		default:
			logg.Warn("Archive bucket missing. Run with --fix to create it.", zap.String("bucket", st.Bucket))
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.Flags().Bool("json", false, "Output the combined report as JSON")
	integrityCmd.Flags().Bool("fix", false, "Create the archive bucket if missing")
}
