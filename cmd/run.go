package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/manifest"
	"github.com/sells-group/retail-etl/internal/retailer"
	"github.com/sells-group/retail-etl/internal/runlog"
)

var (
	runRetailers []string
	runSourceDir string
	runOutputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ETL for all or selected retailers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sourceDir := cfg.Source.Dir
		if runSourceDir != "" {
			sourceDir = runSourceDir
		}
		outputDir := cfg.Output.Dir
		if runOutputDir != "" {
			outputDir = runOutputDir
		}

		store, err := manifest.Load(filepath.Join(outputDir, "data_manifest.json"))
		if err != nil {
			return err
		}

		var runs *runlog.Log
		if cfg.RunLog.Path != "" {
			runs, err = runlog.Open(cfg.RunLog.Path)
			if err != nil {
				zap.L().Warn("run log unavailable", zap.Error(err))
			} else {
				defer runs.Close()
			}
		}

		eng := retailer.NewEngine(sourceDir, outputDir, store, runs, retailer.NewRegistry())

		summary, err := eng.Run(ctx, runRetailers)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		fmt.Fprintln(os.Stdout, formatSummary(summary))
		if summary.Failed > 0 {
			return eris.Errorf("run: %d of %d retailers failed", summary.Failed, summary.Succeeded+summary.Failed)
		}
		return nil
	},
}

// formatSummary renders the end-of-run line.
func formatSummary(s retailer.Summary) string {
	return fmt.Sprintf("ETL complete: %d succeeded, %d failed", s.Succeeded, s.Failed)
}

func init() {
	runCmd.Flags().StringSliceVar(&runRetailers, "retailers", nil, "retailer keys to process (default: all)")
	runCmd.Flags().StringVar(&runSourceDir, "source", "", "override source directory")
	runCmd.Flags().StringVar(&runOutputDir, "output", "", "override output directory")
	rootCmd.AddCommand(runCmd)
}
