package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "retail-etl",
	Short: "Retail POS reconciliation pipeline",
	Long:  "Reads per-retailer POS reports from the synced file share, reconciles them into canonical JSON datasets, and maintains the dashboard manifest.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
