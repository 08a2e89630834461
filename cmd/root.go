package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "forecast-cli",
	Short: "Weather-driven food delivery demand forecasting",
	Long:  "Aggregates Swiss city weather into a national series, predicts 7 days of delivery search demand, classifies demand tiers, and serves the results.",
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
