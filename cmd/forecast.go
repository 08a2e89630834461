package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/report"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/store"
)

var (
	forecastRole     string
	forecastDetailed bool
	forecastExport   string
	forecastOutDir   string
	forecastNoStore  bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Generate the 7-day demand forecast",
	Long:  "Fetches weather and demand history, runs the sequential prediction loop, classifies each day, and prints the dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var st store.Store
		if !forecastNoStore {
			var err error
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		pipeline, err := initPipeline()
		if err != nil {
			return err
		}
		if st != nil {
			pipeline.WithCache(st, time.Duration(cfg.Weather.CacheTTLMinutes)*time.Minute)
		}

		run, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}

		if st != nil {
			if err := st.SaveRun(ctx, run); err != nil {
				zap.L().Warn("persist run failed", zap.String("run_id", run.ID), zap.Error(err))
			}
		}

		fmt.Fprint(os.Stdout, report.RenderText(run, report.RenderContext{
			Role:     report.Role(forecastRole),
			Detailed: forecastDetailed,
		}))

		if forecastExport != "" {
			name := report.ExportFilename(run.GeneratedAt, forecastExport)
			path := filepath.Join(forecastOutDir, name)
			f, err := os.Create(path)
			if err != nil {
				return eris.Wrapf(err, "create export file %s", path)
			}
			defer f.Close() //nolint:errcheck

			switch forecastExport {
			case "csv":
				err = report.WriteCSV(f, run)
			case "xlsx":
				err = report.WriteXLSX(f, run)
			default:
				err = eris.Errorf("unknown export format: %s", forecastExport)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\nExported %s\n", path)
		}

		return nil
	},
}

func init() {
	forecastCmd.Flags().StringVar(&forecastRole, "role", string(report.RolePlatform), "audience for recommendations (platform or restaurant)")
	forecastCmd.Flags().BoolVar(&forecastDetailed, "detailed", false, "include per-day recommendation paragraphs")
	forecastCmd.Flags().StringVar(&forecastExport, "export", "", "also write an export file (csv or xlsx)")
	forecastCmd.Flags().StringVar(&forecastOutDir, "out", ".", "directory for export files")
	forecastCmd.Flags().BoolVar(&forecastNoStore, "no-store", false, "skip persisting the run")
	rootCmd.AddCommand(forecastCmd)
}
