package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored forecast runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored forecast runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetString("since")

		filter := store.RunFilter{Limit: limit}
		if since != "" {
			t, err := time.Parse("2006-01-02", since)
			if err != nil {
				return eris.Wrapf(err, "parse --since %q", since)
			}
			filter.Since = t
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the full JSON of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func formatRunsList(w io.Writer, runs []store.RunSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGENERATED\tAVG\tPEAK\tASSESSMENT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%s\n",
			r.ID, r.GeneratedAt.Format("2006-01-02 15:04"), r.Average, r.PeakDemand, r.Assessment)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum runs to list")
	runsListCmd.Flags().String("since", "", "only runs generated on or after this date (YYYY-MM-DD)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
