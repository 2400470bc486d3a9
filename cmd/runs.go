package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/retail-etl/internal/runlog"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent ETL run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.RunLog.Path == "" {
			return eris.New("runs: run log is disabled (runlog.path is empty)")
		}
		log, err := runlog.Open(cfg.RunLog.Path)
		if err != nil {
			return err
		}
		defer log.Close()

		entries, err := log.Recent(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No runs recorded.")
			return nil
		}

		formatRuns(os.Stdout, entries)
		return nil
	},
}

func formatRuns(out io.Writer, entries []runlog.Entry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tRETAILER\tSTATUS\tSTARTED\tDURATION\tPRODUCTS\tPERIODS\tERROR")

	for _, e := range entries {
		dur := ""
		if e.CompletedAt != nil {
			dur = e.CompletedAt.Sub(e.StartedAt).Round(time.Second).String()
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			e.ID, e.Retailer, e.Status,
			e.StartedAt.Format("2006-01-02 15:04"),
			dur, e.ProductCount, e.PeriodCount, e.Error,
		)
	}
	_ = w.Flush()
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max number of runs to display")
	rootCmd.AddCommand(runsCmd)
}
