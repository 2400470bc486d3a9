package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/retail-etl/internal/manifest"
	"github.com/sells-group/retail-etl/internal/model"
)

var manifestJSON bool

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Show the current data manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := manifest.Load(filepath.Join(cfg.Output.Dir, "data_manifest.json"))
		if err != nil {
			return err
		}
		m := store.Manifest()

		if manifestJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}

		formatManifest(os.Stdout, m)
		return nil
	},
}

func formatManifest(out io.Writer, m *model.Manifest) {
	if m.GeneratedAt != "" {
		_, _ = fmt.Fprintf(out, "Generated: %s\n\n", m.GeneratedAt)
	}

	keys := make([]string, 0, len(m.Retailers))
	for k := range m.Retailers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RETAILER\tRANGE\tPRODUCTS\tGRAIN\tFEATURES")
	for _, k := range keys {
		e := m.Retailers[k]
		rng := e.DateRange.Start
		if e.DateRange.End != "" && e.DateRange.End != e.DateRange.Start {
			rng += " .. " + e.DateRange.End
		}
		grain := string(e.TimeGrain)
		if e.HasWeekly {
			grain += "+weekly"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			e.DisplayName, rng, e.ProductCount, grain, strings.Join(e.Features, ","))
	}
	_ = w.Flush()
}

func init() {
	manifestCmd.Flags().BoolVar(&manifestJSON, "json", false, "print the raw manifest JSON")
	rootCmd.AddCommand(manifestCmd)
}
