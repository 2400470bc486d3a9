package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/retail-etl/internal/retailer"
)

var retailersCmd = &cobra.Command{
	Use:   "retailers",
	Short: "List the known retailer adapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatRetailers(os.Stdout, retailer.NewRegistry().All())
		return nil
	},
}

func formatRetailers(out io.Writer, adapters []retailer.Adapter) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tNAME")
	for _, a := range adapters {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", a.Key(), a.DisplayName())
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(retailersCmd)
}
