package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/fetcher"
)

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Mirror the remote POS file share into the source directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		url := cfg.Fetch.URL
		if fetchURL != "" {
			url = fetchURL
		}
		if url == "" {
			return eris.New("fetch: no share URL configured (set fetch.url or --url)")
		}

		mirror := fetcher.NewFTPMirror(fetcher.FTPOptions{
			Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		})

		n, err := mirror.Mirror(ctx, url, cfg.Source.Dir)
		if err != nil {
			return eris.Wrap(err, "fetch")
		}

		zap.L().Info("mirror complete",
			zap.String("source_dir", cfg.Source.Dir),
			zap.Int("downloaded", n),
		)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "override the remote share URL")
	rootCmd.AddCommand(fetchCmd)
}
