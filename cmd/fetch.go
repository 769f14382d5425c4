package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edalab/edakit/internal/fetch"
)

var (
	fetchURL    string
	fetchExpect []string
	fetchDest   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract a dataset archive unless its files already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchURL == "" {
			return fmt.Errorf("--url is required")
		}
		if len(fetchExpect) == 0 {
			return fmt.Errorf("at least one --expect file is required")
		}
		dest := fetchDest
		if dest == "" {
			dest = cfg.DataDir
		}
		f := fetch.New(time.Duration(cfg.HTTPTimeoutSec)*time.Second, logger)
		if err := f.EnsureFiles(cmd.Context(), fetchURL, fetchExpect, dest); err != nil {
			return err
		}
		fmt.Printf("✓ %d file(s) available under %s\n", len(fetchExpect), dest)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "URL of the zip archive to download")
	fetchCmd.Flags().StringArrayVar(&fetchExpect, "expect", nil, "file expected inside the archive and the destination (repeatable)")
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "", "destination directory (default is the configured data_dir)")
	rootCmd.AddCommand(fetchCmd)
}
