package cmd

import (
	"github.com/spf13/cobra"

	"github.com/copywatch/copywatch/sources"
)

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("follow-symlinks", false, "scan files that are symlinks to other files")
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory or file for license and authorship declarations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pipeline, err := setupScan(cmd)
		if err != nil {
			return err
		}

		follow := cfg.Scan.FollowSymlinks
		if f, err := cmd.Flags().GetBool("follow-symlinks"); err == nil && f {
			follow = true
		}

		src := &sources.Files{
			Path:            args[0],
			FollowSymlinks:  follow,
			MaxFileSize:     cfg.Scan.MaxFileSize,
			MaxArchiveDepth: cfg.Scan.MaxArchiveDepth,
		}
		reports, err := pipeline.Run(cmd.Context(), src)
		if err != nil {
			return err
		}
		return finish(cmd, cfg, reports)
	},
}
