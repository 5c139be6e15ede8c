package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/copywatch/copywatch/sources"
)

func init() {
	rootCmd.AddCommand(patchCmd)
	patchCmd.Flags().Bool("commit-message", true, "also scan the commit message")
}

var patchCmd = &cobra.Command{
	Use:   "patch [file]",
	Short: "Scan the added lines of a git patch (git format-patch / git show output)",
	Long: `Scan the added lines of a git patch.

Reads the patch from the given file, or from stdin when no file is given,
so it composes with git: git show HEAD | copywatch patch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pipeline, err := setupScan(cmd)
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		scanMessage, _ := cmd.Flags().GetBool("commit-message")
		src := &sources.Patch{Reader: r, ScanCommitMessage: scanMessage}
		reports, err := pipeline.Run(cmd.Context(), src)
		if err != nil {
			return err
		}
		return finish(cmd, cfg, reports)
	},
}
