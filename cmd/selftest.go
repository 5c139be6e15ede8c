package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/copywatch/copywatch/config"
	"github.com/copywatch/copywatch/selftest"
)

func init() {
	rootCmd.AddCommand(selftestCmd)
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Exercise the configured rules against generated inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		rs, err := cfg.RuleSet()
		if err != nil {
			return err
		}

		res, err := selftest.Run(rs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"ok: %d inputs, max scan %s, total %s, signature %s\n",
			res.Inputs, res.MaxDuration, res.TotalDuration, res.Signature[:12])
		return nil
	},
}
