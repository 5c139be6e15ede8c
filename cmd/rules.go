package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/copywatch/copywatch/pattern"
)

func init() {
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rule catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := pattern.RuleNames()
		sort.Strings(names)
		for _, name := range names {
			rule, err := pattern.LookupRule(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s licenses=%d owners=%d keywords=%d\n",
				name, len(rule.Licenses), len(rule.Owners), len(rule.Keywords))
		}
		return nil
	},
}
