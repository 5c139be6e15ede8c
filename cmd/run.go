package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/copywatch/copywatch/config"
	"github.com/copywatch/copywatch/logging"
	"github.com/copywatch/copywatch/policy"
	"github.com/copywatch/copywatch/report"
	"github.com/copywatch/copywatch/scan"
)

// setupScan loads configuration and builds the scan pipeline shared by
// the scanning subcommands.
func setupScan(cmd *cobra.Command) (*config.Config, *scan.Pipeline, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	rs, err := cfg.RuleSet()
	if err != nil {
		return nil, nil, err
	}
	sc, err := scan.NewScanner(rs)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Scan.MaxChars > 0 {
		sc.MaxScanChars = cfg.Scan.MaxChars
	}
	if cfg.Scan.MaxKnown > 0 {
		sc.MaxKnown = cfg.Scan.MaxKnown
	}
	if cfg.Scan.MaxUnknown > 0 {
		sc.MaxUnknown = cfg.Scan.MaxUnknown
	}

	return cfg, &scan.Pipeline{Scanner: sc, Workers: cfg.Scan.Workers}, nil
}

// finish writes the report, prints verbose findings, and applies the
// policy gate. It exits the process when the policy refuses a resource.
func finish(cmd *cobra.Command, cfg *config.Config, reports []scan.Report) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		noColor, _ := cmd.Flags().GetBool("no-color")
		printReports(cmd.OutOrStdout(), reports, noColor)
	}

	if err := writeReport(cmd, reports); err != nil {
		return err
	}

	refused, err := applyPolicy(cfg, reports)
	if err != nil {
		return err
	}
	if refused > 0 {
		exitCode, _ := cmd.Flags().GetInt("exit-code")
		logging.Warn().Int("refused", refused).Msg("policy refused resources")
		os.Exit(exitCode)
	}
	return nil
}

func writeReport(cmd *cobra.Command, reports []scan.Report) error {
	path, err := cmd.Flags().GetString("report-path")
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	format, _ := cmd.Flags().GetString("report-format")
	templatePath, _ := cmd.Flags().GetString("report-template")
	if templatePath != "" {
		format = "template"
	}
	reporter, err := report.New(format, templatePath)
	if err != nil {
		return err
	}

	w := os.Stdout
	if path != "-" {
		w, err = os.Create(path)
		if err != nil {
			return err
		}
		defer w.Close()
	}
	return reporter.Write(w, reports)
}

func applyPolicy(cfg *config.Config, reports []scan.Report) (refused int, err error) {
	if cfg.Policy.Allow == "" {
		return 0, nil
	}
	pol, err := policy.Compile(cfg.Policy.Allow)
	if err != nil {
		return 0, err
	}
	for _, r := range reports {
		allowed, err := pol.Allow(r)
		if err != nil {
			return 0, err
		}
		if !allowed {
			logging.Info().
				Str("resource", r.Resource.Name).
				Str("overall", r.Overall.String()).
				Msg("policy refused")
			refused++
		}
	}
	return refused, nil
}
