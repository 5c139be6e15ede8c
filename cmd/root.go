package cmd

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/copywatch/copywatch/logging"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "copywatch",
	Short:   "Copywatch classifies license and authorship declarations in code",
	Version: Version,
}

func init() {
	cobra.OnInitialize(initLog)
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (TOML), overlaid on the built-in defaults")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringP("report-path", "r", "", "report file (use \"-\" for stdout)")
	rootCmd.PersistentFlags().StringP("report-format", "f", "json", "output format (json, csv, template)")
	rootCmd.PersistentFlags().String("report-template", "", "template file used to generate the report (implies --report-format=template)")
	rootCmd.PersistentFlags().Int("exit-code", 1, "exit code when the policy refuses a resource")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print findings as they are classified")
	rootCmd.PersistentFlags().Bool("no-color", false, "turn off color for verbose output")
}

func initLog() {
	ll, err := rootCmd.Flags().GetString("log-level")
	if err != nil {
		logging.Fatal().Msg(err.Error())
	}

	level := zerolog.InfoLevel
	switch strings.ToLower(ll) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "err", "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	default:
		logging.Warn().Msgf("unknown log level: %s", ll)
	}
	logging.Logger = logging.Logger.Level(level)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Fatal().Msg(err.Error())
	}
}
