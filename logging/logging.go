package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the package-level logger. Commands adjust its level at startup;
// library code only ever reads it.
var Logger zerolog.Logger

func init() {
	var out = zerolog.New(os.Stderr)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	Logger = out.With().Timestamp().Logger()
}

// With starts a child logger context carrying extra fields.
func With() zerolog.Context { return Logger.With() }

func Trace() *zerolog.Event { return Logger.Trace() }
func Debug() *zerolog.Event { return Logger.Debug() }
func Info() *zerolog.Event  { return Logger.Info() }
func Warn() *zerolog.Event  { return Logger.Warn() }
func Error() *zerolog.Event { return Logger.Error() }
func Fatal() *zerolog.Event { return Logger.Fatal() }
