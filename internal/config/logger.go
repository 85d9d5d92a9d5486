package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/logging"
)

// Logger holds the logging flags shared by every command.
type Logger struct {
	Level  string
	Format string
	Output string
}

// Flags returns the CLI flags bound to l.
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("PROFILEFORM_LOG_LEVEL"),
			Destination: &l.Level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (text, json)",
			Category:    "Logging",
			Value:       "text",
			Sources:     cli.EnvVars("PROFILEFORM_LOG_FORMAT"),
			Destination: &l.Format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log destination: stderr, stdout, or a file path",
			Category:    "Logging",
			Value:       "stderr",
			Sources:     cli.EnvVars("PROFILEFORM_LOG_OUTPUT"),
			Destination: &l.Output,
		},
	}
}

// Configure installs the process-wide logger and returns a closer for the
// output file, if any.
func (l *Logger) Configure() (func(), error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid logger configuration")
	}
	format, err := logging.ParseFormat(l.Format)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid logger configuration")
	}

	var (
		w      io.Writer
		closer = func() {}
	)
	switch l.Output {
	case "", "stderr", "-":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		// #nosec G304 - path is provided by the operator
		f, err := os.OpenFile(l.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log output", goerr.V("path", l.Output))
		}
		w = f
		closer = func() { _ = f.Close() }
	}

	logging.SetDefault(logging.New(w, level, format))
	return closer, nil
}

// LogValue keeps the logger configuration readable in structured logs.
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.Level),
		slog.String("format", l.Format),
		slog.String("output", l.Output),
	)
}
