// Package logger provides opinionated logging capabilities for the fleetscope
// CLI and client library. Loggers are standard *slog.Logger values so every
// package can depend on log/slog while the handler selection (text, JSON, or
// pretty terminal output) stays in one place.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// config holds the resolved handler settings for New.
type config struct {
	level   slog.Level
	pretty  bool
	json    bool
	source  bool
	writers []io.Writer
}

// New creates a *slog.Logger configured by the given options.
//
// The default is a text handler at Info level writing to os.Stdout.
// WithJSON selects slog's JSON handler for structured service logs, and
// WithPretty selects the charmbracelet/log handler for colorized CLI output.
// When both are set, pretty wins.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:   slog.LevelInfo,
		writers: []io.Writer{os.Stdout},
	}
	for _, opt := range opts {
		opt(c)
	}

	var w io.Writer
	if len(c.writers) == 1 {
		w = c.writers[0]
	} else {
		w = io.MultiWriter(c.writers...)
	}

	switch {
	case c.pretty:
		h := charmlog.NewWithOptions(w, charmlog.Options{
			Level:        charmLevel(c.level),
			ReportCaller: c.source,
		})
		return slog.New(h)

	case c.json:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))

	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))
	}
}

// Nop returns a logger that discards every record. Used in tests and as a
// safe default when a caller passes a nil logger.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// charmLevel maps an slog level onto charmbracelet/log's level scale.
func charmLevel(l slog.Level) charmlog.Level {
	switch {
	case l <= slog.LevelDebug:
		return charmlog.DebugLevel
	case l <= slog.LevelInfo:
		return charmlog.InfoLevel
	case l <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
