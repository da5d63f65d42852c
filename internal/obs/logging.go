// Package obs contains observability utilities such as logging.
package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerOptions selects the handler and level of a logger
type LoggerOptions struct {
	Level      string
	Format     string // "json", "text" or empty
	Production bool
	Output     io.Writer // defaults to stdout
}

// NewLogger builds a slog logger. An empty format means JSON in
// production and text otherwise.
func NewLogger(opts LoggerOptions) *slog.Logger {
	w := opts.Output
	if w == nil {
		w = os.Stdout
	}
	return newLogger(w, opts)
}

func newLogger(w io.Writer, opts LoggerOptions) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	format := opts.Format
	if format == "" {
		format = "text"
		if opts.Production {
			format = "json"
		}
	}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h).With("service", "kazen-backend")
}

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
