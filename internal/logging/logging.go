// Package logging provides structured logging for scenegrab.
// It builds on log/slog: JSON for the long-running web UI, colored text via
// tint for interactive terminal use.
package logging

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// NewLogger creates a logger with the specified level and format.
// Supported levels: debug, info, warn, error
func NewLogger(level, format string) *slog.Logger {
	if strings.ToLower(format) == FormatText {
		return slog.New(newTextHandler(os.Stderr, parseLevel(level)))
	}
	return slog.New(newJSONHandler(os.Stdout, parseLevel(level)))
}

func newJSONHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		// Add source location for debug level
		AddSource: lvl == slog.LevelDebug,
	})
}

func newTextHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		AddSource:  lvl == slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithRequestID returns a logger with request_id attribute
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithComponent returns a logger with component attribute.
// A nil logger yields a discarding one.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With("component", component)
}

// SanitizeURL drops the query string and fragment of a URL for logging.
// Video URLs often carry playlist and tracking parameters.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<unparsed>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	return u.String()
}
