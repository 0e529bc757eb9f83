// Package logger configures the structured logger used across the module.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// NewDefaultLogger returns a text-format slog logger at the given level,
// writing to stderr.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// NewJSONLogger returns a JSON-format slog logger at the given level.
func NewJSONLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// New builds a logger from the textual level and format found in config
// ("debug"/"info"/"warn"/"error", "text"/"json").
func New(level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return NewJSONLogger(ParseLevel(level))
	}
	return NewDefaultLogger(ParseLevel(level))
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
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
