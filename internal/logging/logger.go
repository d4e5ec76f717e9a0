// Package logging provides structured logging for ffmpegjob.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a new structured logger with the specified format and level.
// Format should be "json" or "text".
// Level should be "debug", "info", "warn", or "error".
func NewLogger(format, level string, verbose bool) *slog.Logger {
	logLevel := parseLevel(level)
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
		// Add source location for debug level
		AddSource: logLevel == slog.LevelDebug,
	}

	return slog.New(newHandler(os.Stderr, format, "json", opts))
}

// NewLoggerWithWriter creates a logger that writes to a custom writer.
// Useful for testing, where a human reads the buffer's contents
// directly, so an unrecognized format falls back to text rather than
// NewLogger's json — the opposite default is intentional, not drift.
func NewLoggerWithWriter(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(newHandler(w, format, "text", opts))
}

// newHandler picks a slog.Handler for format ("json" or "text"),
// falling back to fallback for anything else. Shared so both
// constructors parse the format string identically and only their
// fallback choice differs.
func newHandler(w io.Writer, format, fallback string, opts *slog.HandlerOptions) slog.Handler {
	resolved := strings.ToLower(format)
	if resolved != "json" && resolved != "text" {
		resolved = fallback
	}
	if resolved == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string level to slog.Level.
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

// SetDefault sets the default logger for the slog package.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
