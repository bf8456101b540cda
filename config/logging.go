package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the logger described by c. A nil output writes to stderr.
//
// Parameters:
//   - c: the log settings
//   - output: the destination, or nil
//
// Returns:
//   - *slog.Logger: the logger
func (c LogConfig) NewLogger(output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(c.Level)}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
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
