// Package tools holds the small helpers shared by the servers: the logger setup
// and the logging wrappers of the control channel.
package tools

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel converts DEBUG, INFO, WARN or ERROR to a slog level, anything else is INFO
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates the colored slog logger the servers log with
func NewLogger(level string, w io.Writer) *slog.Logger {
	logLevel := ParseLevel(level)
	handlerOptions := &tint.Options{
		AddSource:  logLevel == slog.LevelDebug,
		Level:      logLevel,
		TimeFormat: time.DateTime,
	}

	handler := tint.NewHandler(w, handlerOptions)

	logger := slog.New(handler).With("app", "ftp-server")
	logger.Debug("Logger initialized", "level", logLevel)

	return logger
}
