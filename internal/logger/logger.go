// Package logger is a thin slog wrapper shared by every pipeline stage.
// The package-level functions stay usable before Init so tests can log
// without setup.
package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init configures the process logger. DEBUG=true lowers the level;
// TIDE_LOG_FORMAT=json switches to JSON lines for log collectors.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("TIDE_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}
