// Package logger builds the slog loggers used by the server and the CLI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/noteforge/internal/config"
)

// Level resolves the log level: debug in development or when LOG_LEVEL=debug.
func Level(cfg *config.Config) slog.Level {
	logLevel := slog.LevelInfo
	if cfg.Env == "development" {
		logLevel = slog.LevelDebug
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return logLevel
}

// SetupLogger configures structured JSON logging for the server.
func SetupLogger(cfg *config.Config) *slog.Logger {
	return setup(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{ //nolint:exhaustruct // defaults for other fields
		Level: Level(cfg),
	}))
}

// SetupTextLogger configures human-readable logging to w for CLI commands.
func SetupTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return setup(slog.NewTextHandler(w, &slog.HandlerOptions{ //nolint:exhaustruct // defaults for other fields
		Level: level,
	}))
}

// SetupFileLogger sends logs to a file so they do not corrupt a full-screen
// terminal UI. The returned closer closes the file.
func SetupFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return SetupTextLogger(f, level), f, nil
}

func setup(handler slog.Handler) *slog.Logger {
	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}
