// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string    // debug, info, warn or error
	FilePath   string    // rotating log file; empty logs to Stderr
	MaxSizeMB  int       // size in MB before rotation
	MaxBackups int       // rotated files to keep
	MaxAgeDays int       // days to keep rotated files
	Stderr     io.Writer // defaults to os.Stderr
}

// DefaultConfig only reports warnings, keeping stderr quiet for normal
// conversions.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// Setup installs the default slog logger. The returned function closes the
// log file, if any, and must be called before exit.
func Setup(cfg Config) (func() error, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if cfg.FilePath == "" {
		w := cfg.Stderr
		if w == nil {
			w = os.Stderr
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(lj, opts)))
	return lj.Close, nil
}

// ParseLevel maps a level name to a slog.Level, falling back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
