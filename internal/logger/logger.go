package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/polkiloo/orderdesk/internal/config"
)

// New creates a preconfigured slog.Logger. When a log file is configured,
// records go to stdout and to a size-rotated file.
func New(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg != nil && cfg.Log.File != "" {
		out = io.MultiWriter(os.Stdout, rotated(cfg.Log))
	}
	return newJSON(out, cfg)
}

// NewQuiet writes only to the configured log file, or nowhere. The terminal
// feed owns stdout.
func NewQuiet(cfg *config.Config) *slog.Logger {
	if cfg == nil || cfg.Log.File == "" {
		return newJSON(io.Discard, cfg)
	}
	return newJSON(rotated(cfg.Log), cfg)
}

func rotated(l config.LogConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
		Compress:   true,
	}
}

func newJSON(out io.Writer, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = ParseLevel(cfg.Log.Level)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// ParseLevel maps debug, warn and error; anything else is info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
