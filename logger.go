package zunderbolt

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with stream-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// NewLoggerFromConfig builds a Logger from a LogConfig.
// Output "file" writes through a rotating lumberjack writer; anything else goes to stderr.
func NewLoggerFromConfig(cfg LogConfig) *Logger {
	var w io.Writer = os.Stderr
	if cfg.Output == LogOutputFile && cfg.FilePath != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}
	return NewLoggerWithWriter(cfg, w)
}

// NewLoggerWithWriter builds a Logger from a LogConfig writing to w.
func NewLoggerWithWriter(cfg LogConfig, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, LogFormatJSON) {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}
	return NewLogger(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
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

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogOpen logs an open attempt.
func (l *Logger) LogOpen(ctx context.Context, path, mode string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"path", path,
			"mode", mode,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "open completed",
			"path", path,
			"mode", mode,
			"size", size,
		)
	}
}

// LogFlush logs a flush of a dirty window.
func (l *Logger) LogFlush(ctx context.Context, path string, offset int64, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"path", path,
			"offset", offset,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "flush completed",
			"path", path,
			"offset", offset,
			"bytes", bytes,
		)
	}
}

// LogClose logs a close.
func (l *Logger) LogClose(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "close completed",
			"path", path,
		)
	}
}

// LogCopy logs a batch copy.
func (l *Logger) LogCopy(ctx context.Context, bytes int64, batches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "copy failed",
			"bytes", bytes,
			"batches", batches,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "copy completed",
			"bytes", bytes,
			"batches", batches,
		)
	}
}
