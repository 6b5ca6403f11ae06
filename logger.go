package memtable

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with memtable-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTable adds the table name to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// LogCommit logs an append-commit operation.
func (l *Logger) LogCommit(ctx context.Context, blocks int, rows, bytes uint64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "commit failed",
			"blocks", blocks,
			"rows", rows,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "commit completed",
			"blocks", blocks,
			"rows", rows,
			"bytes", bytes,
			"duration", duration,
		)
	}
}

// LogScan logs a parallel scan operation.
func (l *Logger) LogScan(ctx context.Context, workers, blocks int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"workers", workers,
			"blocks", blocks,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scan completed",
			"workers", workers,
			"blocks", blocks,
			"duration", duration,
		)
	}
}

// LogMutation logs a bulk mutation operation.
func (l *Logger) LogMutation(ctx context.Context, mode string, blocks int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mutation failed",
			"mode", mode,
			"blocks", blocks,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "mutation completed",
			"mode", mode,
			"blocks", blocks,
			"duration", duration,
		)
	}
}

// LogTruncate logs a drop/truncate operation.
func (l *Logger) LogTruncate(ctx context.Context, rows, bytes uint64) {
	l.InfoContext(ctx, "table truncated",
		"dropped_rows", rows,
		"dropped_bytes", bytes,
	)
}
