// File: internal/logging/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package logging provides structured logging for the furi-thread kernel.
// It wraps Go's log/slog package with a runtime-adjustable level and child
// loggers that carry thread and component attributes.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Logger provides structured logging. It is safe for concurrent use; child
// loggers share the parent's level.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// NewLogger creates a Logger writing to w in the given format ("json" or
// "text"). Unknown levels default to INFO, unknown formats to text.
func NewLogger(w io.Writer, level, format string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	lv := new(slog.LevelVar)
	lv.Set(parseLevel(level))
	opts := &slog.HandlerOptions{Level: lv}

	var handler slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{logger: slog.New(handler), level: lv}
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the minimum level for this logger and all its children.
func (l *Logger) SetLevel(level string) {
	l.level.Set(parseLevel(level))
}

// Level returns the current minimum level name.
func (l *Logger) Level() string {
	switch l.level.Level() {
	case slog.LevelDebug:
		return LevelDebug
	case slog.LevelWarn:
		return LevelWarn
	case slog.LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// WithThread returns a child logger tagged with a thread name and id.
func (l *Logger) WithThread(name string, id uint32) *Logger {
	return l.With("thread", name, "thread_id", id)
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// With returns a child logger with arbitrary key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), level: l.level}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelError + 4)
	return &Logger{
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: lv})),
		level:  lv,
	}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(os.Stderr, LevelWarn, FormatText))
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
