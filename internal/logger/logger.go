// Package logger holds the process-wide structured logger used by pmemkit.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var global atomic.Pointer[slog.Logger]

func init() {
	global.Store(discard())
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// L returns the global logger. It discards all output until Init enables
// logging. Safe to call concurrently with Init.
func L() *slog.Logger { return global.Load() }

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Level   slog.Level // Minimum log level. Default: LevelInfo
	Format  string     // "text" or "json". Default: text
	Output  string     // "stderr", "stdout" or a file path. Default: stderr
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
//
// The returned close function releases the output file, if one was opened.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }
	if !opts.Enabled {
		global.Store(discard())
		return noop, nil
	}

	var (
		w       io.Writer
		closeFn = noop
	)
	switch strings.ToLower(opts.Output) {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(opts.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return noop, fmt.Errorf("logger: open output: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	switch strings.ToLower(opts.Format) {
	case "", "text":
		global.Store(slog.New(slog.NewTextHandler(w, handlerOpts)))
	case "json":
		global.Store(slog.New(slog.NewJSONHandler(w, handlerOpts)))
	default:
		_ = closeFn()
		return noop, fmt.Errorf("logger: unknown format %q", opts.Format)
	}
	return closeFn, nil
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L().Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L().Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L().Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L().Error(msg, args...) }
