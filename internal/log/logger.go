// Package log provides structured logging for buildvars.
//
// The Logger interface is backed by Go's stdlib slog so that every component
// (detector, resolver, cache, executor, cleaner) can be handed a logger in
// tests and fall back to a process-wide default otherwise.
//
// Output semantics:
//   - User output (stdout): "will compile", "will install", clean report
//   - Diagnostic logging (stderr): OS detection, variable resolution,
//     cache reads and writes, skipped clean targets
//
// Verbosity levels:
//   - ERROR (--quiet): Errors only
//   - INFO (default): Detection and resolution diagnostics
//   - DEBUG (--debug): Commands, signatures, cache internals
package log

import (
	"io"
	"log/slog"
	"sync"
)

// Logger is the interface for structured logging.
// Methods match slog's signature for easy integration.
type Logger interface {
	// Debug logs at DEBUG level: executed commands, build signatures,
	// ignored cache keys.
	Debug(msg string, args ...any)

	// Info logs at INFO level: which profile was checked, which argument
	// a variable was read from, what was written to the cache.
	Info(msg string, args ...any)

	// Warn logs at WARN level: skipped clean targets, ignored
	// command-line targets.
	Warn(msg string, args ...any)

	// Error logs at ERROR level.
	Error(msg string, args ...any)

	// With returns a Logger that adds the given key-value pairs
	// to every entry.
	With(args ...any) Logger
}

// slogLogger wraps slog.Logger to implement the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// NewText creates a text Logger writing to w at the given level.
// Timestamps are dropped so that two runs of the same build produce
// identical diagnostics.
func NewText(w io.Writer, level slog.Leveler) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *slogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// noopLogger discards all log output.
type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the global logger configured at startup.
// Returns a noop logger if SetDefault has not been called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the global logger. main calls it once after the
// verbosity flags are parsed.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
