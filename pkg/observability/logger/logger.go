// Package logger provides structured logging for the client library.
package logger

import "context"

// Logger is the structured logging contract used throughout the library.
// Log methods take a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger whose entries carry the given key-value
	// pairs.
	With(args ...any) Logger

	// WithContext returns a child logger carrying the request id from ctx,
	// when one is present.
	WithContext(ctx context.Context) Logger
}

type noopLogger struct{}

// NewNoop returns a Logger that discards everything. Useful as a default and
// in tests.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any)                 {}
func (noopLogger) Info(string, ...any)                  {}
func (noopLogger) Warn(string, ...any)                  {}
func (noopLogger) Error(string, ...any)                 {}
func (n noopLogger) With(...any) Logger                 { return n }
func (n noopLogger) WithContext(context.Context) Logger { return n }
