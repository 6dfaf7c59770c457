// Package logging defines a minimal structured-logging interface used across
// the project. Implementations can wrap slog, zap, zerolog, etc.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "device registered", "name", name, "owner", owner)
type Logger interface {
	// Debug logs a message useful only while diagnosing the registry.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

type nop struct{}

func (nop) Debug(context.Context, string, ...any) {}
func (nop) Info(context.Context, string, ...any)  {}
func (nop) Warn(context.Context, string, ...any)  {}
func (nop) Error(context.Context, string, ...any) {}
func (n nop) With(...any) Logger                  { return n }

// Nop discards everything.
var Nop Logger = nop{}
