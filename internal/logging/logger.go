// Package logging defines the structured-logging interface used across
// saasctl and the two backends behind it: slog with a JSON handler and zap
// with a console encoder.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "elevating user", "user_id", id, "role", role)
type Logger interface {
	// Debug logs a diagnostic message, dropped unless the level is debug.
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

// Component returns a child of l tagged with the component name.
func Component(l Logger, name string) Logger {
	return l.With("component", name)
}
