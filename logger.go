package aegis

import "context"

// Logger is the primary logging interface.
// All methods take a context first and are safe for concurrent use.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(ctx context.Context, msg string, fields ...Field)

	// Info logs a message at info level.
	Info(ctx context.Context, msg string, fields ...Field)

	// Warn logs a message at warn level.
	Warn(ctx context.Context, msg string, fields ...Field)

	// Error logs a message at error level with an optional error.
	Error(ctx context.Context, msg string, err error, fields ...Field)

	// Critical logs a message at fatal level but does NOT exit the process.
	Critical(ctx context.Context, msg string, err error, fields ...Field)

	// With returns a child logger with additional fields attached.
	// Fields are included in all subsequent log entries.
	With(fields ...Field) Logger

	// Named returns a named sub-logger.
	// The name appears in logs as the "logger" field.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error

	// Shutdown flushes buffers and stops any background exporters.
	// Applications should call Shutdown before exiting.
	Shutdown(ctx context.Context) error

	// SetLevel changes the log level at runtime.
	// Valid levels: debug, info, warn, error, fatal.
	SetLevel(level string)

	// GetLevel returns the current log level as a string.
	GetLevel() string
}
