package ports

import "io"

// Logger is the logging abstraction used across the application.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info logs an informational message with optional key-value attributes.
	Info(msg string, args ...any)

	// Warn logs a warning with optional key-value attributes.
	Warn(msg string, args ...any)

	// Error logs an error, rendering wrapped causes and metadata.
	Error(err error)

	// SetOutput redirects log output, primarily for tests.
	SetOutput(w io.Writer)

	// SetJSON toggles machine-readable JSON output.
	SetJSON(enable bool)
}
