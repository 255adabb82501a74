package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
// It allows for the creation of configuration-specific errors with dynamic
// content.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ParseError reports that a counter source was readable but structurally
// malformed, such as a /proc/stat file with no leading aggregate CPU record.
// Individual malformed numeric fields never produce a ParseError; they
// default to zero and parsing continues.
type ParseError struct {
	// Source identifies the counter source that failed to parse (e.g. "/proc/stat").
	Source string
	// Message explains what was structurally missing or malformed.
	Message string
}

// Error returns a formatted message describing the parse failure.
//
// Returns:
//   - string: The error message string.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Message)
}

// NewParseError creates a new ParseError for the given source with a
// formatted message.
//
// Parameters:
//   - source: The counter source that failed to parse.
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ParseError instance.
func NewParseError(source, format string, a ...any) error {
	return ParseError{Source: source, Message: fmt.Sprintf(format, a...)}
}

// UnsupportedPlatformError reports that no host counter source exists on the
// current platform. The collection pipeline assumes a /proc-like source and
// is only wired up on Linux hosts.
type UnsupportedPlatformError struct {
	// GOOS is the runtime operating system identifier (e.g. "darwin").
	GOOS string
}

// Error returns a formatted message naming the unsupported platform.
//
// Returns:
//   - string: The error message string.
func (e UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no host counter source available on platform %q", e.GOOS)
}

// CollectionError encapsulates a statistics collection error while preserving
// the original cause. This allows for structured error handling and
// inspection of which stage of the collection pipeline failed.
type CollectionError struct {
	// Stage names the pipeline stage that failed (e.g. "cpu", "memory").
	Stage string
	// Cause is the underlying error that aborted the collection.
	Cause error
}

// Error returns a formatted message naming the failed stage and cause.
//
// Returns:
//   - string: The error message string.
func (e CollectionError) Error() string {
	return fmt.Sprintf("collecting %s statistics: %v", e.Stage, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the CollectionError.
func (e CollectionError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsUnsupportedPlatform checks if the error chain contains an
// UnsupportedPlatformError.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the platform is unsupported.
func IsUnsupportedPlatform(err error) bool {
	var upe UnsupportedPlatformError
	return errors.As(err, &upe)
}
