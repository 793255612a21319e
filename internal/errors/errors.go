// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// order lifecycle, store I/O) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Error types that carry a cause implement Unwrap() to support errors.Is()
// and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess      = 0   // Indicates successful execution.
	ExitErrorGeneric = 1   // Indicates a generic error.
	ExitErrorStore   = 3   // Indicates a store append or load failure.
	ExitErrorConfig  = 4   // Indicates a configuration error.
	ExitErrorCancel  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
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

// NotFoundError reports an operation against an order id that has no record
// in the order store.
type NotFoundError struct {
	// ID is the order identifier that could not be found.
	ID int
}

// Error returns the error message for a NotFoundError.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.ID)
}

// InvalidTransitionError reports a lifecycle transition that is not an edge
// of the order state machine. The order store is guaranteed untouched when
// this error is returned.
type InvalidTransitionError struct {
	// ID is the order whose transition was rejected.
	ID int
	// From is the current status of the order.
	From string
	// To is the requested target status.
	To string
}

// Error returns the error message for an InvalidTransitionError.
func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %d: invalid transition from %s to %s", e.ID, e.From, e.To)
}

// EmptyDescriptionError reports an incident report submitted with a blank
// description.
type EmptyDescriptionError struct {
	// ID is the order the incident was reported against.
	ID int
}

// Error returns the error message for an EmptyDescriptionError.
func (e EmptyDescriptionError) Error() string {
	return fmt.Sprintf("order %d: incident description must not be empty", e.ID)
}

// StoreError represents a fatal I/O failure on one of the append-only stores.
// It wraps the underlying OS error with the operation and file path for
// context. A StoreError aborts the operation in progress but must never crash
// the process; retrying is the caller's decision.
type StoreError struct {
	// Op is the store operation that failed (e.g., "append", "open").
	Op string
	// Path is the file the store was operating on.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message for a StoreError.
func (e StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying error, allowing for error chain inspection
// (e.g., using errors.Is or errors.As).
func (e StoreError) Unwrap() error { return e.Cause }

// NewStoreError creates a new StoreError.
//
// Parameters:
//   - op: The store operation that failed.
//   - path: The file the store was operating on.
//   - cause: The underlying error.
//
// Returns:
//   - error: A new StoreError instance.
func NewStoreError(op, path string, cause error) error {
	return StoreError{Op: op, Path: path, Cause: cause}
}

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

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsRecoverable reports whether the error is one of the recoverable domain
// failures (unknown order, rejected transition, blank incident description).
// Recoverable failures are reported to the caller and audited in the event
// log, but do not abort the process.
func IsRecoverable(err error) bool {
	var nf NotFoundError
	var it InvalidTransitionError
	var ed EmptyDescriptionError
	return errors.As(err, &nf) || errors.As(err, &it) || errors.As(err, &ed)
}
