package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// SetupLifecycle combines timeout and signal handling into a single call.
// It creates a context that will be canceled either when the timeout expires
// or when SIGINT or SIGTERM is received, whichever happens first.
//
// Parameters:
//   - ctx: The parent context.
//   - timeout: The maximum duration for the operation.
//
// Returns:
//   - context.Context: A context with both timeout and signal handling.
//   - func(): A cleanup function releasing both (should be deferred).
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, func()) {
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)

	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}
