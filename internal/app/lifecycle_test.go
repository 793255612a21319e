package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSetupLifecycleTimeout(t *testing.T) {
	t.Parallel()

	ctx, cleanup := SetupLifecycle(context.Background(), 10*time.Millisecond)
	defer cleanup()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire within the timeout")
	}
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}

func TestSetupLifecycleCleanupCancels(t *testing.T) {
	t.Parallel()

	ctx, cleanup := SetupLifecycle(context.Background(), time.Hour)
	cleanup()

	if ctx.Err() == nil {
		t.Error("cleanup must cancel the context")
	}
}
