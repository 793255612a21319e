package cli

import (
	"errors"
	"io"
	"testing"

	"github.com/briandowns/spinner"
)

// fakeSpinner records lifecycle calls for assertions.
type fakeSpinner struct {
	started bool
	stopped bool
	suffix  string
}

func (f *fakeSpinner) Start()                     { f.started = true }
func (f *fakeSpinner) Stop()                      { f.stopped = true }
func (f *fakeSpinner) UpdateSuffix(suffix string) { f.suffix = suffix }

func withFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return fake }
	t.Cleanup(func() { newSpinner = orig })
	return fake
}

func TestWithSpinnerRunsFunction(t *testing.T) {
	fake := withFakeSpinner(t)

	ran := false
	err := WithSpinner(io.Discard, "working", false, func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithSpinner() returned error: %v", err)
	}
	if !ran {
		t.Error("the wrapped function did not run")
	}
	if !fake.started || !fake.stopped {
		t.Errorf("spinner lifecycle = started %v, stopped %v, want both", fake.started, fake.stopped)
	}
	if fake.suffix != " working" {
		t.Errorf("suffix = %q, want %q", fake.suffix, " working")
	}
}

func TestWithSpinnerPropagatesError(t *testing.T) {
	fake := withFakeSpinner(t)

	wantErr := errors.New("boom")
	err := WithSpinner(io.Discard, "working", false, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("WithSpinner() = %v, want %v", err, wantErr)
	}
	if !fake.stopped {
		t.Error("spinner must be stopped even when the function fails")
	}
}

func TestWithSpinnerQuietSkipsSpinner(t *testing.T) {
	fake := withFakeSpinner(t)

	err := WithSpinner(io.Discard, "working", true, func() error { return nil })
	if err != nil {
		t.Fatalf("WithSpinner() returned error: %v", err)
	}
	if fake.started {
		t.Error("quiet mode must not start the spinner")
	}
}
