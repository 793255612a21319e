// The cli package provides functions for building the command-line interface
// of the drive-thru application. It handles the asynchronous display of
// ingestion progress and formats order listings and analytics reports for a
// clear and readable presentation.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerRefreshRate defines the animation frequency of the progress spinner.
const SpinnerRefreshRate = 100 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `WithSpinner` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// WithSpinner runs fn while displaying an animated spinner with the given
// message. The spinner is stopped before the function returns, whether fn
// succeeded or not. When quiet is true no spinner is shown and fn runs
// directly, which keeps output machine-readable.
//
// Parameters:
//   - out: The io.Writer to which the spinner is rendered.
//   - message: The text displayed next to the spinner.
//   - quiet: If true, suppresses the spinner entirely.
//   - fn: The operation to run under the spinner.
//
// Returns:
//   - error: The error returned by fn, unchanged.
func WithSpinner(out io.Writer, message string, quiet bool, fn func() error) error {
	if quiet {
		return fn()
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(fmt.Sprintf(" %s", message))
	s.Start()
	defer s.Stop()

	return fn()
}
