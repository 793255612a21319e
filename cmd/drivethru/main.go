// Command drivethru tracks drive-thru orders through their lifecycle and
// analyzes the resulting audit event log. It can run as a one-shot CLI
// command or as an HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/app"
	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
)

func main() {
	// Handle --version in any position, before flag parsing
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
