package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/analytics"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/cli"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/config"
	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ingest"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/order"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/server"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ui"
)

// Application represents the drivethru application instance.
// It encapsulates the configuration and provides methods to run the
// application in its various modes (order commands, analysis, server).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "drivethru"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (server, analysis, or one of the
// order lifecycle commands).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects -no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Log analysis mode
	if a.Config.AnalyzeFile != "" {
		return a.runAnalyze(ctx, out)
	}

	ctx, cleanup := SetupLifecycle(ctx, a.Config.Timeout)
	defer cleanup()

	switch {
	case a.Config.New:
		return a.runCreate(ctx, out)
	case a.Config.AdvanceID > 0:
		return a.runAdvance(ctx, out)
	case a.Config.CancelID > 0:
		return a.runCancel(ctx, out)
	case a.Config.IncidentID > 0:
		return a.runIncident(ctx, out)
	case a.Config.Problems != "":
		return a.runProblems(out)
	default:
		// -list, and the default when no action flag was given.
		return a.runList(out)
	}
}

// openService opens both append-only stores and wires the order service
// over them.
func (a *Application) openService() (*order.Service, *eventlog.Log, error) {
	events, err := eventlog.Open(a.Config.EventLogPath())
	if err != nil {
		return nil, nil, err
	}
	store, err := order.OpenStore(a.Config.OrderStorePath())
	if err != nil {
		return nil, nil, err
	}
	return order.NewService(store, events), events, nil
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	svc, events, err := a.openService()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening stores: %v\n", err)
		return a.exitCode(err)
	}

	srv := server.NewServer(svc, events, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runCreate creates a new order in the Initiated state.
func (a *Application) runCreate(ctx context.Context, out io.Writer) int {
	svc, _, err := a.openService()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening stores: %v\n", err)
		return a.exitCode(err)
	}

	id, err := svc.Create(ctx)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error creating order: %v\n", err)
		return a.exitCode(err)
	}

	if a.Config.JSONOutput {
		return a.writeJSON(out, map[string]any{"id": id, "status": order.StatusInitiated.String()})
	}
	fmt.Fprintf(out, "%sOrder %s%d%s created (%s).%s\n",
		cli.ColorGreen(), cli.ColorBold(), id, cli.ColorGreen(), order.StatusInitiated, cli.ColorReset())
	return apperrors.ExitSuccess
}

// runAdvance moves an order to the target status given by -to.
func (a *Application) runAdvance(ctx context.Context, out io.Writer) int {
	target := order.ParseStatus(a.Config.To)

	svc, _, err := a.openService()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening stores: %v\n", err)
		return a.exitCode(err)
	}

	if err := svc.Advance(ctx, a.Config.AdvanceID, target); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error advancing order: %v\n", err)
		return a.exitCode(err)
	}

	if a.Config.JSONOutput {
		return a.writeJSON(out, map[string]any{"id": a.Config.AdvanceID, "status": target.String()})
	}
	fmt.Fprintf(out, "%sOrder %s%d%s is now %s%s%s.%s\n",
		cli.ColorGreen(), cli.ColorBold(), a.Config.AdvanceID, cli.ColorGreen(),
		cli.ColorBold(), target, cli.ColorGreen(), cli.ColorReset())
	return apperrors.ExitSuccess
}

// runCancel cancels an order from any non-terminal state.
func (a *Application) runCancel(ctx context.Context, out io.Writer) int {
	svc, _, err := a.openService()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening stores: %v\n", err)
		return a.exitCode(err)
	}

	if err := svc.Cancel(ctx, a.Config.CancelID); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error canceling order: %v\n", err)
		return a.exitCode(err)
	}

	if a.Config.JSONOutput {
		return a.writeJSON(out, map[string]any{"id": a.Config.CancelID, "status": order.StatusCancelled.String()})
	}
	fmt.Fprintf(out, "%sOrder %s%d%s canceled.%s\n",
		cli.ColorYellow(), cli.ColorBold(), a.Config.CancelID, cli.ColorYellow(), cli.ColorReset())
	return apperrors.ExitSuccess
}

// runIncident records an incident against an order in the event log.
func (a *Application) runIncident(ctx context.Context, out io.Writer) int {
	svc, _, err := a.openService()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening stores: %v\n", err)
		return a.exitCode(err)
	}

	if err := svc.ReportIncident(ctx, a.Config.IncidentID, a.Config.Description); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error recording incident: %v\n", err)
		return a.exitCode(err)
	}

	if a.Config.JSONOutput {
		return a.writeJSON(out, map[string]any{"id": a.Config.IncidentID, "recorded": true})
	}
	fmt.Fprintf(out, "%sIncident recorded for order %s%d%s.%s\n",
		cli.ColorYellow(), cli.ColorBold(), a.Config.IncidentID, cli.ColorYellow(), cli.ColorReset())
	return apperrors.ExitSuccess
}

// runProblems prints the incident catalog for the stage given by -problems.
func (a *Application) runProblems(out io.Writer) int {
	stage := order.ParseStatus(a.Config.Problems)
	problems := order.ProblemsFor(stage)

	if a.Config.JSONOutput {
		return a.writeJSON(out, map[string]any{"stage": stage.String(), "problems": problems})
	}
	cli.RenderProblems(out, stage, problems)
	return apperrors.ExitSuccess
}

// runList prints the current status of every known order.
func (a *Application) runList(out io.Writer) int {
	svc, _, err := a.openService()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening stores: %v\n", err)
		return a.exitCode(err)
	}

	records := svc.Snapshot()
	if a.Config.JSONOutput {
		out2 := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out2 = append(out2, map[string]any{"id": rec.ID, "status": rec.Status.String()})
		}
		return a.writeJSON(out, map[string]any{"orders": out2, "count": len(records)})
	}
	cli.RenderOrders(out, records)
	return apperrors.ExitSuccess
}

// runAnalyze ingests the event-log file given by -analyze and prints the
// full analytics report.
func (a *Application) runAnalyze(ctx context.Context, out io.Writer) int {
	ctx, cleanup := SetupLifecycle(ctx, a.Config.Timeout)
	defer cleanup()

	data, err := os.ReadFile(a.Config.AnalyzeFile)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error reading log file: %v\n",
			apperrors.NewStoreError("read", a.Config.AnalyzeFile, err))
		return apperrors.ExitErrorStore
	}

	// In quiet or JSON mode, use a discard writer for progress display
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	var report analytics.Report
	err = cli.WithSpinner(progressOut, "Analyzing event log...", a.Config.Quiet || a.Config.JSONOutput, func() error {
		records := ingest.Parse(string(data))
		var buildErr error
		report, buildErr = analytics.BuildReport(ctx, records)
		return buildErr
	})
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error building report: %v\n", err)
		return a.exitCode(err)
	}

	if a.Config.JSONOutput {
		return a.writeJSON(out, report)
	}
	cli.RenderReport(out, report)
	return apperrors.ExitSuccess
}

// writeJSON encodes v to out, mapping encoding failures to a generic error
// exit code.
func (a *Application) writeJSON(out io.Writer, v any) int {
	if err := cli.WriteJSON(out, v); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error encoding JSON: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// exitCode maps an error to the application's exit code conventions.
func (a *Application) exitCode(err error) int {
	var ce apperrors.ConfigError
	var se apperrors.StoreError
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case apperrors.IsContextError(err):
		return apperrors.ExitErrorCancel
	case errors.As(err, &ce):
		return apperrors.ExitErrorConfig
	case errors.As(err, &se):
		return apperrors.ExitErrorStore
	default:
		return apperrors.ExitErrorGeneric
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
