// Package config provides the configuration management for the drive-thru
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/order"
)

const (
	// EnvPrefix is the prefix for all environment variables used by the
	// application. Environment variables provide an alternative to CLI flags,
	// following the 12-Factor App methodology.
	EnvPrefix = "DRIVETHRU_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultDataDir is the directory holding both append-only stores.
	DefaultDataDir = "log"
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultTimeout is the default per-operation timeout.
	DefaultTimeout = 30 * time.Second
)

// Store file names inside the data directory, kept from the original system.
const (
	// OrderStoreFile is the append-only order store file name.
	OrderStoreFile = "pedidos.txt"
	// EventLogFile is the append-only event log file name.
	EventLogFile = "logs_drive_thru.txt"
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. It encapsulates both the store locations and the
// requested action (create, advance, cancel, incident, list, analyze, serve).
type AppConfig struct {
	// DataDir is the directory holding the order store and the event log.
	DataDir string
	// New, if true, creates a new order.
	New bool
	// AdvanceID is the order to advance; 0 when no advance was requested.
	AdvanceID int
	// To is the target status label for -advance.
	To string
	// CancelID is the order to cancel; 0 when no cancellation was requested.
	CancelID int
	// IncidentID is the order to report an incident against; 0 when unset.
	IncidentID int
	// Description is the incident description for -incident.
	Description string
	// List, if true, prints the current status of every order.
	List bool
	// Problems, if set, prints the incident catalog for the given stage label.
	Problems string
	// AnalyzeFile, if set, ingests the given log file and prints the report.
	AnalyzeFile string
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// JSONOutput, if true, outputs results in JSON format.
	JSONOutput bool
	// Quiet suppresses banners and progress output for scripting.
	Quiet bool
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// Timeout sets the maximum duration for a single operation.
	Timeout time.Duration
}

// OrderStorePath returns the order store file path under DataDir.
func (c AppConfig) OrderStorePath() string {
	return filepath.Join(c.DataDir, OrderStoreFile)
}

// EventLogPath returns the event log file path under DataDir.
func (c AppConfig) EventLogPath() string {
	return filepath.Join(c.DataDir, EventLogFile)
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.DataDir == "" {
		return apperrors.NewConfigError("data directory must not be empty")
	}
	if c.AdvanceID < 0 || c.CancelID < 0 || c.IncidentID < 0 {
		return apperrors.NewConfigError("order ids must be positive")
	}
	if c.AdvanceID > 0 {
		if c.To == "" {
			return apperrors.NewConfigError("-advance requires -to with a target status")
		}
		if order.ParseStatus(c.To) == order.StatusUnknown {
			return apperrors.NewConfigError("unrecognized status: '%s'. Valid statuses are: %s",
				c.To, statusList())
		}
	}
	if c.Problems != "" && order.ParseStatus(c.Problems) == order.StatusUnknown {
		return apperrors.NewConfigError("unrecognized stage: '%s'. Valid stages are: %s",
			c.Problems, statusList())
	}
	return nil
}

// statusList renders the valid status labels for error messages.
func statusList() string {
	labels := ""
	for i, s := range order.Statuses() {
		if i > 0 {
			labels += ", "
		}
		labels += s.String()
	}
	return labels
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// and handles the parsing process. After parsing, it applies environment
// variable overrides and validates the resulting configuration.
//
// The function is designed to be testable by allowing the input arguments and
// output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.StringVar(&config.DataDir, "data-dir", DefaultDataDir, "Directory holding the order store and the event log.")
	fs.BoolVar(&config.New, "new", false, "Create a new order.")
	fs.IntVar(&config.AdvanceID, "advance", 0, "Advance the given order id (requires -to).")
	fs.StringVar(&config.To, "to", "", "Target status for -advance (Prepared, Delivered, Cancelled).")
	fs.IntVar(&config.CancelID, "cancel", 0, "Cancel the given order id.")
	fs.IntVar(&config.IncidentID, "incident", 0, "Report an incident against the given order id (requires -desc).")
	fs.StringVar(&config.Description, "desc", "", "Incident description for -incident.")
	fs.BoolVar(&config.List, "list", false, "List every order with its current status.")
	fs.StringVar(&config.Problems, "problems", "", "Print the incident catalog for the given stage.")
	fs.StringVar(&config.AnalyzeFile, "analyze", "", "Ingest the given event-log file and print the analytics report.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for a single operation.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
