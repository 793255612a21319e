// Package eventlog implements the append-only audit trail of the drive-thru
// system: one timestamped, leveled event per line, serialized as
//
//	[YYYY-MM-DD HH:MM:SS] LEVEL: message
//
// The log is the single source of truth for lifecycle and incident events.
// Entries are immutable once written; the only mutation is appending a line.
// Concurrent writers are serialized by the Log so partial lines never
// interleave.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/logging"
)

// TimeLayout is the timestamp layout used inside the brackets of each line.
const TimeLayout = "2006-01-02 15:04:05"

// Log is the append-only event log store. All appends go through a single
// mutex; each append opens the file, writes one full line, and flushes before
// returning, so a successful Append means the line is durably in the file.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
	log  logging.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source used for event timestamps.
// This exists for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the operational logger used for diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.log = logger
		}
	}
}

// Open prepares the event log at the given path, creating the parent
// directory if it does not exist (idempotent). The file itself is created
// lazily on the first append.
//
// Parameters:
//   - path: The log file path (e.g., "log/logs_drive_thru.txt").
//   - opts: Optional functional options (clock, logger).
//
// Returns:
//   - *Log: The opened event log.
//   - error: A StoreError if the directory cannot be created.
func Open(path string, opts ...Option) (*Log, error) {
	l := &Log{
		path: path,
		now:  time.Now,
		log:  logging.NewLogger(os.Stderr, "eventlog"),
	}
	for _, opt := range opts {
		opt(l)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStoreError("mkdir", dir, err)
		}
	}
	return l, nil
}

// Path returns the file path of the event log.
func (l *Log) Path() string { return l.path }

// Append writes one event line and flushes it. The timestamp is taken from
// the log's clock at the moment of the call.
//
// Parameters:
//   - level: The event level (must not be LevelUnknown).
//   - message: The event message. Line breaks are replaced with spaces, so
//     one Append is always exactly one physical line.
//
// Returns:
//   - error: A StoreError if the file cannot be opened or written.
func (l *Log) Append(level Level, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := FormatLine(l.now(), level, message)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewStoreError("open", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return apperrors.NewStoreError("append", l.path, err)
	}
	if err := f.Sync(); err != nil {
		return apperrors.NewStoreError("flush", l.path, err)
	}
	return nil
}

// ReadAll returns the full raw contents of the event log file. A missing file
// yields an empty string, which is a valid (empty) log.
func (l *Log) ReadAll() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", apperrors.NewStoreError("read", l.path, err)
	}
	return string(data), nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FormatLine serializes one event in the wire format, including the trailing
// newline. Line breaks inside the message are replaced with spaces: the log
// is one event per line, and a caller-supplied message must not be able to
// inject additional lines into the trail.
func FormatLine(ts time.Time, level Level, message string) string {
	return fmt.Sprintf("[%s] %s: %s\n", ts.Format(TimeLayout), level.Token(), lineBreaks.Replace(message))
}
