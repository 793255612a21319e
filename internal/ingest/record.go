// Package ingest parses raw event-log text into structured records for the
// analytics engine. Parsing is stateless, tolerant, and order-preserving:
// malformed lines are dropped silently, never failing the run, and parsing
// the same text twice yields identical output.
package ingest

import (
	"time"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
)

// Record is the in-memory projection of one event-log line, enriched with
// the calendar fields the aggregation engine groups by. Records are created
// per run and never persisted.
type Record struct {
	// Timestamp is the parsed event time.
	Timestamp time.Time
	// Date is the calendar date as "YYYY-MM-DD".
	Date string
	// ISOWeek is the ISO 8601 week number of the event.
	ISOWeek int
	// Weekday is the English weekday name ("Monday" … "Sunday").
	Weekday string
	// Hour is the hour of day, 0–23.
	Hour int
	// RawLevel is the level token exactly as it appeared on the line.
	RawLevel string
	// Level is the classified level; LevelUnknown for tokens outside the
	// audit vocabulary.
	Level eventlog.Level
	// Label is the human-friendly level label; raw token for unknown levels.
	Label string
	// Message is the event message.
	Message string
	// IsOrder reports whether the message references an order (contains the
	// token "pedido", case-insensitive).
	IsOrder bool
}

// DateLayout is the layout of the Record.Date field.
const DateLayout = "2006-01-02"
