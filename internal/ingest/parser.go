package ingest

import (
	"strings"
	"time"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
)

// Parse converts raw event-log text into structured records, preserving
// input line order. A line is dropped (never fatally) when it does not split
// into a bracketed timestamp, a second token, and a remainder containing
// ": ", or when the timestamp inside the brackets does not parse. The
// function holds no state: the result depends only on the input text.
//
// Parameters:
//   - raw: The full event-log text (e.g., an uploaded file's contents).
//
// Returns:
//   - []Record: One record per parseable line, in input order.
func Parse(raw string) []Record {
	lines := strings.Split(raw, "\n")
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if rec, ok := ParseLine(line); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ParseLine parses a single event-log line. The second return value reports
// whether the line was well formed; malformed lines yield (Record{}, false).
func ParseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false
	}

	// "[YYYY-MM-DD" + "HH:MM:SS]" + "LEVEL: message"
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return Record{}, false
	}

	ts, ok := parseBracketedTimestamp(parts[0] + " " + parts[1])
	if !ok {
		return Record{}, false
	}

	rawLevel, message, ok := strings.Cut(parts[2], ": ")
	if !ok {
		return Record{}, false
	}

	level := eventlog.ParseLevel(rawLevel)
	_, week := ts.ISOWeek()

	return Record{
		Timestamp: ts,
		Date:      ts.Format(DateLayout),
		ISOWeek:   week,
		Weekday:   ts.Weekday().String(),
		Hour:      ts.Hour(),
		RawLevel:  rawLevel,
		Level:     level,
		Label:     eventlog.DisplayLabel(level, rawLevel),
		Message:   message,
		IsOrder:   strings.Contains(strings.ToLower(message), "pedido"),
	}, true
}

// parseBracketedTimestamp extracts and parses the "[YYYY-MM-DD HH:MM:SS]"
// token.
func parseBracketedTimestamp(token string) (time.Time, bool) {
	if len(token) < 2 || token[0] != '[' || token[len(token)-1] != ']' {
		return time.Time{}, false
	}
	ts, err := time.Parse(eventlog.TimeLayout, token[1:len(token)-1])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
