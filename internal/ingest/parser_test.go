package ingest

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	line := "[2025-01-01 08:30:00] INFO: Pedido 1 iniciado no drive-thru"
	rec, ok := ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine(%q) rejected a valid line", line)
	}

	if rec.Date != "2025-01-01" {
		t.Errorf("Date = %q, want 2025-01-01", rec.Date)
	}
	if rec.Weekday != "Wednesday" {
		t.Errorf("Weekday = %q, want Wednesday", rec.Weekday)
	}
	if rec.ISOWeek != 1 {
		t.Errorf("ISOWeek = %d, want 1", rec.ISOWeek)
	}
	if rec.Hour != 8 {
		t.Errorf("Hour = %d, want 8", rec.Hour)
	}
	if rec.Level != eventlog.LevelInfo {
		t.Errorf("Level = %v, want LevelInfo", rec.Level)
	}
	if rec.Label != "Informação" {
		t.Errorf("Label = %q, want Informação", rec.Label)
	}
	if rec.Message != "Pedido 1 iniciado no drive-thru" {
		t.Errorf("Message = %q", rec.Message)
	}
	if !rec.IsOrder {
		t.Error("IsOrder = false, want true for a message containing 'Pedido'")
	}
}

func TestParseLineMalformed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"no brackets", "2025-01-01 08:30:00 INFO: msg"},
		{"bad timestamp", "[2025-13-01 08:30:00] INFO: msg"},
		{"missing level separator", "[2025-01-01 08:30:00] INFO msg"},
		{"too few tokens", "[2025-01-01] INFO: msg"},
		{"prose line", "drive-thru opened for business"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if rec, ok := ParseLine(tc.line); ok {
				t.Errorf("ParseLine(%q) = %+v, want rejection", tc.line, rec)
			}
		})
	}
}

func TestParseLineUnknownLevelKeepsRawLabel(t *testing.T) {
	t.Parallel()

	rec, ok := ParseLine("[2025-01-01 08:30:00] AUDIT: manual check")
	if !ok {
		t.Fatal("ParseLine() rejected a line with an unknown level token")
	}
	if rec.Level != eventlog.LevelUnknown {
		t.Errorf("Level = %v, want LevelUnknown", rec.Level)
	}
	if rec.Label != "AUDIT" {
		t.Errorf("Label = %q, want raw token AUDIT", rec.Label)
	}
}

func TestParseDropsMalformedAndPreservesOrder(t *testing.T) {
	t.Parallel()

	raw := "[2025-01-01 08:00:00] INFO: Pedido 1 iniciado no drive-thru\n" +
		"not a log line\n" +
		"\n" +
		"[2025-01-01 09:15:00] ERROR: Pedido 1 Pagamento não processado\n" +
		"[2025-01-01 10:00:00] WARNING: Pedido 2 cancelado pelo usuário\n"

	records := Parse(raw)
	if len(records) != 3 {
		t.Fatalf("Parse() returned %d records, want 3", len(records))
	}

	wantMessages := []string{
		"Pedido 1 iniciado no drive-thru",
		"Pedido 1 Pagamento não processado",
		"Pedido 2 cancelado pelo usuário",
	}
	for i, want := range wantMessages {
		if records[i].Message != want {
			t.Errorf("records[%d].Message = %q, want %q", i, records[i].Message, want)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Parse(""); len(got) != 0 {
		t.Errorf("Parse(\"\") = %v, want no records", got)
	}
}

// TestParseProperties verifies with property-based testing that any line
// produced by the event log's own formatter parses back losslessly, and
// that parsing is deterministic.
func TestParseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	levelGen := gen.OneConstOf(
		eventlog.LevelInfo, eventlog.LevelWarning,
		eventlog.LevelError, eventlog.LevelCritical, eventlog.LevelCancelled,
	)

	properties.Property("formatted lines round-trip", prop.ForAll(
		func(level eventlog.Level, id int, unix int64) bool {
			ts := time.Unix(unix, 0).UTC()
			message := fmt.Sprintf("Pedido %d preparado na cozinha", id)
			line := eventlog.FormatLine(ts, level, message)

			rec, ok := ParseLine(line)
			return ok &&
				rec.Level == level &&
				rec.Message == message &&
				rec.Timestamp.Equal(ts) &&
				rec.IsOrder
		},
		levelGen,
		gen.IntRange(1, 100000),
		gen.Int64Range(0, 4102444800), // up to year 2100
	))

	properties.Property("parsing is deterministic", prop.ForAll(
		func(raw string) bool {
			return reflect.DeepEqual(Parse(raw), Parse(raw))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
