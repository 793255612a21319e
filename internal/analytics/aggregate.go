// Package analytics reduces parsed event-log records into operational
// metrics: grouped counts, ratios, and generalized error clusters. Every
// function here is pure and deterministic over its input slice — no caching,
// no side effects — so callers may filter the record set however they like
// and recompute at will. Empty input always yields empty or zero output,
// never an error.
package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ingest"
)

// DayLevel is the grouping key for daily per-level counts.
type DayLevel struct {
	// Date is the calendar date as "YYYY-MM-DD".
	Date string
	// Label is the display label of the level.
	Label string
}

// DailyByLevel counts records grouped by (date, level label).
func DailyByLevel(records []ingest.Record) map[DayLevel]int {
	counts := make(map[DayLevel]int)
	for _, rec := range records {
		counts[DayLevel{Date: rec.Date, Label: rec.Label}]++
	}
	return counts
}

// AveragePerLevel computes, for each level label, the mean number of events
// per distinct date present in the record set. An empty input yields an empty
// map: the distinct-date denominator is never zero when a level is counted.
func AveragePerLevel(records []ingest.Record) map[string]float64 {
	if len(records) == 0 {
		return map[string]float64{}
	}

	dates := make(map[string]struct{})
	counts := make(map[string]int)
	for _, rec := range records {
		dates[rec.Date] = struct{}{}
		counts[rec.Label]++
	}

	averages := make(map[string]float64, len(counts))
	for label, count := range counts {
		averages[label] = float64(count) / float64(len(dates))
	}
	return averages
}

// Efficiency is the success/error split over order-referencing records.
type Efficiency struct {
	// Total is the number of records referencing an order.
	Total int `json:"total"`
	// Success is the number of order records at Info level.
	Success int `json:"success"`
	// Failure is Total minus Success.
	Failure int `json:"failure"`
	// Percent is Success/Total × 100, or 0 when Total is 0.
	Percent float64 `json:"percent"`
}

// OrderEfficiency splits the order-referencing records into successes
// (Info level) and failures (everything else). The percentage is defined as
// zero, not NaN, for an input with no order records.
func OrderEfficiency(records []ingest.Record) Efficiency {
	var eff Efficiency
	for _, rec := range records {
		if !rec.IsOrder {
			continue
		}
		eff.Total++
		if rec.Level == eventlog.LevelInfo {
			eff.Success++
		}
	}
	eff.Failure = eff.Total - eff.Success
	if eff.Total > 0 {
		eff.Percent = float64(eff.Success) / float64(eff.Total) * 100
	}
	return eff
}

// GeneralizeMessage derives the coarse cluster key for an error message:
// lowercase, digits and punctuation stripped, first three whitespace-separated
// tokens (fewer when the message is shorter). Collisions between different
// messages sharing a three-token prefix are expected; the key approximates
// "similar errors", it does not identify them.
func GeneralizeMessage(message string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(message) {
		switch {
		case unicode.IsDigit(r):
			// dropped
		case unicode.IsLetter(r) || r == '_' || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// ErrorClusters groups every non-Info record by its generalized message and
// counts occurrences per cluster key.
func ErrorClusters(records []ingest.Record) map[string]int {
	clusters := make(map[string]int)
	for _, rec := range records {
		if rec.Level == eventlog.LevelInfo {
			continue
		}
		clusters[GeneralizeMessage(rec.Message)]++
	}
	return clusters
}

// HourBucket is one row of the hourly order-vs-error comparison.
type HourBucket struct {
	// Hour is the hour of day, 0–23.
	Hour int `json:"hour"`
	// Orders is the number of order-referencing records in that hour.
	Orders int `json:"orders"`
	// Errors is the number of Error-level records in that hour.
	Errors int `json:"errors"`
}

// HourlyComparison groups order-referencing records and Error-level records
// independently by hour of day and merges them with outer-join semantics: a
// bucket exists for every hour present in either series, with the absent side
// counted as zero. Buckets are sorted by hour.
func HourlyComparison(records []ingest.Record) []HourBucket {
	orders := make(map[int]int)
	errors := make(map[int]int)
	for _, rec := range records {
		if rec.IsOrder {
			orders[rec.Hour]++
		}
		if rec.Level == eventlog.LevelError {
			errors[rec.Hour]++
		}
	}

	hours := make(map[int]struct{})
	for h := range orders {
		hours[h] = struct{}{}
	}
	for h := range errors {
		hours[h] = struct{}{}
	}

	buckets := make([]HourBucket, 0, len(hours))
	for h := range hours {
		buckets = append(buckets, HourBucket{Hour: h, Orders: orders[h], Errors: errors[h]})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour < buckets[j].Hour })
	return buckets
}
