package analytics

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ingest"
)

// DailyCount is one row of the per-day per-level series, sorted by date then
// label for stable rendering and JSON output.
type DailyCount struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LevelAverage is the mean daily volume of one level label.
type LevelAverage struct {
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

// Cluster is one generalized error cluster and its occurrence count.
type Cluster struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// SeriesPoint is one (key, count) row of a grouped series.
type SeriesPoint struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Report is the full strategic summary over a record set: overall volumes,
// per-level KPIs, calendar distributions, the order success split, error
// clusters, and the hourly peak comparison. Everything is recomputed from the
// records on every call.
type Report struct {
	TotalEvents   int            `json:"total_events"`
	CountsByLevel []SeriesPoint  `json:"counts_by_level"`
	ErrorRate     float64        `json:"error_rate"`
	CriticalRate  float64        `json:"critical_rate"`
	WarningRate   float64        `json:"warning_rate"`
	Cancellations int            `json:"cancellations"`
	EventsPerDate []SeriesPoint  `json:"events_per_date"`
	PerWeekday    []SeriesPoint  `json:"per_weekday"`
	OrdersPerDay  []SeriesPoint  `json:"orders_per_day"`
	Daily         []DailyCount   `json:"daily"`
	Averages      []LevelAverage `json:"averages"`
	Efficiency    Efficiency     `json:"efficiency"`
	Clusters      []Cluster      `json:"clusters"`
	Hourly        []HourBucket   `json:"hourly"`
}

// BuildReport computes all report sections over the given records. The
// sections are independent pure aggregations, so they are computed
// concurrently; the result is identical to computing them sequentially.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - records: The (caller-filtered) record set.
//
// Returns:
//   - Report: The computed report.
//   - error: The context error if the computation was canceled.
func BuildReport(ctx context.Context, records []ingest.Record) (Report, error) {
	var report Report
	report.TotalEvents = len(records)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.CountsByLevel, report.ErrorRate, report.CriticalRate,
			report.WarningRate, report.Cancellations = levelBreakdown(records)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.EventsPerDate = countSeries(records, func(r ingest.Record) string { return r.Date })
		report.PerWeekday = countSeries(records, func(r ingest.Record) string { return r.Weekday })
		report.OrdersPerDay = ordersPerDay(records)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Daily = sortedDaily(DailyByLevel(records))
		report.Averages = sortedAverages(AveragePerLevel(records))
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Efficiency = OrderEfficiency(records)
		report.Clusters = sortedClusters(ErrorClusters(records))
		report.Hourly = HourlyComparison(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}

// levelBreakdown computes per-level counts and the percentage KPIs over the
// whole record set.
func levelBreakdown(records []ingest.Record) (counts []SeriesPoint, errRate, critRate, warnRate float64, cancellations int) {
	byLabel := make(map[string]int)
	var errs, crits, warns int
	for _, rec := range records {
		byLabel[rec.Label]++
		switch rec.Level {
		case eventlog.LevelError:
			errs++
		case eventlog.LevelCritical:
			crits++
		case eventlog.LevelWarning:
			warns++
		case eventlog.LevelCancelled:
			cancellations++
		}
	}

	counts = sortedSeries(byLabel)
	if total := len(records); total > 0 {
		errRate = float64(errs) / float64(total) * 100
		critRate = float64(crits) / float64(total) * 100
		warnRate = float64(warns) / float64(total) * 100
	}
	return counts, errRate, critRate, warnRate, cancellations
}

// countSeries groups records by an arbitrary string key and returns the
// sorted (key, count) rows.
func countSeries(records []ingest.Record, key func(ingest.Record) string) []SeriesPoint {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[key(rec)]++
	}
	return sortedSeries(counts)
}

// ordersPerDay counts order-referencing records per date.
func ordersPerDay(records []ingest.Record) []SeriesPoint {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.IsOrder {
			counts[rec.Date]++
		}
	}
	return sortedSeries(counts)
}

func sortedSeries(counts map[string]int) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(counts))
	for key, count := range counts {
		out = append(out, SeriesPoint{Key: key, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func sortedDaily(counts map[DayLevel]int) []DailyCount {
	out := make([]DailyCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, DailyCount{Date: key.Date, Label: key.Label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sortedAverages(averages map[string]float64) []LevelAverage {
	out := make([]LevelAverage, 0, len(averages))
	for label, avg := range averages {
		out = append(out, LevelAverage{Label: label, Average: avg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func sortedClusters(clusters map[string]int) []Cluster {
	out := make([]Cluster, 0, len(clusters))
	for key, count := range clusters {
		out = append(out, Cluster{Key: key, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
