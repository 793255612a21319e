package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/analytics"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/order"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ui"
)

// Color functions return ANSI escape codes from the current theme.
// They delegate to the ui package to reduce coupling.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// statusColor maps an order status to the theme color used to display it.
func statusColor(s order.Status) string {
	switch s {
	case order.StatusInitiated:
		return ColorBlue()
	case order.StatusPrepared:
		return ColorYellow()
	case order.StatusDelivered:
		return ColorGreen()
	case order.StatusCancelled:
		return ColorRed()
	default:
		return ColorCyan()
	}
}

// WriteJSON encodes v as indented JSON to out. It is used for every command
// when the -json flag is set, so scripted callers get one stable shape per
// command.
//
// Parameters:
//   - out: The io.Writer for the output.
//   - v: The value to encode.
//
// Returns:
//   - error: An encoding error, if any.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderOrders prints the current order board as an aligned table with one
// row per known order, sorted by identifier.
//
// Parameters:
//   - out: The io.Writer for the output.
//   - records: The orders to display, already sorted by ID.
func RenderOrders(out io.Writer, records []order.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No orders recorded yet.")
		return
	}

	fmt.Fprintf(out, "%s--- Orders ---%s\n", ColorBold(), ColorReset())
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s%s%s\n", rec.ID, statusColor(rec.Status), rec.Status, ColorReset())
	}
	w.Flush()
	fmt.Fprintf(out, "Total: %s%d%s order(s)\n", ColorCyan(), len(records), ColorReset())
}

// RenderProblems prints the known incident descriptions for one order stage.
// The descriptions are the operator-facing catalog entries and are printed
// verbatim.
//
// Parameters:
//   - out: The io.Writer for the output.
//   - stage: The order stage the catalog applies to.
//   - problems: The incident descriptions for that stage.
func RenderProblems(out io.Writer, stage order.Status, problems []string) {
	fmt.Fprintf(out, "%s--- Known problems for %s%s%s ---%s\n",
		ColorBold(), statusColor(stage), stage, ColorBold(), ColorReset())
	if len(problems) == 0 {
		fmt.Fprintln(out, "No known problems for this stage.")
		return
	}
	for i, p := range problems {
		fmt.Fprintf(out, "  %d. %s\n", i+1, p)
	}
}

// RenderReport prints the full analytics report as themed, human-readable
// sections. The section order mirrors the report struct so the text and JSON
// outputs stay comparable.
//
// Parameters:
//   - out: The io.Writer for the output.
//   - report: The computed report.
func RenderReport(out io.Writer, report analytics.Report) {
	fmt.Fprintf(out, "%s=== Drive-Thru Log Analysis ===%s\n\n", ColorBold(), ColorReset())

	fmt.Fprintf(out, "Total events           : %s%d%s\n", ColorCyan(), report.TotalEvents, ColorReset())
	fmt.Fprintf(out, "Error rate             : %s%.2f%%%s\n", ColorRed(), report.ErrorRate, ColorReset())
	fmt.Fprintf(out, "Critical rate          : %s%.2f%%%s\n", ColorRed(), report.CriticalRate, ColorReset())
	fmt.Fprintf(out, "Warning rate           : %s%.2f%%%s\n", ColorYellow(), report.WarningRate, ColorReset())
	fmt.Fprintf(out, "Cancellations          : %s%d%s\n", ColorYellow(), report.Cancellations, ColorReset())

	renderSeries(out, "Events by level", report.CountsByLevel)
	renderSeries(out, "Events per date", report.EventsPerDate)
	renderSeries(out, "Events per weekday", report.PerWeekday)
	renderSeries(out, "Orders per day", report.OrdersPerDay)

	if len(report.Daily) > 0 {
		fmt.Fprintf(out, "\n%s--- Daily volume by level ---%s\n", ColorBold(), ColorReset())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tLEVEL\tCOUNT")
		for _, row := range report.Daily {
			fmt.Fprintf(w, "%s\t%s\t%d\n", row.Date, row.Label, row.Count)
		}
		w.Flush()
	}

	if len(report.Averages) > 0 {
		fmt.Fprintf(out, "\n%s--- Average daily volume by level ---%s\n", ColorBold(), ColorReset())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LEVEL\tAVG/DAY")
		for _, row := range report.Averages {
			fmt.Fprintf(w, "%s\t%.2f\n", row.Label, row.Average)
		}
		w.Flush()
	}

	renderEfficiency(out, report.Efficiency)

	if len(report.Clusters) > 0 {
		fmt.Fprintf(out, "\n%s--- Recurring error clusters ---%s\n", ColorBold(), ColorReset())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATTERN\tCOUNT")
		for _, c := range report.Clusters {
			fmt.Fprintf(w, "%s\t%d\n", c.Key, c.Count)
		}
		w.Flush()
	}

	if len(report.Hourly) > 0 {
		fmt.Fprintf(out, "\n%s--- Orders vs errors per hour ---%s\n", ColorBold(), ColorReset())
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HOUR\tORDERS\tERRORS")
		for _, b := range report.Hourly {
			fmt.Fprintf(w, "%02d:00\t%d\t%d\n", b.Hour, b.Orders, b.Errors)
		}
		w.Flush()
	}
}

// renderSeries prints one sorted (key, count) series as a titled table.
// Empty series are skipped entirely.
func renderSeries(out io.Writer, title string, series []analytics.SeriesPoint) {
	if len(series) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s--- %s ---%s\n", ColorBold(), title, ColorReset())
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range series {
		fmt.Fprintf(w, "%s\t%d\n", p.Key, p.Count)
	}
	w.Flush()
}

// renderEfficiency prints the order success split with a color keyed to the
// success percentage.
func renderEfficiency(out io.Writer, eff analytics.Efficiency) {
	color := ColorGreen()
	switch {
	case eff.Percent < 50:
		color = ColorRed()
	case eff.Percent < 80:
		color = ColorYellow()
	}

	fmt.Fprintf(out, "\n%s--- Order efficiency ---%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "Successful orders      : %s%d%s\n", ColorGreen(), eff.Success, ColorReset())
	fmt.Fprintf(out, "Problem orders         : %s%d%s\n", ColorRed(), eff.Failure, ColorReset())
	fmt.Fprintf(out, "Efficiency             : %s%.2f%%%s (of %d order events)\n",
		color, eff.Percent, ColorReset(), eff.Total)
}
