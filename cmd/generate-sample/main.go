// Command generate-sample writes a deterministic synthetic event log for
// demos and manual analysis runs.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
)

func main() {
	outputDir := flag.String("out", "demo", "Output directory for the sample log")
	days := flag.Int("days", 3, "Number of days of activity to generate")
	perDay := flag.Int("per-day", 40, "Number of events per day")
	seed := flag.Int64("seed", 1, "Random seed, fixed for reproducible output")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "sample_log.txt")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	rng := rand.New(rand.NewSource(*seed))
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	fmt.Println("Generating sample event log...")

	var lines int
	orderID := 0
	for day := 0; day < *days; day++ {
		ts := start.AddDate(0, 0, day)
		for i := 0; i < *perDay; i++ {
			// Advance the clock by up to 20 minutes per event, keeping
			// everything inside business hours.
			ts = ts.Add(time.Duration(1+rng.Intn(20)) * time.Minute)

			var level eventlog.Level
			var message string
			switch roll := rng.Intn(10); {
			case roll < 5:
				orderID++
				level = eventlog.LevelInfo
				message = fmt.Sprintf("Pedido %d iniciado no drive-thru", orderID)
			case roll < 7:
				level = eventlog.LevelInfo
				message = fmt.Sprintf("Pedido %d entregue ao cliente", 1+rng.Intn(orderID+1))
			case roll < 8:
				level = eventlog.LevelWarning
				message = fmt.Sprintf("Pedido %d cancelado pelo usuário", 1+rng.Intn(orderID+1))
			case roll < 9:
				level = eventlog.LevelError
				message = fmt.Sprintf("Pedido %d Pagamento não processado", 1+rng.Intn(orderID+1))
			default:
				level = eventlog.LevelCritical
				message = "Falha no sistema de pagamento"
			}

			fmt.Fprint(file, eventlog.FormatLine(ts, level, message))
			lines++
		}
	}

	fmt.Printf("Successfully generated %d events at %s\n", lines, filename)
}
