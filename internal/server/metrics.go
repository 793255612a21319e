// Package server provides the HTTP server implementation for the drive-thru
// order API.
package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects and exposes server metrics in Prometheus format.
// It tracks:
//   - Active requests (gauge)
//   - Total requests (counter)
//   - Order lifecycle outcomes (created, transitions, incidents)
//   - Ingestion volumes (parsed and dropped lines)
type Metrics struct {
	handler http.Handler
}

// Prometheus metrics for server-level observability
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "drivethru_active_requests",
		Help: "Current number of active requests",
	})
	totalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivethru_requests_total",
		Help: "Total number of requests received",
	})
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivethru_orders_created_total",
		Help: "Total number of orders created",
	})
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drivethru_transitions_total",
		Help: "Total number of lifecycle transition attempts by result",
	}, []string{"result"})
	incidents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivethru_incidents_total",
		Help: "Total number of incidents recorded",
	})
	ingestedLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivethru_ingested_lines_total",
		Help: "Total number of event-log lines successfully parsed",
	})
	droppedLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivethru_dropped_lines_total",
		Help: "Total number of malformed event-log lines skipped during ingestion",
	})
)

// observeIngestion records the parsed and dropped line counts for one
// ingestion pass. Blank lines are not counted as dropped.
func observeIngestion(raw string, parsed int) {
	var nonEmpty int
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}
	ingestedLines.Add(float64(parsed))
	if dropped := nonEmpty - parsed; dropped > 0 {
		droppedLines.Add(float64(dropped))
	}
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		handler: promhttp.Handler(),
	}
}

// IncrementActiveRequests increments the active requests gauge
// and the total requests counter.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
	totalRequests.Inc()
}

// DecrementActiveRequests decrements the active requests gauge.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// WritePrometheus writes metrics in Prometheus text format to the HTTP response.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// handleMetrics is the HTTP handler for the /metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.metrics.WritePrometheus(w, r)
}

// metricsMiddleware tracks active requests.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}
