package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/config"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/order"
)

// newTestServer wires a full server over temp stores. The HTTP listener is
// never started; tests drive the handler directly.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	cfg := config.AppConfig{
		DataDir: dir,
		Port:    "0",
		Timeout: 5 * time.Second,
	}

	events, err := eventlog.Open(cfg.EventLogPath())
	if err != nil {
		t.Fatalf("eventlog.Open() returned error: %v", err)
	}
	store, err := order.OpenStore(cfg.OrderStorePath())
	if err != nil {
		t.Fatalf("OpenStore() returned error: %v", err)
	}

	return NewServer(order.NewService(store, events), events, cfg)
}

func (s *Server) serve(t *testing.T, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body failed: %v (body %q)", err, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.serve(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.serve(t, http.MethodPost, "/orders", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /orders = %d, want 201 (body %q)", rec.Code, rec.Body.String())
	}

	var resp OrderResponse
	decodeBody(t, rec, &resp)
	if resp.ID != 1 || resp.Status != "Initiated" {
		t.Errorf("response = %+v, want id 1 Initiated", resp)
	}
}

func TestListOrders(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.serve(t, http.MethodPost, "/orders", "")
	s.serve(t, http.MethodPost, "/orders", "")

	rec := s.serve(t, http.MethodGet, "/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /orders = %d, want 200", rec.Code)
	}

	var body struct {
		Orders []OrderResponse `json:"orders"`
		Count  int             `json:"count"`
	}
	decodeBody(t, rec, &body)
	if body.Count != 2 || len(body.Orders) != 2 {
		t.Errorf("count = %d with %d orders, want 2", body.Count, len(body.Orders))
	}
}

func TestAdvanceOrder(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.serve(t, http.MethodPost, "/orders", "")

	rec := s.serve(t, http.MethodPost, "/orders/advance", `{"id":1,"to":"Prepared"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /orders/advance = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	var resp OrderResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "Prepared" {
		t.Errorf("status = %q, want Prepared", resp.Status)
	}
}

func TestAdvanceStatusMapping(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.serve(t, http.MethodPost, "/orders", "")

	testCases := []struct {
		name string
		body string
		want int
	}{
		{"invalid transition", `{"id":1,"to":"Delivered"}`, http.StatusConflict},
		{"unknown order", `{"id":99,"to":"Prepared"}`, http.StatusNotFound},
		{"unknown status", `{"id":1,"to":"Fried"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.serve(t, http.MethodPost, "/orders/advance", tc.body)
			if rec.Code != tc.want {
				t.Errorf("POST /orders/advance %s = %d, want %d (body %q)",
					tc.body, rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.serve(t, http.MethodPost, "/orders", "")

	rec := s.serve(t, http.MethodPost, "/orders/cancel", `{"id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /orders/cancel = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	// Cancelled is terminal.
	rec = s.serve(t, http.MethodPost, "/orders/cancel", `{"id":1}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("second cancel = %d, want 409", rec.Code)
	}
}

func TestIncidentEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.serve(t, http.MethodPost, "/orders", "")

	rec := s.serve(t, http.MethodPost, "/orders/incident", `{"id":1,"description":"Pedido frio"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /orders/incident = %d, want 202 (body %q)", rec.Code, rec.Body.String())
	}

	rec = s.serve(t, http.MethodPost, "/orders/incident", `{"id":1,"description":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank description = %d, want 400", rec.Code)
	}
}

func TestProblemsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := s.serve(t, http.MethodGet, "/problems?stage=Prepared", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /problems = %d, want 200", rec.Code)
	}

	var body struct {
		Stage    string   `json:"stage"`
		Problems []string `json:"problems"`
	}
	decodeBody(t, rec, &body)
	if body.Stage != "Prepared" || len(body.Problems) != 3 {
		t.Errorf("response = %+v, want the three Prepared problems", body)
	}

	rec = s.serve(t, http.MethodGet, "/problems?stage=Burnt", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown stage = %d, want 400", rec.Code)
	}

	rec = s.serve(t, http.MethodGet, "/problems", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing stage = %d, want 400", rec.Code)
	}
}

func TestAnalyzeEndpointWithBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	raw := "[2025-01-01 08:00:00] INFO: Pedido 1 iniciado no drive-thru\n" +
		"[2025-01-01 09:00:00] ERROR: Pedido 1 Pagamento não processado\n"

	rec := s.serve(t, http.MethodPost, "/analyze", raw)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /analyze = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	var report struct {
		TotalEvents int     `json:"total_events"`
		ErrorRate   float64 `json:"error_rate"`
	}
	decodeBody(t, rec, &report)
	if report.TotalEvents != 2 {
		t.Errorf("total_events = %d, want 2", report.TotalEvents)
	}
	if report.ErrorRate != 50 {
		t.Errorf("error_rate = %v, want 50", report.ErrorRate)
	}
}

func TestAnalyzeEndpointDefaultsToOwnLog(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	// Drive a little lifecycle traffic so the server's own event log has
	// content, then analyze with an empty body.
	s.serve(t, http.MethodPost, "/orders", "")
	s.serve(t, http.MethodPost, "/orders/advance", `{"id":1,"to":"Prepared"}`)

	rec := s.serve(t, http.MethodPost, "/analyze", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /analyze = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	var report struct {
		TotalEvents int `json:"total_events"`
	}
	decodeBody(t, rec, &report)
	if report.TotalEvents != 2 {
		t.Errorf("total_events = %d, want the 2 audit events", report.TotalEvents)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	testCases := []struct {
		method string
		target string
	}{
		{http.MethodDelete, "/orders"},
		{http.MethodGet, "/orders/advance"},
		{http.MethodGet, "/orders/incident"},
		{http.MethodPost, "/problems"},
		{http.MethodGet, "/analyze"},
		{http.MethodPost, "/health"},
	}

	for _, tc := range testCases {
		rec := s.serve(t, tc.method, tc.target, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tc.method, tc.target, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.serve(t, http.MethodPost, "/orders", "")

	rec := s.serve(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "drivethru_requests_total") {
		t.Error("metrics output missing drivethru_requests_total")
	}
}

func TestWithTimeoutsOption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.AppConfig{DataDir: dir, Port: "0", Timeout: time.Second}
	events, err := eventlog.Open(filepath.Join(dir, "events.txt"))
	if err != nil {
		t.Fatalf("eventlog.Open() returned error: %v", err)
	}
	store, err := order.OpenStore(filepath.Join(dir, "orders.txt"))
	if err != nil {
		t.Fatalf("OpenStore() returned error: %v", err)
	}

	custom := Timeouts{
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
	}
	s := NewServer(order.NewService(store, events), events, cfg, WithTimeouts(custom))
	if s.timeouts != custom {
		t.Errorf("timeouts = %+v, want %+v", s.timeouts, custom)
	}
	if s.httpServer.ReadTimeout != time.Second {
		t.Errorf("httpServer.ReadTimeout = %v, want 1s", s.httpServer.ReadTimeout)
	}
}
