package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/analytics"
	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/ingest"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/order"
)

// OrderResponse is the JSON shape returned for a single order.
type OrderResponse struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// AdvanceRequest is the JSON body accepted by the advance endpoint.
type AdvanceRequest struct {
	ID int    `json:"id"`
	To string `json:"to"`
}

// CancelRequest is the JSON body accepted by the cancel endpoint.
type CancelRequest struct {
	ID int `json:"id"`
}

// IncidentRequest is the JSON body accepted by the incident endpoint.
type IncidentRequest struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// ErrorResponse is the standardized JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleOrders serves the order collection: GET returns the current board,
// POST creates a new order in the Initiated state.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records := s.orders.Snapshot()
		out := make([]OrderResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, OrderResponse{ID: rec.ID, Status: rec.Status.String()})
		}
		s.writeJSONResponse(w, http.StatusOK, map[string]any{"orders": out, "count": len(out)})

	case http.MethodPost:
		ctx, cancel := s.requestContext(r)
		defer cancel()

		id, err := s.orders.Create(ctx)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		ordersCreated.Inc()
		s.writeJSONResponse(w, http.StatusCreated, OrderResponse{ID: id, Status: order.StatusInitiated.String()})

	default:
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleAdvance moves an order along its lifecycle. Invalid transitions are
// rejected with a 409 and leave the order store untouched.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target := order.ParseStatus(req.To)
	if target == order.StatusUnknown {
		transitions.WithLabelValues("rejected").Inc()
		s.writeErrorResponse(w, http.StatusBadRequest, "Unknown target status: "+req.To)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.orders.Advance(ctx, req.ID, target); err != nil {
		transitions.WithLabelValues("rejected").Inc()
		s.writeDomainError(w, err)
		return
	}

	transitions.WithLabelValues("applied").Inc()
	s.writeJSONResponse(w, http.StatusOK, OrderResponse{ID: req.ID, Status: target.String()})
}

// handleCancel cancels an order from any non-terminal state.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.orders.Cancel(ctx, req.ID); err != nil {
		transitions.WithLabelValues("rejected").Inc()
		s.writeDomainError(w, err)
		return
	}

	transitions.WithLabelValues("applied").Inc()
	s.writeJSONResponse(w, http.StatusOK, OrderResponse{ID: req.ID, Status: order.StatusCancelled.String()})
}

// handleIncident records an operational incident against an order. Incidents
// only touch the event log, never the order store.
func (s *Server) handleIncident(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.orders.ReportIncident(ctx, req.ID, req.Description); err != nil {
		s.writeDomainError(w, err)
		return
	}

	incidents.Inc()
	s.writeJSONResponse(w, http.StatusAccepted, map[string]any{"id": req.ID, "recorded": true})
}

// handleProblems returns the known incident catalog for one order stage.
func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stageStr := r.URL.Query().Get("stage")
	if stageStr == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "Missing 'stage' parameter")
		return
	}
	stage := order.ParseStatus(stageStr)
	if stage == order.StatusUnknown {
		s.writeErrorResponse(w, http.StatusBadRequest, "Unknown stage: "+stageStr)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"stage":    stage.String(),
		"problems": order.ProblemsFor(stage),
	})
}

// handleAnalyze ingests an event log and returns the full analytics report.
// The log text is taken from the request body; an empty body analyzes the
// server's own event log file.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	raw := string(body)
	if strings.TrimSpace(raw) == "" {
		raw, err = s.events.ReadAll()
		if err != nil {
			s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	records := ingest.Parse(raw)
	observeIngestion(raw, len(records))

	ctx, cancel := s.requestContext(r)
	defer cancel()

	report, err := analytics.BuildReport(ctx, records)
	if err != nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, report)
}

// requestContext derives a context bounded by the configured request timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
}

// writeDomainError maps a domain error to the appropriate HTTP status code.
// Recoverable lifecycle failures map to 4xx codes; store failures map to 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var nf apperrors.NotFoundError
	var it apperrors.InvalidTransitionError
	var ed apperrors.EmptyDescriptionError
	var se apperrors.StoreError

	switch {
	case errors.As(err, &nf):
		s.writeErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &it):
		s.writeErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &ed):
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &se):
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	case apperrors.IsContextError(err):
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "Operation timed out")
	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
