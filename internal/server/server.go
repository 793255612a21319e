package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/config"
	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/eventlog"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/logging"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/order"
)

// Server represents the HTTP server for the drive-thru order API.
// It wraps the standard http.Server and adds application-specific
// configuration and graceful shutdown capabilities.
type Server struct {
	orders         *order.Service
	events         *eventlog.Log
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a new Server instance over the given order service and
// event log. It initializes the HTTP server with timeouts and a request
// multiplexer.
//
// Parameters:
//   - orders: The order lifecycle service backing the API.
//   - events: The audit event log, read by the analysis endpoint.
//   - cfg: The application configuration (port, timeouts, etc.).
//   - opts: Optional functional options for customizing the server (e.g., WithLogger).
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(orders *order.Service, events *eventlog.Log, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		orders:         orders,
		events:         events,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}

	// Apply any provided options
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()

	// Apply middleware chain: Logging -> Metrics -> Handler
	mux.HandleFunc("/orders", s.wrapWithMiddleware(s.handleOrders))
	mux.HandleFunc("/orders/advance", s.wrapWithMiddleware(s.handleAdvance))
	mux.HandleFunc("/orders/cancel", s.wrapWithMiddleware(s.handleCancel))
	mux.HandleFunc("/orders/incident", s.wrapWithMiddleware(s.handleIncident))
	mux.HandleFunc("/problems", s.wrapWithMiddleware(s.handleProblems))
	mux.HandleFunc("/analyze", s.wrapWithMiddleware(s.handleAnalyze))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// wrapWithMiddleware applies the full middleware chain to a handler.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	// Apply in reverse order: Logging -> Metrics -> Handler
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	return wrapped
}

// loggingMiddleware logs each request with its method, path and duration.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Info("request handled",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("duration", time.Since(start).String()),
		)
	}
}

// Start initializes and starts the HTTP server.
// It listens for incoming requests on the configured port and handles system
// signals (SIGINT, SIGTERM) to ensure a graceful shutdown.
//
// Returns:
//   - error: An error if the server fails to start or shuts down unexpectedly.
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)

	// Channel for server startup errors
	errCh := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		s.logger.Printf("Starting server on %s\n", s.httpServer.Addr)
		s.logger.Printf("Data directory: %s\n", s.cfg.DataDir)
		s.logger.Println("Available endpoints:")
		s.logger.Println("  POST /orders")
		s.logger.Println("  GET  /orders")
		s.logger.Println("  POST /orders/advance")
		s.logger.Println("  POST /orders/cancel")
		s.logger.Println("  POST /orders/incident")
		s.logger.Println("  GET  /problems?stage=<status>")
		s.logger.Println("  POST /analyze")
		s.logger.Println("  GET  /health")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-s.shutdownSignal:
		s.logger.Println("Shutdown signal received, initiating graceful shutdown...")
	case err := <-errCh:
		return apperrors.WrapError(err, "server failed to start")
	}

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.WrapError(err, "failed to gracefully shutdown server")
	}

	s.logger.Println("Server stopped gracefully")
	return nil
}
