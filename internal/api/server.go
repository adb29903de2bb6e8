// Package api serves the position store over HTTP and provides the client
// the board controller uses to reach it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thenoetrevino/etapa/internal/database"
	"github.com/thenoetrevino/etapa/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a BoardStore as JSON over HTTP
type Server struct {
	store    database.BoardStore
	tokens   Tokens
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	router   *mux.Router
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithTokens restricts access to the given bearer tokens
func WithTokens(t Tokens) ServerOption {
	return func(s *Server) { s.tokens = t }
}

// WithMetrics counts requests on m and serves g at /metrics
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer builds the router over store
func NewServer(store database.BoardStore, opts ...ServerOption) *Server {
	s := &Server{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.observe)

	if s.gatherer != nil {
		router.Handle("/metrics", metrics.Handler(s.gatherer)).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Tenant scoped routes
	tenant := api.PathPrefix("/tenants/{tenant}").Subrouter()
	tenant.Use(s.requireTenant)
	tenant.HandleFunc("/board", s.handleListColumns).Methods(http.MethodGet)
	tenant.HandleFunc("/stages", s.handleCreateColumn).Methods(http.MethodPost)
	tenant.HandleFunc("/stages/swap", s.handleSwapPositions).Methods(http.MethodPost)
	tenant.HandleFunc("/stages/order", s.handleRenumberPositions).Methods(http.MethodPut)
	tenant.HandleFunc("/stages/compact", s.handleCompactPositions).Methods(http.MethodPost)

	// Stage routes, authorized through the stage's tenant
	stages := api.PathPrefix("/stages/{id}").Subrouter()
	stages.Use(s.requireOwner(s.store.StageTenant))
	stages.HandleFunc("", s.handleRenameColumn).Methods(http.MethodPatch)
	stages.HandleFunc("", s.handleArchiveColumn).Methods(http.MethodDelete)
	stages.HandleFunc("/deals", s.handleCreateCard).Methods(http.MethodPost)

	// Deal routes, authorized through the deal's tenant
	deals := api.PathPrefix("/deals/{id}").Subrouter()
	deals.Use(s.requireOwner(s.store.DealTenant))
	deals.HandleFunc("", s.handleGetCard).Methods(http.MethodGet)
	deals.HandleFunc("", s.handleDeleteCard).Methods(http.MethodDelete)
	deals.HandleFunc("/move", s.handleMoveCard).Methods(http.MethodPost)

	return router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is canceled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	s.logger.Info("api server listening", "addr", listener.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("api server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observe logs and counts every request by route template
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.ObserveRequest(route, rec.status)
		s.logger.Debug("request served",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// ============================================================================
// RESPONSES
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// writeFailure maps a store error onto the envelope
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, code, err.Error())
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer func() { _ = r.Body.Close() }()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
