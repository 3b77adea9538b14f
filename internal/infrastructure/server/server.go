package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"NewsDesk/internal/metrics"
	"NewsDesk/internal/usecase"
	"NewsDesk/pkg/logger"
)

// Curator runs one curation pass on demand.
type Curator interface {
	Run(ctx context.Context, now time.Time) (usecase.Result, error)
}

var _ Curator = (*usecase.Pipeline)(nil)

// Server exposes the curation pipeline over HTTP: a manual trigger, the
// metrics snapshot, and a liveness probe.
type Server struct {
	curator Curator
	metrics *metrics.Metrics
	logger  *slog.Logger
	httpSrv *http.Server
}

// New builds a server listening on addr.
func New(addr string, curator Curator, m *metrics.Metrics, log *slog.Logger) *Server {
	s := &Server{
		curator: curator,
		metrics: m,
		logger:  log,
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.New("http"),
	}
	return s
}

// Routes configures the HTTP routes.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.HandleFunc("/curate", s.handleCurate).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	return r
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	if s == nil || s.httpSrv == nil {
		return fmt.Errorf("http server is not configured")
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", s.httpSrv.Addr, err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy := true
	if s.metrics != nil {
		if v, ok := s.metrics.GetStats()["is_healthy"].(bool); ok {
			healthy = v
		}
	}
	status := "ok"
	if !healthy {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	result, err := s.curator.Run(r.Context(), time.Now())
	if err != nil {
		if s.logger != nil {
			s.logger.Error("curation run failed", "error", err)
		}
		http.Error(w, fmt.Sprintf("curation run failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(result))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		http.Error(w, "metrics are not configured", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.metrics.GetStats())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// loggingMiddleware logs API requests with their status and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		if s.logger != nil {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration", time.Since(start))
		}
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
