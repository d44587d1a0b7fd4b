// Package httpadapter serves liveness, readiness, metrics and the latest
// stage reports while the census CLI runs.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/squirrel-census-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportLocator returns where the saved report of a stage lives.
type ReportLocator interface {
	ReportPath(stage string) string
}

var stages = map[string]bool{
	pipeline.StageCleanObservations: true,
	pipeline.StageCleanAreas:        true,
	pipeline.StageMerge:             true,
}

// Server exposes health, readiness, metrics and report HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /reports/{stage} routes. Metrics come from registry only.
func NewServer(addr string, ready sharedobs.ReadinessChecker, registry *prometheus.Registry, reports ReportLocator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /reports/{stage}", s.handleReport(reports))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleReport serves the saved YAML report of a stage.
func (s *Server) handleReport(reports ReportLocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage := r.PathValue("stage")
		if !stages[stage] {
			http.Error(w, "unknown stage", http.StatusNotFound)
			return
		}

		data, err := os.ReadFile(reports.ReportPath(stage))
		switch {
		case os.IsNotExist(err):
			http.Error(w, "stage has not run", http.StatusNotFound)
			return
		case err != nil:
			s.logger.Error("read report failed", "stage", stage, "error", err)
			http.Error(w, "report unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	}
}
