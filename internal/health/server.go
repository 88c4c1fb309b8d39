// Package health exposes liveness and Prometheus endpoints for the monitor.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CycleReporter reports when the monitoring loop last completed a cycle.
type CycleReporter interface {
	LastCycle() time.Time
}

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	reporter CycleReporter
	stale    time.Duration
	server   *http.Server
}

// NewServer creates a health server listening on addr. The monitor is
// reported unhealthy when the last cycle is older than stale.
func NewServer(reporter CycleReporter, addr string, stale time.Duration) *Server {
	mux := http.NewServeMux()
	s := &Server{
		reporter: reporter,
		stale:    stale,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	last := s.reporter.LastCycle()

	status := "ok"
	code := http.StatusOK
	switch {
	case last.IsZero():
		status = "starting"
	case time.Since(last) > s.stale:
		status = "stale"
		code = http.StatusServiceUnavailable
	}

	response := map[string]string{"status": status}
	if !last.IsZero() {
		response["last_cycle"] = last.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}
