package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// handleReadiness reports ready only when the database answers a ping.
func (s *server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := healthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Checks:    map[string]string{"database": "healthy"},
	}
	status := http.StatusOK

	if s.db == nil {
		resp.Status = "not_ready"
		resp.Checks["database"] = "not_initialized"
		status = http.StatusServiceUnavailable
	} else if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("database health check failed", zap.Error(err))
		resp.Status = "not_ready"
		resp.Checks["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
