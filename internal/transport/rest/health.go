package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/adapter/provider/annotate"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// annotationChecker probes the linguistic annotation service.
type annotationChecker interface {
	CheckService(ctx context.Context) annotate.Status
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db         dbPinger
	annotation annotationChecker
	version    string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, annotation annotationChecker, version string) *HealthHandler {
	return &HealthHandler{db: db, annotation: annotation, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check: database ping with latency, annotation
// service availability, and version info. Returns 503 if any dependency is
// down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	err := h.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["database"] = CompStatus{Status: "down", Error: err.Error()}
		overallStatus = "down"
	} else {
		components["database"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	annStatus := h.annotation.CheckService(ctx)
	if annStatus.Available {
		components["annotation"] = CompStatus{
			Status:  "ok",
			Latency: fmt.Sprintf("%.1fms", annStatus.LatencyMS),
		}
	} else {
		components["annotation"] = CompStatus{Status: "down", Error: annStatus.Error}
		overallStatus = "down"
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
