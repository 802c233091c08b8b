package rest

import "net/http"

// NewRouter mounts all REST endpoints on a ServeMux.
func NewRouter(analyze *AnalyzeHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", Root)
	mux.HandleFunc("POST /api/analyze", analyze.Analyze)

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)

	return mux
}
