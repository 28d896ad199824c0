package http

import (
	"log"
	"net/http"
	"time"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler handles health check endpoint requests. The service keeps
// no persistent state, so health reduces to process liveness plus the
// source catalog being loaded; upstream availability is a runtime concern
// surfaced through metrics, not health.
type HealthHandler struct {
	Catalog []entity.NewsSource
	Version string
}

// ServeHTTP reports the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	status := "healthy"
	statusCode := http.StatusOK

	if len(h.Catalog) == 0 {
		checks["catalog"] = CheckStatus{
			Status:  "unhealthy",
			Message: "no sources configured",
		}
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["catalog"] = CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"sources_configured": len(h.Catalog),
			},
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// ReadyHandler handles Kubernetes readiness probe requests.
type ReadyHandler struct {
	Catalog []entity.NewsSource
}

// ServeHTTP returns 200 OK once the source catalog is loaded.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if len(h.Catalog) == 0 {
		http.Error(w, "source catalog not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		log.Printf("ready: failed to write response: %v", err)
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
