package transport

import (
	"net/http"

	"lu-estilo/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// HealthChecker reports the state of a backing service
type HealthChecker interface {
	Health() map[string]string
}

// HealthHandler serves the liveness and API info endpoints
type HealthHandler struct {
	db      HealthChecker
	version string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// RegisterRoutes registers the public info routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
}

// Root describes the API
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"name":    "Lu Estilo API",
		"version": h.version,
		"health":  "/health",
	})
}

// Health answers 200 while the database is reachable and 503 otherwise
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.db.Health()

	status := http.StatusOK
	overall := "ok"
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	middleware.RespondWithJSON(w, status, map[string]interface{}{
		"status":   overall,
		"database": stats,
	})
}
