package handlers

import (
	"net/http"
	"time"

	"todo-backend/pkg/api"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	environment string
	now         func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment, now: time.Now}
}

// Check handles GET /health. The payload is flat rather than enveloped so
// load balancers can read status directly.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      api.StatusSuccess,
		"message":     "Serverless Todo API is running",
		"timestamp":   h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"environment": h.environment,
	})
}
