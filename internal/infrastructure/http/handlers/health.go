package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kondate/mealplanner/pkg/healthcheck"
)

// HealthHandlers serves GET /up
type HealthHandlers struct {
	responder
	checks *healthcheck.HealthCheck
}

// NewHealthHandlers creates the health handler
func NewHealthHandlers(checks *healthcheck.HealthCheck, logger *zap.Logger) *HealthHandlers {
	return &HealthHandlers{
		responder: responder{logger: logger.Named("health"), validate: newValidator()},
		checks:    checks,
	}
}

// Up handles GET /up. Degraded dependencies still answer 200.
func (h *HealthHandlers) Up(w http.ResponseWriter, r *http.Request) {
	resp := h.checks.Check(r.Context())

	status := http.StatusOK
	if resp.Status == healthcheck.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	h.writeJSON(w, status, APIResponse{
		Success: status == http.StatusOK,
		Data:    resp,
	})
}
