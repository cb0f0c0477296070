package handler

import (
	"net/http"

	"github.com/mcoot/rustdonate/internal/api/response"
	"github.com/mcoot/rustdonate/internal/services/orders"
	"github.com/mcoot/rustdonate/internal/services/session"
)

// HealthHandler reports liveness
type HealthHandler struct {
	sessions *session.Manager
	ledger   *orders.Ledger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions *session.Manager, ledger *orders.Ledger) *HealthHandler {
	return &HealthHandler{sessions: sessions, ledger: ledger}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	resp := response.Health{
		Status:  "ok",
		Session: string(h.sessions.State().Status),
		Orders:  h.ledger.Len(),
	}
	if h.ledger.IsClosed() {
		status = http.StatusServiceUnavailable
		resp.Status = "shutting_down"
	}
	response.JSON(w, status, resp)
}
