package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/rustdonate/internal/api/apierr"
	"github.com/mcoot/rustdonate/internal/api/request"
	"github.com/mcoot/rustdonate/internal/api/response"
	"github.com/mcoot/rustdonate/internal/services/orders"
	"github.com/mcoot/rustdonate/internal/services/session"
)

// SessionHandler handles login, logout and the profile view
type SessionHandler struct {
	sessions *session.Manager
	ledger   *orders.Ledger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, ledger *orders.Ledger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		ledger:   ledger,
	}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SessionFromModel(h.sessions.State()))
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if _, err := h.sessions.Login(r.Context(), req.SteamID); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(h.sessions.State()))
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	response.JSON(w, http.StatusOK, response.SessionFromModel(h.sessions.State()))
}

// Profile handles GET /api/v1/session/profile
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.CurrentIdentity()
	if identity == nil {
		WriteError(w, apierr.NewNotAuthenticatedError())
		return
	}

	response.JSON(w, http.StatusOK, response.Profile{
		Identity: *response.IdentityFromModel(identity),
		Summary:  response.OrderSummaryFromModel(h.ledger.Summary()),
		Orders:   response.OrdersFromModel(h.ledger.List(0)),
	})
}
