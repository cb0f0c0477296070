package handler

import (
	"net/http"

	"github.com/mcoot/rustdonate/internal/api/response"
	"github.com/mcoot/rustdonate/internal/services/steam"
)

// SteamHandler serves public Steam profiles. It is the default backend of
// the identity lookup used by login.
type SteamHandler struct {
	steam *steam.Service
}

// NewSteamHandler creates a new Steam profile handler
func NewSteamHandler(svc *steam.Service) *SteamHandler {
	return &SteamHandler{steam: svc}
}

// Profile handles GET /api/v1/steam-profile?steamid=
func (h *SteamHandler) Profile(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamid")
	if steamID == "" {
		WriteError(w, NewInvalidRequestError("steamid parameter is required"))
		return
	}

	profile, err := h.steam.Profile(r.Context(), steamID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, profile)
}
