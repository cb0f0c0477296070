package handler

import (
	"net/http"

	"github.com/mcoot/rustdonate/internal/sse"
)

// EventsHandler streams notices over Server-Sent Events
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
