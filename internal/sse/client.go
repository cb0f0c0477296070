package sse

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client represents a connected SSE client
type Client struct {
	id          uuid.UUID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client
func NewClient() *Client {
	return &Client{
		id:          uuid.New(),
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the client's connection ID
func (c *Client) ID() uuid.UUID {
	return c.id
}

// ServeSSE streams hub events to the requesting client until it disconnects
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := NewClient()
	if !hub.Register(client) {
		http.Error(w, "Event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(formatSSEMessage(EventConnected, `{"client_id":"`+client.id.String()+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
