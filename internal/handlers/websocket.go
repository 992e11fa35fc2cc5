package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/adhyayan/internal/services/events"
	"github.com/ternarybob/arbor"
)

// WebSocketHandler upgrades connections and hands them to the event hub
type WebSocketHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
	logger   arbor.ILogger
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *events.Hub, logger arbor.ILogger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the same host; cross-origin
			// access is already open via the CORS middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and registers the client.
// GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	h.hub.HandleConnection(conn)
}
