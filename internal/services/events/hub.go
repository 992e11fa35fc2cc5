package events

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

const (
	// writeWait bounds how long a single client write may take
	writeWait = 10 * time.Second

	// pongWait is how long a client may stay silent before being dropped
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = 50 * time.Second

	// sendBufferSize is the per-client outbound queue; slow clients that
	// fall behind this far are disconnected
	sendBufferSize = 32
)

// client is one connected websocket consumer
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts ingestion and lifecycle events to connected websocket
// clients. It implements the EventService interface; publishing never
// blocks the caller.
type Hub struct {
	clients     map[*client]bool
	register    chan *client
	unregister  chan *client
	broadcast   chan []byte
	done        chan struct{}
	clientCount atomic.Int32
	logger      arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.EventService = (*Hub)(nil)

// NewHub creates the hub and starts its dispatch loop
func NewHub(logger arbor.ILogger) *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
	common.SafeGo(logger, "events-hub", h.run)
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.clientCount.Store(int32(len(h.clients)))
			h.logger.Debug().Int("clients", len(h.clients)).Msg("Websocket client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.clientCount.Store(int32(len(h.clients)))
			h.logger.Debug().Int("clients", len(h.clients)).Msg("Websocket client disconnected")

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Client cannot keep up; drop it
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.clientCount.Store(int32(len(h.clients)))

		case <-h.done:
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			h.clients = make(map[*client]bool)
			h.clientCount.Store(0)
			return
		}
	}
}

// Publish broadcasts an event to all connected clients. Events published
// with no clients connected are dropped.
func (h *Hub) Publish(event interfaces.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to marshal event")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.clientCount.Load())
}

// Close disconnects all clients and stops the dispatch loop
func (h *Hub) Close() error {
	close(h.done)
	h.logger.Info().Msg("Event hub closed")
	return nil
}

// HandleConnection registers an upgraded websocket connection with the
// hub and services it until the client disconnects.
func (h *Hub) HandleConnection(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	common.SafeGo(h.logger, "ws-write", c.writePump)
	common.SafeGo(h.logger, "ws-read", func() { c.readPump(h) })
}

// writePump forwards queued events to the connection and keeps it alive
// with periodic pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains inbound frames so pings/pongs and close frames are
// processed; clients have nothing meaningful to send
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
