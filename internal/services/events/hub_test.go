package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.HandleConnection(conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub := NewHub(arbor.NewLogger())
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Publish(interfaces.Event{
		Type:    interfaces.EventIngestProgress,
		PaperID: "paper_1",
		Message: "Extracted 11 pages",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event interfaces.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, interfaces.EventIngestProgress, event.Type)
	assert.Equal(t, "paper_1", event.PaperID)
	assert.Equal(t, "Extracted 11 pages", event.Message)
}

func TestHubMultipleClients(t *testing.T) {
	hub := NewHub(arbor.NewLogger())
	defer hub.Close()

	first := dialHub(t, hub)
	second := dialHub(t, hub)
	waitForClients(t, hub, 2)

	hub.Publish(interfaces.Event{Type: interfaces.EventIngestCompleted, PaperID: "paper_2"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(data), "paper_2")
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub(arbor.NewLogger())
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing with no clients must not block or panic
	hub.Publish(interfaces.Event{Type: interfaces.EventPaperDeleted, PaperID: "paper_3"})
}

func TestHubPublishAfterClose(t *testing.T) {
	hub := NewHub(arbor.NewLogger())
	require.NoError(t, hub.Close())

	// Must not panic or block
	hub.Publish(interfaces.Event{Type: interfaces.EventIngestStarted})
}
