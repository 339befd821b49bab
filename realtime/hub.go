package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/districtnet/wifi-dashboard/metrics"
	"github.com/districtnet/wifi-dashboard/models"
)

// SnapshotFunc produces the payload sent to a client right after it
// connects.
type SnapshotFunc func(r *http.Request) (*models.LiveSnapshot, error)

// Hub fans simulator updates out to all connected WebSocket clients.
// There is no backpressure: a client that cannot keep up is dropped
// and reconnects by reloading the page.
type Hub struct {
	upgrader websocket.Upgrader
	snapshot SnapshotFunc
	metrics  *metrics.Metrics

	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. The snapshot function supplies the
// initial_data payload for new connections.
func NewHub(snapshot SnapshotFunc, m *metrics.Metrics) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		snapshot: snapshot,
		metrics:  m,
		clients:  make(map[*client]bool),
	}
}

// ServeWS upgrades the request and registers the connection. Runs
// behind the auth middleware; anyone who can see the dashboard can
// watch the feed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r)
	if err != nil {
		http.Error(w, "failed to load snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	initial, err := json.Marshal(models.WSMessage{Type: models.WSTypeInitial, Data: snap})
	if err != nil {
		conn.Close()
		return
	}
	c.send <- initial

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSClients.Inc()
	}

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast pushes a data_update envelope to every connected client.
// Slow clients are dropped rather than buffered.
func (h *Hub) Broadcast(snap *models.LiveSnapshot) {
	data, err := json.Marshal(models.WSMessage{Type: models.WSTypeUpdate, Data: snap})
	if err != nil {
		log.Printf("Failed to marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.removeLocked(c)
		}
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSBroadcastsTotal.Inc()
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.WSClients.Dec()
	}
}

// writePump serializes all writes for one connection
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
}

// readPump discards inbound messages; the feed is one-way. Its real
// job is noticing the peer went away.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}
