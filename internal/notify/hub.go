package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed to clients
const (
	EventKnockReceived = "knock.received"
	EventKnockMatched  = "knock.matched"
	EventKnockAccepted = "knock.accepted"
)

const writeWait = 5 * time.Second

// Event a knock notification
type Event struct {
	Type    string    `json:"type"`
	KnockID string    `json:"knock_id"`
	RoomID  string    `json:"room_id"`
	At      time.Time `json:"at"`
}

// client one websocket connection; writes are serialized per connection
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live notification sockets per user. A user may have several.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  logger,
	}
}

// Serve registers conn for userID and blocks reading until the peer goes
// away. Incoming messages are discarded.
func (h *Hub) Serve(userID string, conn *websocket.Conn) {
	c := &client{conn: conn}
	h.register(userID, c)
	defer h.unregister(userID, c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends ev to every socket of userID. Best effort: delivery failures
// drop the socket and are not reported to the caller.
func (h *Hub) Publish(userID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal notification failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(payload); err != nil {
			h.logger.Debug("notification write failed", zap.String("user_id", userID), zap.Error(err))
			h.unregister(userID, c)
		}
	}
}

// Connected number of live sockets for userID
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	_ = c.conn.Close()
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}
