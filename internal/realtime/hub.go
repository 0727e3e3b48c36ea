package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sori-music/backend/internal/middleware"
	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

// Event types pushed to connected clients.
const (
	EventNewMessage      = "new_message"
	EventNewNotification = "new_notification"
	EventMessagesRead    = "messages_read"
)

// Event is the envelope every websocket push is wrapped in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Conn is the write surface the hub needs from a connection. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// client pairs a connection with its write lock. Websocket connections
// support only one concurrent writer, so every write goes through writeMu.
type client struct {
	writeMu sync.Mutex
	conn    Conn
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans events out to a user's open websocket connections. A user may hold
// several connections (multiple tabs, phone plus desktop); every one of them
// gets every event.
type Hub struct {
	mu    sync.RWMutex
	users map[uint][]*client
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{users: make(map[uint][]*client)}
}

// Add registers a connection for a user.
func (h *Hub) Add(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[userID] = append(h.users[userID], &client{conn: conn})
}

// Remove drops a connection for a user.
func (h *Hub) Remove(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[userID]
	for i, c := range clients {
		if c.conn == conn {
			h.users[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.users[userID]) == 0 {
		delete(h.users, userID)
	}
}

// SendToUser pushes an event to every open connection of a user. Write
// failures are logged and counted but do not interrupt delivery to the
// user's other connections.
func (h *Hub) SendToUser(userID uint, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.L.Error("marshal realtime event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*client, len(h.users[userID]))
	copy(clients, h.users[userID])
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			logger.L.Warn("websocket write failed",
				zap.Uint("user_id", userID),
				zap.String("type", event.Type),
				zap.Error(err))
			middleware.RecordRealtimePush(event.Type, false)
			continue
		}
		middleware.RecordRealtimePush(event.Type, true)
	}
}

// ConnectionCount reports how many connections a user currently holds.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
