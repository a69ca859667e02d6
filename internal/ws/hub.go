package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is the subset of a websocket connection the hub needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// CountMessage is the wire shape pushed to product-count subscribers.
type CountMessage struct {
	Count int64 `json:"count"`
}

// client pairs a connection with its write lock. The underlying websocket
// supports only one concurrent writer, so every write on a connection must
// hold its lock.
type client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *client) write(message CountMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(message)
}

// Hub fans a live product count out to connected websocket clients.
// Membership changes on connect/disconnect; delivery is best-effort and
// a failed write drops the client.
type Hub struct {
	mu      sync.RWMutex
	clients map[Conn]*client
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[Conn]*client),
		logger:  logger,
	}
}

// Register joins a client to the channel.
func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn}
}

// Unregister removes a client from the channel.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// ClientCount reports the current number of subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes the count to every connected client. Writes are
// serialized per connection so concurrent broadcasts cannot overlap on
// one websocket.
func (h *Hub) Broadcast(count int64) {
	message := CountMessage{Count: count}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(message); err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			h.Unregister(cl.conn)
			_ = cl.conn.Close()
		}
	}
}

// Send pushes the count to a single registered client, used for the
// initial push on connect. It takes the same per-connection lock as
// Broadcast so the on-connect push cannot race a mutation broadcast.
func (h *Hub) Send(conn Conn, count int64) error {
	h.mu.RLock()
	cl := h.clients[conn]
	h.mu.RUnlock()

	if cl == nil {
		return conn.WriteJSON(CountMessage{Count: count})
	}
	return cl.write(CountMessage{Count: count})
}
