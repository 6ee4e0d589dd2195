package telemetry

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 2 * time.Second
	defaultClientSize = 8
)

var ErrHubClosed = errors.New("telemetry: hub closed")

// Hub fans frames out to every connected observer. Publish never blocks the
// caller: a client whose buffer is full is disconnected.
type Hub struct {
	// Buffer is the per-client queue length. Set before serving.
	Buffer int
	Logger *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		Buffer: defaultClientSize,
		Logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the observer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, ErrHubClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("telemetry: upgrade: %v", err)
		return
	}

	size := h.Buffer
	if size <= 0 {
		size = defaultClientSize
	}
	c := &client{conn: conn, send: make(chan []byte, size)}
	if !h.add(c) {
		_ = conn.Close()
		return
	}
	h.logf("telemetry: observer connected from %s", r.RemoteAddr)

	go h.writeLoop(c)
	h.readLoop(c)
}

// Publish sends f to every observer.
func (h *Hub) Publish(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logf("telemetry: dropping slow observer")
			h.removeLocked(c)
		}
	}
	return nil
}

// Clients returns how many observers are connected.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every observer and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
	return nil
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes the client's queue; its write loop then closes the
// connection.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			break
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logf("telemetry: write: %v", err)
			break
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	h.remove(c)
}

// readLoop discards inbound messages and notices disconnects.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.Logger != nil {
		h.Logger.Printf(format, args...)
	}
}
