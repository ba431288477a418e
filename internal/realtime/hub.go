// Package realtime implements the websocket push channel: a process-wide
// hub of subscribed connections plus the product/cart events clients may
// originate over the socket.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame is the wire format in both directions. Client frames may carry an
// ackId; the server then answers that frame's outcome on the same
// connection with an "ack" frame holding the same id.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID string          `json:"ackId,omitempty"`
}

// Ack is the payload of an "ack" frame.
type Ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	CartID  string `json:"cartId,omitempty"`
}

// Client is one subscribed connection. Writes go through the send channel
// so a single goroutine owns the socket; mu serializa los envíos con el
// cierre del canal, que puede llegar desde el hub mientras el read pump
// sigue despachando.
type Client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func (c *Client) trySend(buf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- buf:
	default:
		// cliente lento: se descarta el mensaje antes que bloquear el hub
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) emit(event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[ws] error serializando evento %s: %v", event, err)
		return
	}
	buf, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		return
	}
	c.trySend(buf)
}

func (c *Client) ack(id string, a Ack) {
	if id == "" {
		return
	}
	raw, _ := json.Marshal(a)
	buf, _ := json.Marshal(Frame{Event: "ack", AckID: id, Data: raw})
	c.trySend(buf)
}

// Hub keeps the set of subscribed clients and fans broadcasts out to all of
// them. Subscription lifecycle is tied to connection open/close.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run drives the hub until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[ws] cliente conectado (total=%d)", n)
		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				c.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[ws] cliente desconectado (total=%d)", n)
		case buf := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				c.trySend(buf)
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends event with data to every subscribed client.
func (h *Hub) Broadcast(event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[ws] error serializando broadcast %s: %v", event, err)
		return
	}
	buf, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		return
	}
	h.broadcast <- buf
}

// Count returns how many clients are subscribed.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
	h.clients = make(map[*Client]bool)
}
