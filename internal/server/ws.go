package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
)

const (
	writeWait  = 2 * time.Second
	clientSend = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type deltaClient struct {
	conn *websocket.Conn
	send chan []byte
}

// DeltaHub streams every processed frame's output to websocket clients.
// A client that falls behind loses frames rather than stalling the loop,
// except reset firings, which displace the oldest queued frame instead.
type DeltaHub struct {
	mu          sync.Mutex
	clients     map[*deltaClient]struct{}
	unsubscribe func()
	closed      bool
}

// NewDeltaHub creates a DeltaHub subscribed to p.
func NewDeltaHub(p Pipeline) *DeltaHub {
	h := &DeltaHub{clients: make(map[*deltaClient]struct{})}
	h.unsubscribe = p.Subscribe(h.broadcast)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *DeltaHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &deltaClient{conn: conn, send: make(chan []byte, clientSend)}
	if !h.add(c) {
		conn.Close()
		return
	}
	go c.writeLoop()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

// Clients returns the number of connected clients.
func (h *DeltaHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close unsubscribes from the pipeline and disconnects every client.
func (h *DeltaHub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*deltaClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	h.unsubscribe()
	for _, c := range clients {
		c.conn.Close()
	}
}

func (h *DeltaHub) add(c *deltaClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *DeltaHub) remove(c *deltaClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcast runs on the frame loop goroutine and never blocks it.
func (h *DeltaHub) broadcast(out app.Output) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(out)
	if err != nil {
		log.Printf("Failed to encode frame output: %v", err)
		return
	}
	for c := range h.clients {
		c.enqueue(msg, out.ResetFired)
	}
}

// enqueue queues msg without blocking and reports whether it was queued.
// With a full buffer msg is dropped unless keep is set, in which case the
// oldest queued message is dropped instead. Only broadcast sends, under
// the hub lock, so the second attempt always finds room.
func (c *deltaClient) enqueue(msg []byte, keep bool) bool {
	select {
	case c.send <- msg:
		return true
	default:
	}
	if !keep {
		return false
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *deltaClient) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			return
		}
	}
	c.conn.Close()
}
