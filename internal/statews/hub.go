// Package statews streams slider selections to websocket clients.
//
// Messages are JSON text frames with an envelope: {type, ts, data}. A client
// receives "state_init" with every attached slider on connect, then one
// "selection_changed" per committed change. Slow clients are disconnected
// when their send buffer fills.
package statews

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

const (
	defaultSendBuf = 32
	broadcastBuf   = 128

	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// Hub owns the connected clients. Joins, leaves and fan-out all happen on
// the Run goroutine, so a client's send queue is only ever written and
// closed there.
type Hub struct {
	logger  *slog.Logger
	sendBuf int

	broadcast chan []byte
	join      chan *Client
	leave     chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub builds a hub whose clients queue up to sendBuf frames. Call Run to
// start it.
func NewHub(logger *slog.Logger, sendBuf int) *Hub {
	if sendBuf <= 0 {
		sendBuf = defaultSendBuf
	}
	return &Hub{
		logger:    logger,
		sendBuf:   sendBuf,
		broadcast: make(chan []byte, broadcastBuf),
		join:      make(chan *Client, 64),
		leave:     make(chan *Client, 64),
		clients:   make(map[*Client]struct{}),
	}
}

// Run serves joins, leaves and broadcasts until ctx ends, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.snapshot() {
				h.drop(c, "shutdown")
			}
			return
		case c := <-h.join:
			h.add(c)
		case c := <-h.leave:
			h.drop(c, "closed")
		case msg := <-h.broadcast:
			for _, c := range h.snapshot() {
				select {
				case c.send <- msg:
				default:
					h.drop(c, "slow_client")
				}
			}
		}
	}
}

// add queues the client's greeting ahead of any broadcast and starts
// fanning out to it.
func (h *Hub) add(c *Client) {
	if c.greeting != nil {
		c.send <- c.greeting
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("ws client joined", "remote_addr", c.addr, "clients", n)
}

func (h *Hub) drop(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if !ok {
		return
	}
	c.close()
	h.logger.Info("ws client left", "remote_addr", c.addr, "reason", reason, "clients", n)
}

func (h *Hub) snapshot() []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Clients returns the number of joined clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastBytes enqueues a serialized frame. It never blocks; a full queue
// drops the frame.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("ws broadcast queue full, dropping frame", "bytes", len(msg))
	}
}

// Client is one websocket connection with its own write queue.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	greeting []byte
	addr     string
	once     sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, addr string, greeting []byte) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, h.sendBuf),
		greeting: greeting,
		addr:     addr,
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writePump drains the send queue into the socket and keeps it alive with
// pings. A closed queue sends a close frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		var err error
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			err = c.conn.WriteMessage(websocket.TextMessage, msg)
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = c.conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			c.hub.logger.Debug("ws write ended", "remote_addr", c.addr, "error", err)
			return
		}
	}
}

// readPump discards inbound frames so pongs are seen and a disconnect is
// noticed, then asks the hub to drop the client.
func (c *Client) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.logger.Debug("ws read ended", "remote_addr", c.addr, "error", err)
			c.hub.leave <- c
			return
		}
	}
}
