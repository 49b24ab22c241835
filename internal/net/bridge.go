// Package net connects a board to remote hosts: a websocket bridge that
// takes commands in and broadcasts events out, plus LAN discovery.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MarkupBoard/internal/state"
)

const writeTimeout = 5 * time.Second

// Reply is sent back to the one host whose command failed.
type Reply struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}

// client is one connected host. Gorilla connections allow a single
// concurrent writer, so writes go through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Bridge relays JSON commands from websocket hosts to Dispatch and board
// events back to every host.
type Bridge struct {
	// Dispatch runs one command. The host decides which goroutine applies
	// it to the board.
	Dispatch func(state.Command) error

	upgrader websocket.Upgrader
	clients  map[*client]bool
	mu       sync.RWMutex
	server   *http.Server
}

// NewBridge creates a bridge that hands commands to dispatch.
func NewBridge(dispatch func(state.Command) error) *Bridge {
	return &Bridge{
		Dispatch: dispatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

func (b *Bridge) add(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = true
	log.Printf("[BRIDGE] Added connection: %s", c.conn.RemoteAddr())
}

func (b *Bridge) remove(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, c)
	log.Printf("[BRIDGE] Removed connection: %s", c.conn.RemoteAddr())
}

// Count returns the number of connected hosts.
func (b *Bridge) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Handler upgrades requests to websockets and serves one host per
// connection.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[BRIDGE] Upgrade failed: %v", err)
			return
		}
		c := &client{conn: conn}
		b.add(c)
		defer conn.Close()
		defer b.remove(c)
		b.serve(c)
	})
}

func (b *Bridge) serve(c *client) {
	addr := c.conn.RemoteAddr().String()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[BRIDGE] Host %s disconnected: %v", addr, err)
			}
			return
		}

		var cmd state.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			b.reply(c, Reply{Type: "error", Error: fmt.Sprintf("bad command: %v", err)})
			continue
		}
		log.Printf("[BRIDGE] Received '%s' from %s", cmd.Action, addr)
		if b.Dispatch == nil {
			continue
		}
		if err := b.Dispatch(cmd); err != nil {
			b.reply(c, Reply{Type: "error", Action: cmd.Action, Error: err.Error()})
		}
	}
}

func (b *Bridge) reply(c *client, r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.write(data); err != nil {
		log.Printf("[BRIDGE] Error replying to %s: %v", c.conn.RemoteAddr(), err)
	}
}

// Broadcast sends ev to every connected host.
func (b *Bridge) Broadcast(ev state.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[BRIDGE] Cannot encode %s event: %v", ev.Type, err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		if err := c.write(data); err != nil {
			log.Printf("[BRIDGE] Error sending to %s: %v", c.conn.RemoteAddr(), err)
		}
	}
}

// Serve listens on addr and serves the bridge at path until Close.
func (b *Bridge) Serve(addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, b.Handler())

	b.mu.Lock()
	b.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	srv := b.server
	b.mu.Unlock()

	log.Printf("[BRIDGE] Listening on %s%s", addr, path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge server: %w", err)
	}
	return nil
}

// Close stops the server and disconnects every host.
func (b *Bridge) Close() error {
	b.mu.Lock()
	srv := b.server
	b.server = nil
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
