package realtime

import (
	"context"
	"sync"
)

// ChatMessage is the wire format, both directions. In responses From
// carries the sender; in requests Handle names the target.
type ChatMessage struct {
	Handle  string `json:"handle,omitempty"`
	From    string `json:"from,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Conn is the subset of a websocket connection the hub needs. Satisfied
// by *Client and by test stubs.
type Conn interface {
	Send(ctx context.Context, msg ChatMessage) error
}

// Hub tracks who is online: one live connection per handle. A fresh
// connection for a handle overwrites the previous entry; the superseded
// connection is not closed, it just stops receiving.
type Hub struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]Conn)}
}

// Register makes conn the current connection for handle.
func (h *Hub) Register(handle string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[handle] = conn
}

// Unregister removes handle's entry only when conn is still the current
// one. A stale disconnect arriving after a reconnect must not evict the
// newer connection.
func (h *Hub) Unregister(handle string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[handle] == conn {
		delete(h.conns, handle)
	}
}

// Get returns the current connection for handle, nil when offline.
func (h *Hub) Get(handle string) Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[handle]
}

// Online reports whether handle currently has a connection.
func (h *Hub) Online(handle string) bool {
	return h.Get(handle) != nil
}

// Count returns the number of connected handles.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Deliver routes a message from sender to the target handle. An offline
// target bounces an error notice back to the sender instead.
func (h *Hub) Deliver(ctx context.Context, sender string, msg ChatMessage) error {
	target := h.Get(msg.Handle)
	if target == nil {
		if from := h.Get(sender); from != nil {
			return from.Send(ctx, ChatMessage{Error: "User is offline"})
		}
		return nil
	}
	return target.Send(ctx, ChatMessage{From: sender, Content: msg.Content})
}
