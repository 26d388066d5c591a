package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// Client wraps one websocket connection for a signed-in handle.
type Client struct {
	handle string
	conn   *websocket.Conn

	// wsjson writes are not concurrency-safe.
	writeMu sync.Mutex
}

func NewClient(handle string, conn *websocket.Conn) *Client {
	return &Client{handle: handle, conn: conn}
}

// Send writes a chat message with a bounded deadline.
func (c *Client) Send(ctx context.Context, msg ChatMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, c.conn, msg)
}

// Serve runs the read loop until the connection drops, routing every
// inbound message through the hub. It handles its own registration so a
// dropped connection always unwinds its own hub entry and no one else's.
func (c *Client) Serve(ctx context.Context, hub *Hub, logger *slog.Logger) {
	hub.Register(c.handle, c)
	defer hub.Unregister(c.handle, c)

	for {
		var msg ChatMessage
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status == -1 && !errors.Is(err, context.Canceled) {
				logger.Debug("chat read failed", "handle", c.handle, "error", err)
			}
			c.conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}

		if msg.Handle == "" || msg.Content == "" {
			if err := c.Send(ctx, ChatMessage{Error: "handle and content are required"}); err != nil {
				return
			}
			continue
		}

		if err := hub.Deliver(ctx, c.handle, msg); err != nil {
			logger.Debug("chat deliver failed", "from", c.handle, "to", msg.Handle, "error", err)
			return
		}
	}
}
