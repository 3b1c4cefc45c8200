package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 32
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
	maxInbound     = 4 << 10
)

// Inbound message types.
const (
	ClientRead    = "read"
	ClientReadAll = "read_all"
)

// inbound is what a dashboard may send: an acknowledgement that the user
// opened a notification, or all of them.
type inbound struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Client is one socket of a signed-in user.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	user string
	send chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, user string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		user: user,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run registers the client, which replays the user's unread
// notifications, and serves the socket until it drops.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.conn.SetReadLimit(maxInbound)
	go func() {
		c.writePump(ctx)
		cancel()
	}()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != ws.MessageText {
			continue
		}
		c.handle(data)
	}
}

// handle applies one inbound frame. Malformed or unknown frames are
// ignored.
func (c *Client) handle(data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Debug("ignoring malformed frame", "user", c.user, "error", err)
		return
	}
	switch msg.Type {
	case ClientRead:
		if msg.ID != "" {
			c.hub.MarkRead(c.user, msg.ID)
		}
	case ClientReadAll:
		c.hub.MarkRead(c.user, "")
	default:
		c.hub.logger.Debug("ignoring frame", "user", c.user, "type", msg.Type)
	}
}

func (c *Client) writePump(ctx context.Context) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, data); err != nil {
				c.hub.logger.Debug("websocket write", "user", c.user, "error", err)
				return
			}
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, data)
}
