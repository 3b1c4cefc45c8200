// Package websocket pushes notifications to connected dashboard sessions.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/notify"
)

// Message types sent to clients.
const (
	TypeNotification = "notification"
	TypeRead         = "notification_read"
	TypeDataset      = "dataset_reloaded"
)

// inboxSize bounds the unread notifications kept per user.
const inboxSize = 20

// Message is the envelope written to every socket. ID is set on
// TypeRead messages; an empty ID there means everything was read.
type Message struct {
	Type         string               `json:"type"`
	Notification *notify.Notification `json:"notification,omitempty"`
	ID           string               `json:"id,omitempty"`
}

// Hub tracks connected clients and fans messages out to them. It also
// keeps each user's unread notifications so a session that connects later
// still sees them.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	inbox   map[string][]notify.Notification
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ notify.Sink = (*Hub)(nil)

func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		inbox:   make(map[string][]notify.Notification),
		logger:  logger,
		metrics: m,
	}
}

// Register adds c and queues its user's unread notifications under the
// same lock as delivery, so nothing is missed or sent twice.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	for i := range h.inbox[c.user] {
		n := h.inbox[c.user][i]
		data, err := json.Marshal(Message{Type: TypeNotification, Notification: &n})
		if err != nil {
			continue
		}
		h.enqueue(c, data, TypeNotification)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetWebsocketClients(count)
}

// Unregister removes a client and closes its send channel. Repeated calls
// are no-ops.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetWebsocketClients(n)
}

// Broadcast sends msg to every client.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal message", "type", msg.Type, "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliver(data, msg.Type, "")
}

// Send delivers a notification to the sessions of its recipient, or to
// every session when it has none. Addressed notifications also wait in the
// recipient's inbox until read.
func (h *Hub) Send(_ context.Context, n notify.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("send notification: missing id")
	}
	data, err := json.Marshal(Message{Type: TypeNotification, Notification: &n})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	h.mu.Lock()
	if n.Recipient != "" {
		box := append(h.inbox[n.Recipient], n)
		if len(box) > inboxSize {
			box = slices.Clone(box[len(box)-inboxSize:])
		}
		h.inbox[n.Recipient] = box
	}
	delivered := h.deliver(data, TypeNotification, n.Recipient)
	h.mu.Unlock()

	h.metrics.NotificationSent(n.Type)
	h.logger.Debug("notification sent", "type", n.Type, "recipient", n.Recipient, "clients", delivered)
	return nil
}

// Unread returns the notifications user has not read yet, oldest first.
func (h *Hub) Unread(user string) []notify.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.inbox[user])
}

// MarkRead removes notification id from user's inbox, or every
// notification when id is empty, and tells the user's other sessions. It
// reports whether anything changed.
func (h *Hub) MarkRead(user, id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	box := h.inbox[user]
	if id == "" {
		if len(box) == 0 {
			return false
		}
		delete(h.inbox, user)
	} else {
		i := slices.IndexFunc(box, func(n notify.Notification) bool { return n.ID == id })
		if i < 0 {
			return false
		}
		box = slices.Delete(box, i, i+1)
		if len(box) == 0 {
			delete(h.inbox, user)
		} else {
			h.inbox[user] = box
		}
	}

	data, err := json.Marshal(Message{Type: TypeRead, ID: id})
	if err == nil {
		h.deliver(data, TypeRead, user)
	}
	return true
}

// deliver queues data on matching clients. Callers hold h.mu.
func (h *Hub) deliver(data []byte, typ, recipient string) int {
	delivered := 0
	for c := range h.clients {
		if recipient != "" && c.user != recipient {
			continue
		}
		if h.enqueue(c, data, typ) {
			delivered++
		}
	}
	return delivered
}

func (h *Hub) enqueue(c *Client, data []byte, typ string) bool {
	select {
	case c.send <- data:
		return true
	default:
		h.logger.Warn("client buffer full, message dropped", "user", c.user, "type", typ)
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
