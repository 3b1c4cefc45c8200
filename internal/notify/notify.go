// Package notify builds user notifications and hands them to a Sink.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeTask     = "tarefa"
	TypeReminder = "lembrete"
)

// Notification is a message addressed to one user. An empty Recipient
// reaches everyone.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Recipient   string    `json:"recipient,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newNotification(title, description, typ, recipient string, now time.Time) Notification {
	return Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Type:        typ,
		Recipient:   recipient,
		CreatedAt:   now,
	}
}

// Sink delivers notifications.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// SendAll delivers every notification, stopping at the first error.
func SendAll(ctx context.Context, sink Sink, ns []Notification) error {
	for _, n := range ns {
		if err := sink.Send(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// Multi delivers every notification to each sink in order. All sinks are
// tried and their errors joined.
type Multi []Sink

func (m Multi) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
