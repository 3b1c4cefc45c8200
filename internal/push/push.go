// Package push delivers notifications to browsers through Web Push.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/model"
	"github.com/dukerupert/siag/internal/notify"
)

// ErrExpired is returned when the push service reports the subscription
// gone (404 or 410).
var ErrExpired = errors.New("push subscription expired")

const defaultTTL = 12 * 60 * 60

// Payload is the JSON the service worker receives.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Subscriptions is the storage the service reads endpoints from.
type Subscriptions interface {
	ListByUserName(name string) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subject is the contact sent to push services: an e-mail address
	// without the mailto: prefix, or an https URL.
	Subject string
	// HTTPClient overrides the client used to reach push services.
	HTTPClient webpush.HTTPClient
}

// Service sends notifications to every browser of the recipient.
type Service struct {
	cfg     Config
	subs    Subscriptions
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ notify.Sink = (*Service)(nil)

func NewService(cfg Config, subs Subscriptions, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, subs: subs, metrics: m, logger: logger}
}

// VAPIDPublicKey returns the key browsers subscribe with.
func (s *Service) VAPIDPublicKey() string {
	return s.cfg.VAPIDPublicKey
}

// Send pushes n to the recipient's subscriptions. Broadcasts, with no
// recipient, are not pushed. Expired subscriptions are removed and
// individual delivery failures are logged, so only a storage error fails
// the call.
func (s *Service) Send(ctx context.Context, n notify.Notification) error {
	if n.Recipient == "" {
		return nil
	}
	subs, err := s.subs.ListByUserName(n.Recipient)
	if err != nil {
		return fmt.Errorf("list push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload := Payload{
		Title: n.Title,
		Body:  n.Description,
		URL:   "/",
		Tag:   n.ID,
	}
	for i := range subs {
		sub := &subs[i]
		err := s.SendPayload(ctx, sub, payload)
		switch {
		case err == nil:
			s.metrics.PushDelivery("sent")
		case errors.Is(err, ErrExpired):
			s.metrics.PushDelivery("expired")
			s.logger.Info("removing expired push subscription", "user", n.Recipient, "subscription_id", sub.ID)
			if err := s.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
				s.logger.Error("delete expired push subscription", "error", err)
			}
		default:
			s.metrics.PushDelivery("error")
			s.logger.Warn("push delivery failed", "user", n.Recipient, "subscription_id", sub.ID, "error", err)
		}
	}
	return nil
}

// SendPayload pushes one payload to one subscription.
func (s *Service) SendPayload(ctx context.Context, sub *model.PushSubscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		HTTPClient:      s.cfg.HTTPClient,
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             defaultTTL,
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone, resp.StatusCode == http.StatusNotFound:
		return ErrExpired
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}

// GenerateVAPIDKeys creates a new VAPID key pair, both base64url encoded.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("generate VAPID keys: %w", err)
	}
	return publicKey, privateKey, nil
}
