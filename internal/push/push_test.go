package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/model"
	"github.com/dukerupert/siag/internal/notify"
)

type memSubs struct {
	mu      sync.Mutex
	byUser  map[string][]model.PushSubscription
	deleted []string
}

func (m *memSubs) ListByUserName(name string) ([]model.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PushSubscription(nil), m.byUser[name]...), nil
}

func (m *memSubs) DeleteByEndpoint(endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, endpoint)
	return nil
}

// browserKeys returns a valid p256dh and auth pair as a browser would.
func browserKeys(t *testing.T) (p256dh, auth string) {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate browser key: %v", err)
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("generate auth secret: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(secret)
}

type pushRecorder struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (p *pushRecorder) server(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		p.mu.Lock()
		p.requests = append(p.requests, r)
		p.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (p *pushRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func newTestService(t *testing.T, subs Subscriptions, m *metrics.Metrics) *Service {
	t.Helper()
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	return NewService(Config{
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
		Subject:         "agenda@example.com",
	}, subs, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func subscription(t *testing.T, id int64, endpoint string) model.PushSubscription {
	p256dh, auth := browserKeys(t)
	return model.PushSubscription{ID: id, Endpoint: endpoint, P256dhKey: p256dh, AuthKey: auth}
}

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}
	if priv == "" {
		t.Error("expected non-empty private key")
	}

	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestSendDeliversToRecipient(t *testing.T) {
	var rec pushRecorder
	srv := rec.server(t, http.StatusCreated)
	subs := &memSubs{byUser: map[string][]model.PushSubscription{
		"Thiago":       {subscription(t, 1, srv.URL+"/a"), subscription(t, 2, srv.URL+"/b")},
		"Carla Mendes": {subscription(t, 3, srv.URL+"/c")},
	}}
	m := metrics.New()
	svc := newTestService(t, subs, m)

	err := svc.Send(context.Background(), notify.Notification{
		ID: "n1", Title: "Tarefa atribuída a você", Description: "Revisar minuta", Recipient: "Thiago",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.count() != 2 {
		t.Fatalf("push requests = %d, want 2", rec.count())
	}
	r := rec.requests[0]
	if r.Header.Get("Content-Encoding") != "aes128gcm" {
		t.Errorf("content-encoding = %q", r.Header.Get("Content-Encoding"))
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "vapid t=") {
		t.Errorf("authorization = %q, want VAPID", r.Header.Get("Authorization"))
	}
	if r.Header.Get("Urgency") != "normal" {
		t.Errorf("urgency = %q, want normal", r.Header.Get("Urgency"))
	}
	if len(subs.deleted) != 0 {
		t.Errorf("deleted = %v, want none", subs.deleted)
	}

	body := scrape(t, m)
	if !strings.Contains(body, `siag_push_deliveries_total{result="sent"} 2`) {
		t.Error("sent deliveries not counted")
	}
}

func TestSendSkipsBroadcastAndUnknownUsers(t *testing.T) {
	var rec pushRecorder
	srv := rec.server(t, http.StatusCreated)
	subs := &memSubs{byUser: map[string][]model.PushSubscription{
		"Thiago": {subscription(t, 1, srv.URL+"/a")},
	}}
	svc := newTestService(t, subs, nil)

	if err := svc.Send(context.Background(), notify.Notification{ID: "n1", Title: "x"}); err != nil {
		t.Fatalf("send broadcast: %v", err)
	}
	if err := svc.Send(context.Background(), notify.Notification{ID: "n2", Title: "x", Recipient: "Ninguém"}); err != nil {
		t.Fatalf("send to unknown: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("push requests = %d, want 0", rec.count())
	}
}

func TestSendRemovesExpiredSubscription(t *testing.T) {
	var gone pushRecorder
	goneSrv := gone.server(t, http.StatusGone)
	subs := &memSubs{byUser: map[string][]model.PushSubscription{
		"Thiago": {subscription(t, 1, goneSrv.URL+"/old")},
	}}
	m := metrics.New()
	svc := newTestService(t, subs, m)

	if err := svc.Send(context.Background(), notify.Notification{ID: "n1", Recipient: "Thiago"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(subs.deleted) != 1 || subs.deleted[0] != goneSrv.URL+"/old" {
		t.Errorf("deleted = %v, want the expired endpoint", subs.deleted)
	}
	if !strings.Contains(scrape(t, m), `siag_push_deliveries_total{result="expired"} 1`) {
		t.Error("expired delivery not counted")
	}
}

func TestSendLogsServiceErrors(t *testing.T) {
	var rec pushRecorder
	srv := rec.server(t, http.StatusInternalServerError)
	subs := &memSubs{byUser: map[string][]model.PushSubscription{
		"Thiago": {subscription(t, 1, srv.URL+"/a")},
	}}
	svc := newTestService(t, subs, nil)

	if err := svc.Send(context.Background(), notify.Notification{ID: "n1", Recipient: "Thiago"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(subs.deleted) != 0 {
		t.Errorf("deleted = %v, want none", subs.deleted)
	}
}

func TestSendPayloadStatus(t *testing.T) {
	tests := []struct {
		status  int
		wantErr bool
		expired bool
	}{
		{http.StatusCreated, false, false},
		{http.StatusNotFound, true, true},
		{http.StatusGone, true, true},
		{http.StatusTooManyRequests, true, false},
	}
	for _, tt := range tests {
		var rec pushRecorder
		srv := rec.server(t, tt.status)
		svc := newTestService(t, &memSubs{}, nil)
		sub := subscription(t, 1, srv.URL)

		err := svc.SendPayload(context.Background(), &sub, Payload{Title: "x"})
		if (err != nil) != tt.wantErr {
			t.Errorf("status %d: err = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
		if got := err == ErrExpired; got != tt.expired {
			t.Errorf("status %d: expired = %v, want %v", tt.status, got, tt.expired)
		}
	}
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
