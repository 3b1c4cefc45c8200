package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/auth"
	"github.com/dukerupert/siag/internal/database"
	"github.com/dukerupert/siag/internal/fixtures"
	"github.com/dukerupert/siag/internal/notify"
	"github.com/dukerupert/siag/internal/store"
)

var testNow = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (s *recordingSink) Send(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

type testEnv struct {
	db        *sql.DB
	data      *Dataset
	overrides *SessionOverrides
	sink      *recordingSink
	logger    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := fixtures.LoadDefault(ctx, db); err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	snap, err := store.NewDatasetStore(db).Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return &testEnv{
		db:        db,
		data:      NewDataset(snap),
		overrides: NewSessionOverrides(),
		sink:      &recordingSink{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *testEnv) agenda() *AgendaHandler {
	h := NewAgendaHandler(e.data, e.overrides, time.UTC, "Thiago", nil, e.logger)
	h.now = func() time.Time { return testNow }
	return h
}

// as attaches an authenticated user to req.
func as(req *http.Request, name string, role access.Role) *http.Request {
	ac := auth.AuthContext{UserID: 1, Name: name, Role: role, Token: "tok-" + name}
	return req.WithContext(auth.WithAuth(req.Context(), ac))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}
