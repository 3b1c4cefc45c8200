// Package server wires stores, handlers and middleware into the HTTP router.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/siag/internal/config"
	"github.com/dukerupert/siag/internal/handler"
	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/middleware"
	"github.com/dukerupert/siag/internal/model"
	"github.com/dukerupert/siag/internal/notify"
	"github.com/dukerupert/siag/internal/push"
	"github.com/dukerupert/siag/internal/store"
	ws "github.com/dukerupert/siag/internal/websocket"
)

type Server struct {
	db           *sql.DB
	cfg          *config.Config
	data         *handler.Dataset
	hub          *ws.Hub
	sink         notify.Sink
	overrides    *handler.SessionOverrides
	agendaH      *handler.AgendaHandler
	caseH        *handler.CaseHandler
	reportH      *handler.ReportHandler
	taskH        *handler.TaskHandler
	adminH       *handler.AdminHandler
	authH        *handler.AuthHandler
	pushH        *handler.PushHandler
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	clientIP     *middleware.ClientIP
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// New builds the server around an already seeded database and its snapshot.
func New(db *sql.DB, cfg *config.Config, snap *model.Snapshot, m *metrics.Metrics, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"), m)
	data := handler.NewDataset(snap)
	overrides := handler.NewSessionOverrides()
	loc := cfg.Location()

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	datasetStore := store.NewDatasetStore(db)
	pushStore := store.NewPushStore(db)

	// Notifications always reach connected dashboards; browsers with a
	// push subscription also get them when VAPID keys are configured.
	var sink notify.Sink = hub
	var pushSvc *push.Service
	if cfg.PushEnabled() {
		pushSvc = push.NewService(push.Config{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subject:         cfg.PushSubject,
		}, pushStore, m, logger.With("component", "push"))
		sink = notify.Multi{hub, pushSvc}
	}

	return &Server{
		db:           db,
		cfg:          cfg,
		data:         data,
		hub:          hub,
		sink:         sink,
		overrides:    overrides,
		agendaH:      handler.NewAgendaHandler(data, overrides, loc, cfg.FallbackUser, m, logger.With("component", "agenda")),
		caseH:        handler.NewCaseHandler(data, logger.With("component", "cases")),
		reportH:      handler.NewReportHandler(data, datasetStore, loc, logger.With("component", "report")),
		taskH:        handler.NewTaskHandler(data, sink, logger.With("component", "task")),
		adminH:       handler.NewAdminHandler(db, data, hub, logger.With("component", "admin")),
		authH:        handler.NewAuthHandler(userStore, sessionStore, overrides, cfg.SessionTTL, m, logger.With("component", "auth")),
		pushH:        handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		userStore:    userStore,
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		clientIP:     middleware.NewClientIP(cfg.ProxyPrefixes()),
		metrics:      m,
		logger:       logger,
	}
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Sink returns where task and reminder notifications go.
func (s *Server) Sink() notify.Sink {
	return s.sink
}

// Snapshot returns the snapshot currently served.
func (s *Server) Snapshot() *model.Snapshot {
	return s.data.Snapshot()
}

// CleanupSessions deletes expired sessions and forgets the time overrides
// of every session that no longer exists, including those already removed
// on access. It returns the number of sessions deleted.
func (s *Server) CleanupSessions() (int, error) {
	tokens, err := s.sessionStore.DeleteExpired()
	if err != nil {
		return 0, err
	}
	for _, tok := range tokens {
		s.overrides.Drop(tok)
	}
	s.overrides.Prune(func(tok string) bool {
		sess, err := s.sessionStore.GetByToken(tok)
		return err != nil || sess != nil
	})
	return len(tokens), nil
}

// UserStore returns the user store for the reminder.
func (s *Server) UserStore() *store.UserStore {
	return s.userStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", s.metrics.Handler())

	// Protected routes are registered on the same mux, each behind
	// RequireAuth, so the request logger sees the matched pattern.
	s.registerProtectedRoutes(&protectedMux{
		mux:  outerMux,
		auth: middleware.RequireAuth(s.sessionStore, s.userStore),
	})

	return middleware.RequestLogger(s.logger.With("component", "http"), s.metrics)(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health ping", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return "login:" + s.clientIP.Of(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, s.cfg.LoginRateLimit, time.Minute)
	return rl(h).ServeHTTP
}

type protectedMux struct {
	mux  *http.ServeMux
	auth func(http.Handler) http.Handler
}

func (p *protectedMux) Handle(pattern string, h http.Handler) {
	p.mux.Handle(pattern, p.auth(h))
}

func (p *protectedMux) HandleFunc(pattern string, h http.HandlerFunc) {
	p.Handle(pattern, h)
}

func (s *Server) registerProtectedRoutes(mux *protectedMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("GET /api/users", s.authH.Users)

	// Agenda
	mux.HandleFunc("GET /api/agenda", s.agendaH.Day)
	mux.HandleFunc("GET /api/agenda/period", s.agendaH.Period)
	mux.HandleFunc("GET /api/agenda/years", s.agendaH.Years)
	mux.HandleFunc("GET /api/agenda/upcoming", s.agendaH.Upcoming)
	mux.HandleFunc("PUT /api/agenda/overrides", s.agendaH.SetOverride)
	mux.HandleFunc("GET /api/agenda/export.ics", s.agendaH.ExportICS)
	mux.HandleFunc("GET /api/agenda/export.csv", s.agendaH.ExportCSV)

	// Cases
	mux.HandleFunc("GET /api/cases", s.caseH.Search)
	mux.HandleFunc("GET /api/cases/{id}", s.caseH.Get)

	// Reports
	mux.HandleFunc("GET /api/reports", s.reportH.Get)
	mux.HandleFunc("GET /api/companies", s.reportH.Companies)

	mux.HandleFunc("POST /api/tasks", s.taskH.Create)

	// Web Push
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	mux.HandleFunc("POST /api/push/subscriptions", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	mux.Handle("POST /api/admin/dataset", middleware.RequireAdmin(http.HandlerFunc(s.adminH.ReloadDataset)))

	mux.HandleFunc("GET /api/notifications", ws.HandleInbox(s.hub))
	mux.HandleFunc("POST /api/notifications/read", ws.HandleMarkRead(s.hub))
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
