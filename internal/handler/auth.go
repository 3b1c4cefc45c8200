package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/agenda"
	"github.com/dukerupert/siag/internal/auth"
	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/middleware"
	"github.com/dukerupert/siag/internal/model"
	"github.com/dukerupert/siag/internal/store"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	overrides    *SessionOverrides
	sessionTTL   time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, so *SessionOverrides, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		overrides:    so,
		sessionTTL:   ttl,
		metrics:      m,
		logger:       logger,
	}
}

type loginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type meResponse struct {
	ID                int64                   `json:"id"`
	Name              string                  `json:"name"`
	Role              access.Role             `json:"role"`
	RoleLabel         string                  `json:"role_label"`
	DefaultAssignment agenda.AssignmentFilter `json:"default_assignment"`
}

func newMeResponse(id int64, name string, role access.Role) meResponse {
	return meResponse{
		ID:                id,
		Name:              name,
		Role:              role,
		RoleLabel:         role.Label(),
		DefaultAssignment: agenda.DefaultAssignment(role),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PIN == "" {
		writeError(w, http.StatusBadRequest, "name and pin are required")
		return
	}

	user, err := h.userStore.Authenticate(req.Name, req.PIN)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		h.metrics.Login(false)
		h.logger.Warn("login failed", "name", req.Name, "remote", middleware.RealIP(r))
		writeError(w, http.StatusUnauthorized, "nome ou PIN inválido")
		return
	}

	sess, err := h.sessionStore.Create(user.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.metrics.Login(true)

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	role, _ := access.ParseRole(user.Role)
	h.logger.Info("login", "user", user.Name, "role", role.String())
	writeJSON(w, http.StatusOK, newMeResponse(user.ID, user.Name, role))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if ok {
		if err := h.sessionStore.Delete(ac.Token); err != nil {
			h.logger.Error("delete session", "error", err)
		}
		h.overrides.Drop(ac.Token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, newMeResponse(ac.UserID, ac.Name, ac.Role))
}

type userResponse struct {
	Name      string      `json:"name"`
	Role      access.Role `json:"role"`
	RoleLabel string      `json:"role_label"`
}

// Users lists the people a task can be assigned to.
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func toUserResponses(users []model.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		role, _ := access.ParseRole(u.Role)
		out = append(out, userResponse{Name: u.Name, Role: role, RoleLabel: role.Label()})
	}
	return out
}
