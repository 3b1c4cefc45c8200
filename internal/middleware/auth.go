package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/auth"
	"github.com/dukerupert/siag/internal/store"
)

// SessionCookieName is the cookie holding the session token.
const SessionCookieName = "siag_session"

// RequireAuth resolves the session cookie to a user and stores it in the
// request context. Requests without a live session get 401.
func RequireAuth(sessions *store.SessionStore, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(sess.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			// Unknown stored roles parse to RoleUnknown and see nothing.
			role, _ := access.ParseRole(user.Role)

			ac := auth.AuthContext{
				UserID:    user.ID,
				Name:      user.Name,
				Role:      role,
				SessionID: sess.ID,
				Token:     sess.Token,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// RequireAdmin checks that the authenticated user has the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "authentication required")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
