package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/siag/internal/auth"
	"github.com/dukerupert/siag/internal/notify"
)

// HandleWebSocket upgrades authenticated requests and runs them as hub
// clients addressed by the session's user name. originPatterns lists extra
// allowed origins; same-origin requests are always accepted.
func HandleWebSocket(hub *Hub, logger *slog.Logger, originPatterns ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{OriginPatterns: originPatterns})
		if err != nil {
			logger.Warn("websocket accept", "user", ac.Name, "error", err)
			return
		}
		defer conn.CloseNow()

		logger.Debug("websocket connected", "user", ac.Name)
		NewClient(hub, conn, ac.Name).Run(r.Context())
		logger.Debug("websocket disconnected", "user", ac.Name)
	}
}

type inboxResponse struct {
	Unread        int                   `json:"unread"`
	Notifications []notify.Notification `json:"notifications"`
}

// HandleInbox lists the caller's unread notifications, the same set a new
// socket replays.
func HandleInbox(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		ns := hub.Unread(ac.Name)
		if ns == nil {
			ns = []notify.Notification{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(inboxResponse{Unread: len(ns), Notifications: ns})
	}
}

// HandleMarkRead acknowledges one notification, or all of them when the
// body carries no id.
func HandleMarkRead(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		var req struct {
			ID string `json:"id"`
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInbound)).Decode(&req); err != nil {
				http.Error(w, "invalid JSON", http.StatusBadRequest)
				return
			}
		}
		hub.MarkRead(ac.Name, req.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}
