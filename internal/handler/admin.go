package handler

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/siag/internal/fixtures"
	"github.com/dukerupert/siag/internal/store"
	"github.com/dukerupert/siag/internal/websocket"
)

// AdminHandler replaces the dataset at runtime.
type AdminHandler struct {
	db     *sql.DB
	data   *Dataset
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewAdminHandler(db *sql.DB, data *Dataset, hub *websocket.Hub, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{db: db, data: data, hub: hub, logger: logger}
}

type reloadResponse struct {
	Cases     int `json:"cases"`
	Hearings  int `json:"hearings"`
	Deadlines int `json:"deadlines"`
	Tasks     int `json:"tasks"`
}

// ReloadDataset accepts a YAML dataset, validates it, stores it and swaps
// the served snapshot. Connected clients are told to refresh.
func (h *AdminHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8*maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	d, err := fixtures.Parse(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := fixtures.Load(r.Context(), h.db, d); err != nil {
		h.logger.Error("load dataset", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	snap, err := store.NewDatasetStore(h.db).Snapshot(r.Context())
	if err != nil {
		h.logger.Error("read dataset", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read dataset")
		return
	}
	h.data.Swap(snap)
	h.hub.Broadcast(websocket.Message{Type: websocket.TypeDataset})

	h.logger.Info("dataset reloaded", "cases", len(snap.Cases), "tasks", len(snap.Tasks))
	writeJSON(w, http.StatusOK, reloadResponse{
		Cases:     len(snap.Cases),
		Hearings:  len(snap.Hearings),
		Deadlines: len(snap.Deadlines),
		Tasks:     len(snap.Tasks),
	})
}
