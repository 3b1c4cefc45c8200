package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/siag/internal/agenda"
	"github.com/dukerupert/siag/internal/auth"
)

type CaseHandler struct {
	data   *Dataset
	logger *slog.Logger
}

func NewCaseHandler(data *Dataset, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{data: data, logger: logger}
}

// Search lists the visible cases matching ?q= by number, employee or theme.
func (h *CaseHandler) Search(w http.ResponseWriter, r *http.Request) {
	cases := agenda.SearchCases(h.data.Snapshot(), r.URL.Query().Get("q"), auth.Viewer(r.Context()))
	writeJSON(w, http.StatusOK, cases)
}

// Get returns one case with its hearings, deadlines, tasks and evidence.
// Cases the viewer may not see are reported as missing.
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	d := agenda.DetailForCase(h.data.Snapshot(), id, auth.Viewer(r.Context()))
	if d == nil {
		writeError(w, http.StatusNotFound, "processo não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
