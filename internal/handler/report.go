package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/siag/internal/report"
	"github.com/dukerupert/siag/internal/store"
)

type ReportHandler struct {
	data     *Dataset
	datasets *store.DatasetStore
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewReportHandler(data *Dataset, ds *store.DatasetStore, loc *time.Location, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{data: data, datasets: ds, loc: loc, now: time.Now, logger: logger}
}

// Get builds the management report, optionally narrowed to one company.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	company := r.URL.Query().Get("company")
	if company == "" {
		company = report.AllCompanies
	}
	if company != report.AllCompanies && snap.Company(company) == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown company %q", company))
		return
	}
	writeJSON(w, http.StatusOK, report.Build(snap, company, h.now().In(h.loc)))
}

// Companies lists the group companies offered by the company filters.
func (h *ReportHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.datasets.Companies(r.Context())
	if err != nil {
		h.logger.Error("list companies", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list companies")
		return
	}
	writeJSON(w, http.StatusOK, companies)
}
