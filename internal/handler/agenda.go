package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/siag/internal/agenda"
	"github.com/dukerupert/siag/internal/auth"
	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/export"
	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/model"
)

// emptyExport is shown instead of downloading an empty CSV.
const emptyExport = "Nenhum evento para exportar no período atual."

type AgendaHandler struct {
	data      *Dataset
	overrides *SessionOverrides
	loc       *time.Location
	fallback  string
	now       func() time.Time
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewAgendaHandler serves the agenda in loc. fallback names the viewer of
// requests that carry no user.
func NewAgendaHandler(data *Dataset, so *SessionOverrides, loc *time.Location, fallback string, m *metrics.Metrics, logger *slog.Logger) *AgendaHandler {
	return &AgendaHandler{
		data:      data,
		overrides: so,
		loc:       loc,
		fallback:  fallback,
		now:       time.Now,
		metrics:   m,
		logger:    logger,
	}
}

func (h *AgendaHandler) viewer(r *http.Request) agenda.Viewer {
	v := auth.Viewer(r.Context())
	if v.Name == "" {
		v.Name = h.fallback
	}
	return v
}

func (h *AgendaHandler) today() time.Time {
	return calendar.StartOfDay(h.now().In(h.loc))
}

type agendaQuery struct {
	date   time.Time
	view   calendar.View
	filter agenda.Filter
	viewer agenda.Viewer
	token  string
}

// parseQuery reads date, view and the filters. A missing assignment filter
// falls back to the viewer's role default.
func (h *AgendaHandler) parseQuery(r *http.Request, snap *model.Snapshot) (agendaQuery, error) {
	q := r.URL.Query()
	aq := agendaQuery{
		date:   h.today(),
		viewer: h.viewer(r),
	}
	if ac, ok := auth.FromContext(r.Context()); ok {
		aq.token = ac.Token
	}

	if s := q.Get("date"); s != "" {
		d, err := calendar.ParseDate(s, h.loc)
		if err != nil {
			return aq, fmt.Errorf("date must be YYYY-MM-DD")
		}
		aq.date = d
	}

	view, err := calendar.ParseView(q.Get("view"))
	if err != nil {
		return aq, err
	}
	aq.view = view

	f, err := agenda.ParseFilter(q.Get("type"), q.Get("assignment"), q.Get("company"))
	if err != nil {
		return aq, err
	}
	if q.Get("assignment") == "" {
		f.Assignment = agenda.DefaultAssignment(aq.viewer.Role)
	}
	if f.Company != agenda.AllCompanies && snap.Company(f.Company) == nil {
		return aq, fmt.Errorf("unknown company %q", f.Company)
	}
	aq.filter = f
	return aq, nil
}

func (h *AgendaHandler) served(events []agenda.Event) []agenda.Event {
	for _, e := range events {
		h.metrics.AgendaEvent(string(e.Kind))
	}
	if events == nil {
		return []agenda.Event{}
	}
	return events
}

type dayResponse struct {
	Date          string         `json:"date"`
	Label         string         `json:"label"`
	Today         bool           `json:"today"`
	Filter        agenda.Filter  `json:"filter"`
	ActiveFilters int            `json:"active_filters"`
	Events        []agenda.Event `json:"events"`
}

// Day lists the events of a single date.
func (h *AgendaHandler) Day(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	aq, err := h.parseQuery(r, snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events := agenda.EventsForDate(snap, aq.date, aq.filter, aq.viewer)
	events = h.overrides.Get(aq.token).Apply(events)

	writeJSON(w, http.StatusOK, dayResponse{
		Date:          calendar.FormatDate(aq.date),
		Label:         calendar.PeriodLabel(calendar.ViewDay, aq.date),
		Today:         calendar.IsToday(aq.date, h.today()),
		Filter:        aq.filter,
		ActiveFilters: aq.filter.Active(),
		Events:        h.served(events),
	})
}

type periodResponse struct {
	View          calendar.View  `json:"view"`
	Date          string         `json:"date"`
	Label         string         `json:"label"`
	Prev          string         `json:"prev"`
	Next          string         `json:"next"`
	Filter        agenda.Filter  `json:"filter"`
	ActiveFilters int            `json:"active_filters"`
	Stats         agenda.Stats   `json:"stats"`
	Events        []agenda.Event `json:"events"`
}

// Period lists the events of every day in the selected view, with counters
// and navigation targets.
func (h *AgendaHandler) Period(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	aq, err := h.parseQuery(r, snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dates := calendar.PeriodDates(aq.view, aq.date)
	events := agenda.EventsForDates(snap, dates, aq.filter, aq.viewer)
	events = h.overrides.Get(aq.token).Apply(events)

	writeJSON(w, http.StatusOK, periodResponse{
		View:          aq.view,
		Date:          calendar.FormatDate(aq.date),
		Label:         calendar.PeriodLabel(aq.view, aq.date),
		Prev:          calendar.FormatDate(calendar.Shift(aq.view, aq.date, -1)),
		Next:          calendar.FormatDate(calendar.Shift(aq.view, aq.date, 1)),
		Filter:        aq.filter,
		ActiveFilters: aq.filter.Active(),
		Stats:         agenda.PeriodStats(snap, dates, aq.filter, aq.viewer),
		Events:        h.served(events),
	})
}

func (h *AgendaHandler) Years(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]int{
		"years": agenda.AvailableYears(h.data.Snapshot()),
	})
}

type upcomingResponse struct {
	Hearings  []model.Hearing  `json:"hearings"`
	Deadlines []model.Deadline `json:"deadlines"`
}

// Upcoming lists the open hearings and pending deadlines the viewer can see.
func (h *AgendaHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	v := h.viewer(r)
	resp := upcomingResponse{
		Hearings:  agenda.UpcomingHearings(snap, v),
		Deadlines: agenda.PendingDeadlines(snap, v),
	}
	if resp.Hearings == nil {
		resp.Hearings = []model.Hearing{}
	}
	if resp.Deadlines == nil {
		resp.Deadlines = []model.Deadline{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type overrideRequest struct {
	Key  string `json:"key"`
	Time string `json:"time"`
}

// SetOverride changes the displayed time of one event for this session. An
// empty time restores the original.
func (h *AgendaHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req overrideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !agenda.KnownKey(h.data.Snapshot(), req.Key) {
		writeError(w, http.StatusNotFound, "evento não encontrado")
		return
	}
	o, err := h.overrides.Set(ac.Token, req.Key, req.Time)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]agenda.Overrides{"overrides": o})
}

// ExportICS downloads the selected day as an iCalendar file. An empty day
// still yields a valid calendar.
func (h *AgendaHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	aq, err := h.parseQuery(r, snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events := agenda.EventsForDate(snap, aq.date, aq.filter, aq.viewer)
	events = h.overrides.Get(aq.token).Apply(events)

	h.metrics.Export("ics")
	attachment(w, "text/calendar; charset=utf-8", export.ICSFilename(aq.date))
	w.Write([]byte(export.ICS(events, aq.date)))
}

// ExportCSV downloads the events of the selected period. The year view
// exports only the selected day. An empty period is answered with 422.
func (h *AgendaHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	aq, err := h.parseQuery(r, snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dates := calendar.ExportDates(aq.view, aq.date)
	events := agenda.EventsForDates(snap, dates, aq.filter, aq.viewer)
	if len(events) == 0 {
		writeError(w, http.StatusUnprocessableEntity, emptyExport)
		return
	}
	events = h.overrides.Get(aq.token).Apply(events)

	label := calendar.PeriodLabel(aq.view, aq.date)
	h.metrics.Export("csv")
	attachment(w, "text/csv; charset=utf-8", export.CSVFilename(label, h.today()))
	w.Write([]byte(export.CSV(events)))
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
}
