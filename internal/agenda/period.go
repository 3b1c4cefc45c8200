package agenda

import (
	"slices"
	"strconv"
	"time"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

// PeriodEvents returns the events of every day the view covers around date.
func PeriodEvents(snap *model.Snapshot, view calendar.View, date time.Time, f Filter, v Viewer) []Event {
	return EventsForDates(snap, calendar.PeriodDates(view, date), f, v)
}

// Stats counts events by kind.
type Stats struct {
	Hearings  int `json:"hearings"`
	Deadlines int `json:"deadlines"`
	Tasks     int `json:"tasks"`
	Total     int `json:"total"`
}

func (s *Stats) add(e Event) {
	switch e.Kind {
	case KindHearing:
		s.Hearings++
	case KindDeadline:
		s.Deadlines++
	case KindTask:
		s.Tasks++
	}
	s.Total++
}

// PeriodStats counts the events over dates. The type filter is ignored so
// the counters always show every kind.
func PeriodStats(snap *model.Snapshot, dates []time.Time, f Filter, v Viewer) Stats {
	f.Type = TypeAll
	var s Stats
	for _, e := range EventsForDates(snap, dates, f, v) {
		s.add(e)
	}
	return s
}

// baseYears are always offered by the year picker.
var baseYears = []int{2025, 2026, 2027}

// AvailableYears lists, ascending, the years that appear in hearing, deadline
// or task dates together with the base years.
func AvailableYears(snap *model.Snapshot) []int {
	seen := make(map[int]bool)
	for _, y := range baseYears {
		seen[y] = true
	}
	add := func(date string) {
		if len(date) < 4 {
			return
		}
		if y, err := strconv.Atoi(date[:4]); err == nil {
			seen[y] = true
		}
	}
	for _, h := range snap.Hearings {
		add(h.Date)
	}
	for _, d := range snap.Deadlines {
		add(d.DueDate)
	}
	for _, t := range snap.Tasks {
		add(t.DueAt)
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// UpcomingHearings lists the hearings of open cases visible to v, in
// source order.
func UpcomingHearings(snap *model.Snapshot, v Viewer) []model.Hearing {
	user := v.name()
	var out []model.Hearing
	for _, h := range snap.Hearings {
		c := snap.Case(h.CaseID)
		if c != nil && c.Status == model.CaseClosed {
			continue
		}
		if !access.CanSeeCase(c, user, v.Role) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// PendingDeadlines lists the deadlines not yet met that are visible to v.
func PendingDeadlines(snap *model.Snapshot, v Viewer) []model.Deadline {
	user := v.name()
	var out []model.Deadline
	for _, d := range snap.Deadlines {
		if d.Status != model.DeadlinePending {
			continue
		}
		if !access.CanSeeCase(snap.Case(d.CaseID), user, v.Role) {
			continue
		}
		out = append(out, d)
	}
	return out
}
