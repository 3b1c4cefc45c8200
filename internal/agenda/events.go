// Package agenda projects hearings, deadlines and tasks into calendar
// events for a day, applying role visibility and the screen filters.
package agenda

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

type Kind string

const (
	KindHearing  Kind = "hearing"
	KindDeadline Kind = "deadline"
	KindTask     Kind = "task"
)

var kindLabels = map[Kind]string{
	KindHearing:  "Audiência",
	KindDeadline: "Prazo",
	KindTask:     "Tarefa",
}

// TypeLabel is the pt-BR display name of an event kind.
func TypeLabel(k Kind) string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// Event is the normalized projection of a hearing, deadline or task. An
// event without Time is all-day.
type Event struct {
	Key          string   `json:"key"`
	Kind         Kind     `json:"kind"`
	Title        string   `json:"title"`
	Time         string   `json:"time,omitempty"`
	Hour         *int     `json:"hour,omitempty"`
	Date         string   `json:"date"`
	EmployeeName string   `json:"employee_name,omitempty"`
	CaseID       string   `json:"case_id,omitempty"`
	CaseNumber   string   `json:"case_number,omitempty"`
	CompanyID    string   `json:"company_id,omitempty"`
	Detail       string   `json:"detail,omitempty"`
	Assignees    []string `json:"assignees,omitempty"`
}

// AllDay reports whether the event has no time of day.
func (e Event) AllDay() bool { return e.Time == "" }

// clock normalizes an HH:MM string. Unparseable values yield an all-day event.
func clock(s string) (string, *int) {
	if s == "" {
		return "", nil
	}
	h, m, err := calendar.ParseClock(s)
	if err != nil {
		return "", nil
	}
	return fmt.Sprintf("%02d:%02d", h, m), &h
}

func companyOf(c *model.Case) string {
	if c == nil {
		return ""
	}
	return c.CompanyID
}

// EventsForDate returns the events on date visible to v under f: hearings
// first, then deadlines, then tasks, each in source order. Callers needing
// chronological order sort the result.
func EventsForDate(snap *model.Snapshot, date time.Time, f Filter, v Viewer) []Event {
	day := calendar.FormatDate(date)
	user := v.name()
	var items []Event

	if f.includes(TypeHearing) {
		for _, h := range snap.Hearings {
			if h.Date != day {
				continue
			}
			c := snap.Case(h.CaseID)
			if c != nil && c.Status == model.CaseClosed {
				continue
			}
			if !caseGate(c, f, user, v.Role) {
				continue
			}
			t, hour := clock(h.Time)
			items = append(items, Event{
				Key:          sourceKey(KindHearing, h.ID),
				Kind:         KindHearing,
				Title:        h.Type,
				Time:         t,
				Hour:         hour,
				Date:         h.Date,
				EmployeeName: h.Employee,
				CaseID:       h.CaseID,
				CaseNumber:   h.CaseNumber,
				CompanyID:    companyOf(c),
				Detail:       h.Court,
			})
		}
	}

	if f.includes(TypeDeadline) {
		for _, d := range snap.Deadlines {
			if d.DueDate != day {
				continue
			}
			if d.Status == model.DeadlineMet {
				continue
			}
			c := snap.Case(d.CaseID)
			if !caseGate(c, f, user, v.Role) {
				continue
			}
			items = append(items, Event{
				Key:          sourceKey(KindDeadline, d.ID),
				Kind:         KindDeadline,
				Title:        d.Title,
				Date:         d.DueDate,
				EmployeeName: d.Employee,
				CaseID:       d.CaseID,
				CaseNumber:   d.CaseNumber,
				CompanyID:    companyOf(c),
			})
		}
	}

	if f.includes(TypeTask) {
		for _, task := range snap.Tasks {
			if !task.ShowInCalendar {
				continue
			}
			dueDay, dueClock := calendar.SplitDueAt(task.DueAt)
			if dueDay != day {
				continue
			}
			if task.Status == model.TaskDone {
				continue
			}
			var c *model.Case
			if task.CaseID != "" {
				c = snap.Case(task.CaseID)
			}
			if !taskVisible(task, c, user, v.Role) {
				continue
			}
			if c != nil && f.companyMismatch(c.CompanyID) {
				continue
			}
			if f.Assignment == AssignmentMine && !task.HasAssignee(user) {
				continue
			}
			t, hour := clock(dueClock)
			items = append(items, Event{
				Key:          sourceKey(KindTask, task.ID),
				Kind:         KindTask,
				Title:        task.Title,
				Time:         t,
				Hour:         hour,
				Date:         day,
				EmployeeName: task.Employee,
				CaseID:       task.CaseID,
				CaseNumber:   task.CaseNumber,
				CompanyID:    companyOf(c),
				Assignees:    append([]string(nil), task.Assignees...),
			})
		}
	}

	return items
}

// caseGate applies the visibility, company and assignment checks shared by
// hearings and deadlines, all of which are decided by the owning case.
func caseGate(c *model.Case, f Filter, user string, role access.Role) bool {
	if !access.CanSeeCase(c, user, role) {
		return false
	}
	if f.companyMismatch(companyOf(c)) {
		return false
	}
	if f.Assignment == AssignmentMine && (c == nil || c.Responsible != user) {
		return false
	}
	return true
}

// taskVisible: sector-only roles see a task only as assignees; other roles
// see it through its case or as assignees. A task without a case passes the
// case check.
func taskVisible(t model.Task, c *model.Case, user string, role access.Role) bool {
	assignee := t.HasAssignee(user)
	if access.SectorOnly(role) {
		return assignee
	}
	caseVisible := true
	if c != nil {
		caseVisible = access.CanSeeCase(c, user, role)
	}
	return caseVisible || assignee
}

// EventsForDates concatenates EventsForDate over dates, in date order.
func EventsForDates(snap *model.Snapshot, dates []time.Time, f Filter, v Viewer) []Event {
	var out []Event
	for _, d := range dates {
		out = append(out, EventsForDate(snap, d, f, v)...)
	}
	return out
}

// SortByTime orders events in place: all-day events first, then by time of
// day. Ties keep their aggregation order.
func SortByTime(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return strings.Compare(a.Time, b.Time)
	})
}
