package fixtures

import (
	"errors"
	"fmt"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

var (
	// ErrDanglingCase marks a record whose case_id names no case.
	ErrDanglingCase = errors.New("unknown case")

	// ErrInvalidTime marks a malformed date or HH:MM time.
	ErrInvalidTime = errors.New("invalid date or time")

	ErrDuplicateID  = errors.New("duplicate id")
	ErrInvalidValue = errors.New("invalid value")
)

type validator struct {
	errs []error
}

func (v *validator) add(err error, format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
}

func (v *validator) unique(kind string, seen map[string]bool, id string) {
	if id == "" {
		v.add(ErrInvalidValue, "%s with empty id", kind)
		return
	}
	if seen[id] {
		v.add(ErrDuplicateID, "%s %s", kind, id)
	}
	seen[id] = true
}

func (v *validator) date(kind, id, value string) {
	if _, err := calendar.ParseDate(value, nil); err != nil {
		v.add(ErrInvalidTime, "%s %s date %q", kind, id, value)
	}
}

func (v *validator) caseRef(kind, id, caseID string, cases map[string]bool) {
	if !cases[caseID] {
		v.add(ErrDanglingCase, "%s %s case %q", kind, id, caseID)
	}
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate checks ids, enumerations, dates and times, and that every
// case_id and company_id resolves. All problems are reported together.
func Validate(d *Dataset) error {
	var v validator

	companies := make(map[string]bool)
	for _, c := range d.Companies {
		v.unique("company", companies, c.ID)
	}

	names := make(map[string]bool)
	for _, u := range d.Users {
		v.unique("user", names, u.Name)
		if r, err := access.ParseRole(u.Role); err != nil || r == access.RoleUnknown {
			v.add(ErrInvalidValue, "user %s role %q", u.Name, u.Role)
		}
	}

	cases := make(map[string]bool)
	for _, c := range d.Cases {
		v.unique("case", cases, c.ID)
		if !companies[c.CompanyID] {
			v.add(ErrInvalidValue, "case %s company %q", c.ID, c.CompanyID)
		}
		if !oneOf(c.Status, model.CaseStatuses...) {
			v.add(ErrInvalidValue, "case %s status %q", c.ID, c.Status)
		}
		if !oneOf(c.Confidentiality, model.ConfidentialityLevels...) {
			v.add(ErrInvalidValue, "case %s confidentiality %q", c.ID, c.Confidentiality)
		}
		if !oneOf(c.ResponsibleSector, model.SectorLegal, model.SectorHR, model.SectorPayroll,
			model.SectorSales, model.SectorLogistics, model.SectorFleet, model.SectorNone) {
			v.add(ErrInvalidValue, "case %s sector %q", c.ID, c.ResponsibleSector)
		}
		if c.FiledAt != "" {
			v.date("case", c.ID, c.FiledAt)
		}
		if c.ClosedAt != "" {
			v.date("case", c.ID, c.ClosedAt)
		}
	}

	seen := make(map[string]bool)
	for _, h := range d.Hearings {
		v.unique("hearing", seen, h.ID)
		v.caseRef("hearing", h.ID, h.CaseID, cases)
		v.date("hearing", h.ID, h.Date)
		if h.Time != "" {
			if _, _, err := calendar.ParseClock(h.Time); err != nil {
				v.add(ErrInvalidTime, "hearing %s time %q", h.ID, h.Time)
			}
		}
	}

	seen = make(map[string]bool)
	for _, dl := range d.Deadlines {
		v.unique("deadline", seen, dl.ID)
		v.caseRef("deadline", dl.ID, dl.CaseID, cases)
		v.date("deadline", dl.ID, dl.DueDate)
		if !oneOf(dl.Status, model.DeadlinePending, model.DeadlineMet) {
			v.add(ErrInvalidValue, "deadline %s status %q", dl.ID, dl.Status)
		}
	}

	seen = make(map[string]bool)
	for _, t := range d.Tasks {
		v.unique("task", seen, t.ID)
		if t.CaseID != "" {
			v.caseRef("task", t.ID, t.CaseID, cases)
		}
		date, clock := calendar.SplitDueAt(t.DueAt)
		v.date("task", t.ID, date)
		if clock != "" {
			if _, _, err := calendar.ParseClock(clock); err != nil {
				v.add(ErrInvalidTime, "task %s time %q", t.ID, clock)
			}
		}
		if !oneOf(t.Status, model.TaskPending, model.TaskInProgress, model.TaskDone) {
			v.add(ErrInvalidValue, "task %s status %q", t.ID, t.Status)
		}
		if t.ShowInCalendar && len(t.Assignees) == 0 {
			v.add(ErrInvalidValue, "task %s is shown in the calendar without assignees", t.ID)
		}
	}

	seen = make(map[string]bool)
	for _, r := range d.EvidenceRequests {
		v.unique("evidence request", seen, r.ID)
		v.caseRef("evidence request", r.ID, r.CaseID, cases)
		if !oneOf(r.Status, model.EvidenceRequestStatuses...) {
			v.add(ErrInvalidValue, "evidence request %s status %q", r.ID, r.Status)
		}
	}

	seen = make(map[string]bool)
	for _, i := range d.EvidenceItems {
		v.unique("evidence item", seen, i.ID)
		v.caseRef("evidence item", i.ID, i.CaseID, cases)
		if !oneOf(i.Status, model.EvidencePending, model.EvidenceValidated, model.EvidenceRejected) {
			v.add(ErrInvalidValue, "evidence item %s status %q", i.ID, i.Status)
		}
	}

	seen = make(map[string]bool)
	for _, a := range d.Alerts {
		v.unique("alert", seen, a.ID)
		v.caseRef("alert", a.ID, a.CaseID, cases)
		if !oneOf(a.Severity, model.AlertUrgent, model.AlertHigh, model.AlertNormal) {
			v.add(ErrInvalidValue, "alert %s severity %q", a.ID, a.Severity)
		}
	}

	seen = make(map[string]bool)
	for _, l := range d.DownloadLogs {
		v.unique("download log", seen, l.ID)
		v.caseRef("download log", l.ID, l.CaseID, cases)
	}

	if len(v.errs) > 0 {
		return fmt.Errorf("validate fixtures: %w", errors.Join(v.errs...))
	}
	return nil
}
