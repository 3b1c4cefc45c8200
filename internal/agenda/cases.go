package agenda

import (
	"strings"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/model"
)

type CaseCounts struct {
	Hearings         int `json:"hearings"`
	Deadlines        int `json:"deadlines"`
	Tasks            int `json:"tasks"`
	EvidenceRequests int `json:"evidence_requests"`
	EvidenceItems    int `json:"evidence_items"`
}

// CaseDetail is a case with every record that points at it.
type CaseDetail struct {
	Case             model.Case              `json:"case"`
	Hearings         []model.Hearing         `json:"hearings"`
	Deadlines        []model.Deadline        `json:"deadlines"`
	Tasks            []model.Task            `json:"tasks"`
	EvidenceRequests []model.EvidenceRequest `json:"evidence_requests"`
	EvidenceItems    []model.EvidenceItem    `json:"evidence_items"`
	Counts           CaseCounts              `json:"counts"`
}

// DetailForCase returns the case id with its related records, or nil when
// the case does not exist or v may not see it. Tasks follow the agenda task
// rule, so sector-only roles get only the tasks assigned to them.
func DetailForCase(snap *model.Snapshot, id string, v Viewer) *CaseDetail {
	c := snap.Case(id)
	user := v.name()
	if !access.CanSeeCase(c, user, v.Role) {
		return nil
	}

	d := &CaseDetail{
		Case:             *c,
		Hearings:         []model.Hearing{},
		Deadlines:        []model.Deadline{},
		Tasks:            []model.Task{},
		EvidenceRequests: []model.EvidenceRequest{},
		EvidenceItems:    []model.EvidenceItem{},
	}
	for _, h := range snap.Hearings {
		if h.CaseID == id {
			d.Hearings = append(d.Hearings, h)
		}
	}
	for _, dl := range snap.Deadlines {
		if dl.CaseID == id {
			d.Deadlines = append(d.Deadlines, dl)
		}
	}
	for _, t := range snap.Tasks {
		if t.CaseID == id && taskVisible(t, c, user, v.Role) {
			d.Tasks = append(d.Tasks, t)
		}
	}
	for _, r := range snap.EvidenceRequests {
		if r.CaseID == id {
			d.EvidenceRequests = append(d.EvidenceRequests, r)
		}
	}
	for _, e := range snap.EvidenceItems {
		if e.CaseID == id {
			d.EvidenceItems = append(d.EvidenceItems, e)
		}
	}
	d.Counts = CaseCounts{
		Hearings:         len(d.Hearings),
		Deadlines:        len(d.Deadlines),
		Tasks:            len(d.Tasks),
		EvidenceRequests: len(d.EvidenceRequests),
		EvidenceItems:    len(d.EvidenceItems),
	}
	return d
}

// SearchCases lists the cases visible to v whose number, employee or theme
// contains q, ignoring case. An empty q matches every visible case.
func SearchCases(snap *model.Snapshot, q string, v Viewer) []model.Case {
	user := v.name()
	q = strings.ToLower(strings.TrimSpace(q))
	out := []model.Case{}
	for i := range snap.Cases {
		c := &snap.Cases[i]
		if !access.CanSeeCase(c, user, v.Role) {
			continue
		}
		if q != "" && !caseMatches(c, q) {
			continue
		}
		out = append(out, *c)
	}
	return out
}

func caseMatches(c *model.Case, q string) bool {
	for _, f := range []string{c.CaseNumber, c.Employee, c.Theme} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
