package agenda

import (
	"fmt"

	"github.com/dukerupert/siag/internal/access"
)

type TypeFilter string

const (
	TypeAll      TypeFilter = "all"
	TypeHearing  TypeFilter = "hearing"
	TypeDeadline TypeFilter = "deadline"
	TypeTask     TypeFilter = "task"
)

type AssignmentFilter string

const (
	AssignmentAll  AssignmentFilter = "all"
	AssignmentMine AssignmentFilter = "mine"
)

// AllCompanies disables the company filter.
const AllCompanies = "all"

// FallbackUser is the identity used when no user name is supplied.
const FallbackUser = "Thiago"

// Filter narrows the events returned for a date.
type Filter struct {
	Type       TypeFilter       `json:"type"`
	Assignment AssignmentFilter `json:"assignment"`
	Company    string           `json:"company"`
}

// AllFilter selects every event.
var AllFilter = Filter{Type: TypeAll, Assignment: AssignmentAll, Company: AllCompanies}

// ParseFilter validates query values. Empty values mean "all".
func ParseFilter(typ, assignment, company string) (Filter, error) {
	f := AllFilter
	switch t := TypeFilter(typ); t {
	case "":
	case TypeAll, TypeHearing, TypeDeadline, TypeTask:
		f.Type = t
	default:
		return Filter{}, fmt.Errorf("unknown type filter %q", typ)
	}
	switch a := AssignmentFilter(assignment); a {
	case "":
	case AssignmentAll, AssignmentMine:
		f.Assignment = a
	default:
		return Filter{}, fmt.Errorf("unknown assignment filter %q", assignment)
	}
	if company != "" {
		f.Company = company
	}
	return f, nil
}

func (f Filter) includes(t TypeFilter) bool {
	return f.Type == TypeAll || f.Type == t
}

func (f Filter) companyMismatch(companyID string) bool {
	return f.Company != AllCompanies && companyID != f.Company
}

// Active counts the filters that differ from their default.
func (f Filter) Active() int {
	n := 0
	if f.Type != TypeAll {
		n++
	}
	if f.Assignment != AssignmentAll {
		n++
	}
	if f.Company != AllCompanies {
		n++
	}
	return n
}

// Viewer is the user on whose behalf events are selected.
type Viewer struct {
	Name string      `json:"name"`
	Role access.Role `json:"role"`
}

func (v Viewer) name() string {
	if v.Name == "" {
		return FallbackUser
	}
	return v.Name
}

// DefaultAssignment is the initial assignment filter for a role: admins
// start with every assignment, everyone else with their own.
func DefaultAssignment(role access.Role) AssignmentFilter {
	if role == access.RoleAdmin || role == access.RoleInternalLegalLead {
		return AssignmentAll
	}
	return AssignmentMine
}
