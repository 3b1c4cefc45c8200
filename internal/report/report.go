// Package report computes the dashboard statistics over a snapshot,
// optionally restricted to one company.
package report

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

// AllCompanies disables the company filter.
const AllCompanies = "all"

type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type KPIs struct {
	SLAMet               int `json:"sla_met"`
	SLATotal             int `json:"sla_total"`
	SLAPercent           int `json:"sla_percent"`
	CriticalAlerts       int `json:"critical_alerts"`
	OverdueTasks         int `json:"overdue_tasks"`
	EvidenceTotal        int `json:"evidence_total"`
	EvidenceValidated    int `json:"evidence_validated"`
	OverdueRequests      int `json:"overdue_requests"`
	PendingDeadlines     int `json:"pending_deadlines"`
	Downloads            int `json:"downloads"`
	WatermarkedDownloads int `json:"watermarked_downloads"`
}

type CompanyLoad struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cases int    `json:"cases"`
	Tasks int    `json:"tasks"`
}

type ConfidentialityShare struct {
	Level   model.Confidentiality `json:"level"`
	Label   string                `json:"label"`
	Count   int                   `json:"count"`
	Percent int                   `json:"percent"`
}

type AssigneeLoad struct {
	Name    string `json:"name"`
	Done    int    `json:"done"`
	Pending int    `json:"pending"`
}

type MonthPoint struct {
	Month  string `json:"month"`
	New    int    `json:"new"`
	Closed int    `json:"closed"`
	SLA    int    `json:"sla"`
}

type HealthMetric struct {
	Metric string `json:"metric"`
	Value  int    `json:"value"`
}

type Report struct {
	Company         string                 `json:"company"`
	KPIs            KPIs                   `json:"kpis"`
	Status          []Slice                `json:"status"`
	Themes          []Slice                `json:"themes"`
	Companies       []CompanyLoad          `json:"companies"`
	Confidentiality []ConfidentialityShare `json:"confidentiality"`
	RequestStatus   []Slice                `json:"request_status"`
	Categories      []Slice                `json:"categories"`
	Assignees       []AssigneeLoad         `json:"assignees"`
	Monthly         []MonthPoint           `json:"monthly"`
	Health          []HealthMetric         `json:"health"`
}

// scope is the part of the snapshot that belongs to the selected company.
type scope struct {
	cases     []model.Case
	ids       map[string]bool
	requests  []model.EvidenceRequest
	items     []model.EvidenceItem
	alerts    []model.Alert
	tasks     []model.Task
	deadlines []model.Deadline
	downloads []model.DownloadLog
}

func newScope(snap *model.Snapshot, company string) scope {
	var s scope
	s.ids = make(map[string]bool)
	for _, c := range snap.Cases {
		if company == AllCompanies || company == "" || c.CompanyID == company {
			s.cases = append(s.cases, c)
			s.ids[c.ID] = true
		}
	}
	for _, r := range snap.EvidenceRequests {
		if s.ids[r.CaseID] {
			s.requests = append(s.requests, r)
		}
	}
	for _, i := range snap.EvidenceItems {
		if s.ids[i.CaseID] {
			s.items = append(s.items, i)
		}
	}
	for _, a := range snap.Alerts {
		if s.ids[a.CaseID] {
			s.alerts = append(s.alerts, a)
		}
	}
	for _, d := range snap.Deadlines {
		if s.ids[d.CaseID] {
			s.deadlines = append(s.deadlines, d)
		}
	}
	for _, d := range snap.DownloadLogs {
		if s.ids[d.CaseID] {
			s.downloads = append(s.downloads, d)
		}
	}
	// Tasks without a case belong to every company.
	for _, t := range snap.Tasks {
		if t.CaseID == "" || s.ids[t.CaseID] {
			s.tasks = append(s.tasks, t)
		}
	}
	return s
}

// percent rounds n/d to the nearest integer percentage, or returns def
// when d is zero.
func percent(n, d, def int) int {
	if d == 0 {
		return def
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

// Build computes every statistic for company ("all" or empty for every
// company). now decides which tasks are overdue and which months the
// evolution chart covers.
func Build(snap *model.Snapshot, company string, now time.Time) Report {
	if company == "" {
		company = AllCompanies
	}
	s := newScope(snap, company)
	r := Report{
		Company:         company,
		KPIs:            kpis(s, now),
		Status:          statusDistribution(s.cases),
		Themes:          themeDistribution(s.cases),
		Companies:       companyLoads(snap),
		Confidentiality: confidentiality(s.cases),
		RequestStatus:   requestStatus(s.requests),
		Categories:      categories(s.items),
		Assignees:       assigneeLoads(s.tasks),
		Monthly:         monthly(s, now),
	}
	r.Health = health(s, r.KPIs.SLAPercent)
	return r
}

func kpis(s scope, now time.Time) KPIs {
	var k KPIs
	k.SLATotal = len(s.requests)
	for _, r := range s.requests {
		switch r.Status {
		case model.EvidenceRequestMet:
			k.SLAMet++
		case model.EvidenceRequestOverdue:
			k.OverdueRequests++
		}
	}
	k.SLAPercent = percent(k.SLAMet, k.SLATotal, 0)
	for _, a := range s.alerts {
		if a.Severity == model.AlertUrgent && !a.Treated {
			k.CriticalAlerts++
		}
	}
	for _, t := range s.tasks {
		if t.Status == model.TaskDone || !s.ids[t.CaseID] {
			continue
		}
		if due, ok := dueTime(t.DueAt, now.Location()); ok && due.Before(now) {
			k.OverdueTasks++
		}
	}
	k.EvidenceTotal = len(s.items)
	for _, i := range s.items {
		if i.Status == model.EvidenceValidated {
			k.EvidenceValidated++
		}
	}
	for _, d := range s.deadlines {
		if d.Status == model.DeadlinePending {
			k.PendingDeadlines++
		}
	}
	k.Downloads = len(s.downloads)
	for _, d := range s.downloads {
		if d.Watermarked {
			k.WatermarkedDownloads++
		}
	}
	return k
}

// dueTime resolves a task due value in loc. All-day values fall at midnight.
func dueTime(dueAt string, loc *time.Location) (time.Time, bool) {
	date, clock := calendar.SplitDueAt(dueAt)
	t, err := calendar.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, false
	}
	if clock != "" {
		h, m, err := calendar.ParseClock(clock)
		if err != nil {
			return time.Time{}, false
		}
		t = t.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	return t, true
}

func statusDistribution(cases []model.Case) []Slice {
	var out []Slice
	for _, st := range model.CaseStatuses {
		n := 0
		for _, c := range cases {
			if c.Status == st {
				n++
			}
		}
		if n > 0 {
			out = append(out, Slice{Name: model.CaseStatusLabels[st], Value: n})
		}
	}
	return out
}

// countDesc turns a tally into slices ordered by count, then name.
func countDesc(counts map[string]int) []Slice {
	out := make([]Slice, 0, len(counts))
	for name, n := range counts {
		out = append(out, Slice{Name: name, Value: n})
	}
	slices.SortFunc(out, func(a, b Slice) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func themeDistribution(cases []model.Case) []Slice {
	counts := make(map[string]int)
	for _, c := range cases {
		counts[c.Theme]++
	}
	return countDesc(counts)
}

// companyLoads always covers every company; companies with neither cases
// nor tasks are omitted.
func companyLoads(snap *model.Snapshot) []CompanyLoad {
	var out []CompanyLoad
	for _, co := range snap.Companies {
		l := CompanyLoad{ID: co.ID, Name: co.Name}
		for _, c := range snap.Cases {
			if c.CompanyID == co.ID {
				l.Cases++
			}
		}
		for _, t := range snap.Tasks {
			if c := snap.Case(t.CaseID); c != nil && c.CompanyID == co.ID {
				l.Tasks++
			}
		}
		if l.Cases > 0 || l.Tasks > 0 {
			out = append(out, l)
		}
	}
	return out
}

func confidentiality(cases []model.Case) []ConfidentialityShare {
	out := make([]ConfidentialityShare, 0, len(model.ConfidentialityLevels))
	for _, level := range model.ConfidentialityLevels {
		n := 0
		for _, c := range cases {
			if c.Confidentiality == level {
				n++
			}
		}
		out = append(out, ConfidentialityShare{
			Level:   level,
			Label:   model.ConfidentialityLabels[level],
			Count:   n,
			Percent: percent(n, len(cases), 0),
		})
	}
	return out
}

func requestStatus(requests []model.EvidenceRequest) []Slice {
	var out []Slice
	for _, st := range model.EvidenceRequestStatuses {
		n := 0
		for _, r := range requests {
			if r.Status == st {
				n++
			}
		}
		if n > 0 {
			out = append(out, Slice{Name: model.EvidenceRequestStatusLabels[st], Value: n})
		}
	}
	return out
}

func categories(items []model.EvidenceItem) []Slice {
	counts := make(map[string]int)
	for _, i := range items {
		counts[strings.ReplaceAll(i.Category, "_", " ")]++
	}
	return countDesc(counts)
}

// assigneeLoads counts each assignee's done and open tasks, busiest first.
// Names are shortened to the first word.
func assigneeLoads(tasks []model.Task) []AssigneeLoad {
	type tally struct {
		name          string
		done, pending int
	}
	byName := make(map[string]*tally)
	for _, t := range tasks {
		for _, a := range t.Assignees {
			c, ok := byName[a]
			if !ok {
				c = &tally{name: a}
				byName[a] = c
			}
			if t.Status == model.TaskDone {
				c.done++
			} else {
				c.pending++
			}
		}
	}
	all := make([]*tally, 0, len(byName))
	for _, c := range byName {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b *tally) int {
		if c := cmp.Compare(b.done+b.pending, a.done+a.pending); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	out := make([]AssigneeLoad, len(all))
	for i, c := range all {
		name := c.name
		if f := strings.Fields(name); len(f) > 0 {
			name = f[0]
		}
		out[i] = AssigneeLoad{Name: name, Done: c.done, Pending: c.pending}
	}
	return out
}

func health(s scope, slaPercent int) []HealthMetric {
	treated := 0
	for _, a := range s.alerts {
		if a.Treated {
			treated++
		}
	}
	done := 0
	for _, t := range s.tasks {
		if t.Status == model.TaskDone {
			done++
		}
	}
	validated := 0
	for _, i := range s.items {
		if i.Status == model.EvidenceValidated {
			validated++
		}
	}
	met := 0
	for _, d := range s.deadlines {
		if d.Status == model.DeadlineMet {
			met++
		}
	}
	sla := slaPercent
	if len(s.requests) == 0 {
		sla = 100
	}
	return []HealthMetric{
		{Metric: "SLA Provas", Value: sla},
		{Metric: "Alertas Tratados", Value: percent(treated, len(s.alerts), 100)},
		{Metric: "Tarefas Concluídas", Value: percent(done, len(s.tasks), 100)},
		{Metric: "Provas Validadas", Value: percent(validated, len(s.items), 100)},
		{Metric: "Prazos Cumpridos", Value: percent(met, len(s.deadlines), 100)},
	}
}
