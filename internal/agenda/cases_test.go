package agenda

import (
	"testing"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/model"
)

func TestDetailForCase(t *testing.T) {
	snap := testSnapshot()
	snap.EvidenceRequests = []model.EvidenceRequest{{ID: "r1", CaseID: "c1"}, {ID: "r2", CaseID: "c2"}}
	snap.EvidenceItems = []model.EvidenceItem{{ID: "e1", CaseID: "c1"}, {ID: "e2", CaseID: "c1"}}

	d := DetailForCase(snap, "c1", Viewer{Name: "Thiago", Role: access.RoleAdmin})
	if d == nil {
		t.Fatal("detail = nil")
	}
	want := CaseCounts{Hearings: 2, Deadlines: 1, Tasks: 2, EvidenceRequests: 1, EvidenceItems: 2}
	if d.Counts != want {
		t.Errorf("counts = %+v, want %+v", d.Counts, want)
	}
	if d.Case.ID != "c1" {
		t.Errorf("case = %q", d.Case.ID)
	}

	if d := DetailForCase(snap, "missing", Viewer{Name: "Thiago", Role: access.RoleAdmin}); d != nil {
		t.Errorf("unknown case returned %+v", d)
	}
	if d := DetailForCase(snap, "c1", Viewer{Name: "Ana", Role: access.RoleSales}); d != nil {
		t.Error("sales viewer saw a legal case")
	}
	if d := DetailForCase(snap, "c1", Viewer{Name: "Dr. Costa", Role: access.RoleExternalLawyer}); d != nil {
		t.Error("lawyer saw a case of another lawyer")
	}
}

func TestDetailForCaseSectorTasks(t *testing.T) {
	snap := testSnapshot()
	snap.Tasks = append(snap.Tasks, model.Task{ID: "t9", CaseID: "c2", Title: "Outra", Assignees: []string{"Bia"}})

	d := DetailForCase(snap, "c2", Viewer{Name: "Ana", Role: access.RoleSales})
	if d == nil {
		t.Fatal("sales viewer refused its own sector case")
	}
	if len(d.Tasks) != 1 || d.Tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v, want only t1", d.Tasks)
	}
}

func TestSearchCases(t *testing.T) {
	snap := testSnapshot()
	admin := Viewer{Name: "Thiago", Role: access.RoleAdmin}

	tests := []struct {
		q    string
		v    Viewer
		want []string
	}{
		{"", admin, []string{"c1", "c2", "c3"}},
		{"maria", admin, []string{"c1"}},
		{"000", admin, []string{"c1", "c2", "c3"}},
		{" 0002 ", admin, []string{"c2"}},
		{"", Viewer{Name: "Ana", Role: access.RoleSales}, []string{"c2"}},
		{"maria", Viewer{Name: "Ana", Role: access.RoleSales}, []string{}},
		{"", Viewer{Name: "Dr. Lima", Role: access.RoleExternalLawyer}, []string{"c1"}},
	}
	for _, tt := range tests {
		got := SearchCases(snap, tt.q, tt.v)
		ids := make([]string, len(got))
		for i, c := range got {
			ids[i] = c.ID
		}
		if !equal(ids, tt.want) {
			t.Errorf("SearchCases(%q, %s) = %v, want %v", tt.q, tt.v.Role, ids, tt.want)
		}
	}
}

func TestSearchCasesTheme(t *testing.T) {
	snap := testSnapshot()
	snap.Cases[1].Theme = "Horas Extras"
	got := SearchCases(snap, "horas", Viewer{Name: "Thiago", Role: access.RoleAdmin})
	if len(got) != 1 || got[0].ID != "c2" {
		t.Errorf("got %+v, want c2", got)
	}
}
