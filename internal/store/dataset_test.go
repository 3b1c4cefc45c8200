package store

import (
	"context"
	"testing"

	"github.com/dukerupert/siag/internal/database"
	"github.com/dukerupert/siag/internal/model"
)

func setupDatasetTestDB(t *testing.T) *DatasetStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDatasetStore(db)
}

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Companies: []model.Company{{ID: "B", Name: "Beta"}, {ID: "A", Name: "Alfa"}},
		Cases: []model.Case{
			{ID: "c1", Employee: "Maria", CaseNumber: "0001", Responsible: "Thiago", ResponsibleSector: model.SectorHR,
				CompanyID: "A", Status: model.CaseInProgress, Confidentiality: model.ConfidentialityRestricted, Theme: "Horas extras"},
		},
		Hearings:  []model.Hearing{{ID: "h1", CaseID: "c1", Date: "2025-03-10", Time: "14:00", Type: "Inicial"}},
		Deadlines: []model.Deadline{{ID: "d1", CaseID: "c1", DueDate: "2025-03-12", Title: "Contestação", Status: model.DeadlinePending}},
		Tasks: []model.Task{
			{ID: "t1", CaseID: "c1", DueAt: "2025-03-10T09:00", Title: "Docs", Status: model.TaskPending,
				Assignees: []string{"Thiago", "Ana", "Bruno"}, ShowInCalendar: true},
			{ID: "t2", DueAt: "2025-03-11", Title: "Pauta", Status: model.TaskDone, Assignees: []string{"Ana"}},
		},
		EvidenceRequests: []model.EvidenceRequest{{ID: "r1", CaseID: "c1", Status: model.EvidenceRequestMet, RequestedAt: "2025-02-01"}},
		EvidenceItems:    []model.EvidenceItem{{ID: "e1", CaseID: "c1", Category: "holerite", Status: model.EvidenceValidated}},
		Alerts:           []model.Alert{{ID: "a1", CaseID: "c1", Severity: model.AlertUrgent, Treated: true}},
		DownloadLogs:     []model.DownloadLog{{ID: "l1", CaseID: "c1", User: "Ana", Watermarked: true}},
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	ds := setupDatasetTestDB(t)
	ctx := context.Background()

	if err := ds.Replace(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	snap, err := ds.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if len(snap.Companies) != 2 || snap.Companies[0].ID != "B" {
		t.Errorf("companies = %+v, want insertion order", snap.Companies)
	}
	c := snap.Case("c1")
	if c == nil {
		t.Fatal("case c1 not indexed")
	}
	if c.ResponsibleSector != model.SectorHR || c.Confidentiality != model.ConfidentialityRestricted {
		t.Errorf("case = %+v", c)
	}
	if len(snap.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(snap.Tasks))
	}
	t1 := snap.Tasks[0]
	if !t1.ShowInCalendar || len(t1.Assignees) != 3 || t1.Assignees[2] != "Bruno" {
		t.Errorf("t1 = %+v", t1)
	}
	if snap.Tasks[1].CaseID != "" {
		t.Errorf("t2 case = %q, want empty", snap.Tasks[1].CaseID)
	}
	if !snap.Alerts[0].Treated || !snap.DownloadLogs[0].Watermarked {
		t.Error("boolean columns not restored")
	}
	if snap.EvidenceItems[0].Status != model.EvidenceValidated {
		t.Errorf("evidence item = %+v", snap.EvidenceItems[0])
	}
}

func TestDatasetReplaceClearsPrevious(t *testing.T) {
	ds := setupDatasetTestDB(t)
	ctx := context.Background()

	if err := ds.Replace(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := ds.Replace(ctx, &model.Snapshot{Companies: []model.Company{{ID: "X", Name: "Xis"}}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	snap, err := ds.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Cases) != 0 || len(snap.Tasks) != 0 || len(snap.Companies) != 1 {
		t.Errorf("old data survived: %d cases, %d tasks, %d companies", len(snap.Cases), len(snap.Tasks), len(snap.Companies))
	}
}

func TestDatasetRejectsDanglingCase(t *testing.T) {
	ds := setupDatasetTestDB(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	snap.Hearings[0].CaseID = "missing"
	if err := ds.Replace(ctx, snap); err == nil {
		t.Fatal("expected foreign key error, got nil")
	}

	got, err := ds.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got.Companies) != 0 {
		t.Error("failed replace left partial data")
	}
}
