package agenda

import (
	"errors"
	"testing"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

func TestOverridesApply(t *testing.T) {
	snap := testSnapshot()
	events := EventsForDate(snap, march10, AllFilter, Viewer{Name: "Thiago", Role: access.RoleAdmin})

	o := NewOverrides()
	if err := o.Set(events[2].Key, "16:45"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := o.Apply(events)
	if got[2].Time != "16:45" || got[2].Hour == nil || *got[2].Hour != 16 {
		t.Errorf("override not applied: time=%q hour=%v", got[2].Time, got[2].Hour)
	}
	if events[2].Time != "" {
		t.Error("Apply modified its input")
	}
	if got[0].Time != events[0].Time {
		t.Error("unrelated event changed")
	}
}

func TestOverridesSetInvalid(t *testing.T) {
	o := NewOverrides()
	err := o.Set("k", "25:00")
	if !errors.Is(err, calendar.ErrInvalidClock) {
		t.Errorf("err = %v, want ErrInvalidClock", err)
	}
	if err := o.Set("", "10:00"); err == nil {
		t.Error("expected error for empty key")
	}
	if len(o) != 0 {
		t.Errorf("invalid sets stored %d overrides", len(o))
	}
}

func TestOverridesSetEmptyRemoves(t *testing.T) {
	o := NewOverrides()
	_ = o.Set("k", "10:00")
	if err := o.Set("k", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := o["k"]; ok {
		t.Error("override still present")
	}
}

func TestKeyStable(t *testing.T) {
	snap := testSnapshot()
	v := Viewer{Name: "Thiago", Role: access.RoleAdmin}
	a := EventsForDate(snap, march10, AllFilter, v)
	b := EventsForDate(snap, march10, AllFilter, v)
	for i := range a {
		if a[i].Key != b[i].Key {
			t.Errorf("key %d differs between queries", i)
		}
	}
	if a[0].Key == a[1].Key {
		t.Error("distinct events share a key")
	}
}

func TestKeyFromSourceRecord(t *testing.T) {
	snap := testSnapshot()
	snap.Tasks = append(snap.Tasks, model.Task{ID: "t5", DueAt: "2025-03-10T15:00", Title: "Revisar pauta", Status: model.TaskPending, Assignees: []string{"Thiago"}, ShowInCalendar: true})
	events := EventsForDate(snap, march10, AllFilter, Viewer{Name: "Thiago", Role: access.RoleAdmin})

	keys := map[string]string{}
	for _, e := range events {
		if e.Title == "Revisar pauta" {
			keys[e.Key] = e.Time
		}
	}
	if len(keys) != 2 {
		t.Fatalf("same-title caseless tasks got keys %v, want 2 distinct", keys)
	}
	if _, ok := keys["task:t2"]; !ok {
		t.Errorf("keys %v missing task:t2", keys)
	}

	o := NewOverrides()
	if err := o.Set("task:t2", "07:30"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	for _, e := range o.Apply(events) {
		if e.Key == "task:t5" && e.Time != "15:00" {
			t.Errorf("override leaked onto task:t5: %q", e.Time)
		}
		if e.Key == "task:t2" && e.Time != "07:30" {
			t.Errorf("task:t2 time = %q, want 07:30", e.Time)
		}
	}
}

func TestKnownKey(t *testing.T) {
	snap := testSnapshot()
	for key, want := range map[string]bool{
		"hearing:h1":  true,
		"deadline:d2": true,
		"task:t3":     true,
		"task:h1":     false,
		"hearing:zz":  false,
		"task:":       false,
		"t1":          false,
		"":            false,
	} {
		if got := KnownKey(snap, key); got != want {
			t.Errorf("KnownKey(%q) = %v, want %v", key, got, want)
		}
	}
}
