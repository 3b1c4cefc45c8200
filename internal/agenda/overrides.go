package agenda

import (
	"fmt"
	"strings"

	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

// sourceKey identifies an event by the record it was projected from, so
// edits to the title or date keep an override attached.
func sourceKey(k Kind, id string) string {
	return string(k) + ":" + id
}

// KnownKey reports whether key names a hearing, deadline or task in snap.
func KnownKey(snap *model.Snapshot, key string) bool {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return false
	}
	switch Kind(kind) {
	case KindHearing:
		for _, h := range snap.Hearings {
			if h.ID == id {
				return true
			}
		}
	case KindDeadline:
		for _, d := range snap.Deadlines {
			if d.ID == id {
				return true
			}
		}
	case KindTask:
		for _, t := range snap.Tasks {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

// Overrides maps event keys (Event.Key) to a manual HH:MM time. The zero value is not
// usable; create one with make or NewOverrides.
type Overrides map[string]string

func NewOverrides() Overrides { return make(Overrides) }

// Set records a time for key. An empty clock removes the override.
func (o Overrides) Set(key, clock string) error {
	if key == "" {
		return fmt.Errorf("set override: empty key")
	}
	if clock == "" {
		delete(o, key)
		return nil
	}
	if _, _, err := calendar.ParseClock(clock); err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	o[key] = clock
	return nil
}

// Apply returns a copy of events with overridden times and hours. The input
// slice is not modified.
func (o Overrides) Apply(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	if len(o) == 0 {
		return out
	}
	for i := range out {
		c, ok := o[out[i].Key]
		if !ok {
			continue
		}
		out[i].Time, out[i].Hour = clock(c)
	}
	return out
}

// Clone copies the overrides so a caller can mutate them independently.
func (o Overrides) Clone() Overrides {
	c := make(Overrides, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}
