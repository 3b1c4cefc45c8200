package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2025-03-07" {
		t.Errorf("FormatDate = %q, want %q", got, "2025-03-07")
	}
}

func TestFormatDateUsesLocalFields(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2025, 3, 10, 23, 30, 0, 0, loc)
	early := time.Date(2025, 3, 10, 0, 5, 0, 0, loc)
	if FormatDate(late) != FormatDate(early) {
		t.Errorf("same local day formatted differently: %q vs %q", FormatDate(late), FormatDate(early))
	}
	if got := FormatDate(late); got != "2025-03-10" {
		t.Errorf("FormatDate = %q, want local date 2025-03-10 (UTC would be 2025-03-11)", got)
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	d, err := ParseDate("2025-03-10", loc)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Location() != loc || d.Hour() != 0 || d.Day() != 10 {
		t.Errorf("ParseDate = %v, want midnight 2025-03-10 in BRT", d)
	}
	if _, err := ParseDate("10/03/2025", loc); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC)
	c := time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)

	if !SameDay(a, a) {
		t.Error("SameDay should be reflexive")
	}
	if !SameDay(a, b) || !SameDay(b, a) {
		t.Error("SameDay should ignore time of day and be symmetric")
	}
	if SameDay(a, c) {
		t.Error("different days reported as same")
	}
}

func TestSameDayIgnoresOffset(t *testing.T) {
	a := time.Date(2025, 6, 1, 22, 0, 0, 0, time.FixedZone("A", -5*60*60))
	b := time.Date(2025, 6, 1, 1, 0, 0, 0, time.FixedZone("B", 9*60*60))
	if !SameDay(a, b) {
		t.Error("SameDay should compare calendar fields, not instants")
	}
}

func TestWeekDays(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),   // Sunday
		time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), // Wednesday
		time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC), // Saturday
		time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),   // crosses the year
	}
	for _, d := range dates {
		week := WeekDays(d)
		if len(week) != 7 {
			t.Fatalf("WeekDays(%v) returned %d days", d, len(week))
		}
		if week[0].Weekday() != time.Sunday {
			t.Errorf("first day = %v, want Sunday", week[0].Weekday())
		}
		if week[6].Weekday() != time.Saturday {
			t.Errorf("last day = %v, want Saturday", week[6].Weekday())
		}
		covered := false
		for i, w := range week {
			if i > 0 && !w.After(week[i-1]) {
				t.Errorf("days not ascending at %d", i)
			}
			if SameDay(w, d) {
				covered = true
			}
		}
		if !covered {
			t.Errorf("week of %v does not contain it", d)
		}
	}
}

func TestWeekDaysAcrossYear(t *testing.T) {
	week := WeekDays(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if got := FormatDate(week[0]); got != "2024-12-29" {
		t.Errorf("first = %q, want 2024-12-29", got)
	}
	if got := FormatDate(week[6]); got != "2025-01-04" {
		t.Errorf("last = %q, want 2025-01-04", got)
	}
}

func TestMonthAndYearDays(t *testing.T) {
	if n := len(MonthDays(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))); n != 29 {
		t.Errorf("Feb 2024 has %d days, want 29", n)
	}
	if n := len(YearDays(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))); n != 365 {
		t.Errorf("2025 has %d days, want 365", n)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{"14:00", 14, 0, false},
		{"09:30", 9, 30, false},
		{"9:05", 9, 5, false},
		{"00:00", 0, 0, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"1400", 0, 0, true},
		{"ab:cd", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := ParseClock(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidClock) {
				t.Errorf("ParseClock(%q) err = %v, want ErrInvalidClock", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tt.in, err)
			continue
		}
		if h != tt.hour || m != tt.minute {
			t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.minute)
		}
	}
}

func TestSplitDueAt(t *testing.T) {
	tests := []struct{ in, date, clock string }{
		{"2025-03-10", "2025-03-10", ""},
		{"2025-03-10T09:15", "2025-03-10", "09:15"},
		{"2025-03-10T09:15:00", "2025-03-10", "09:15"},
		{"2025-03-10T", "2025-03-10", ""},
	}
	for _, tt := range tests {
		d, c := SplitDueAt(tt.in)
		if d != tt.date || c != tt.clock {
			t.Errorf("SplitDueAt(%q) = (%q, %q), want (%q, %q)", tt.in, d, c, tt.date, tt.clock)
		}
	}
}
