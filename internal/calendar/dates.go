// Package calendar holds the calendar-day arithmetic behind the agenda.
// Every function works on the calendar fields of the time's own location;
// no timezone conversion is performed.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidClock is returned by ParseClock for anything other than HH:MM.
var ErrInvalidClock = errors.New("invalid clock time")

// FormatDate returns t as YYYY-MM-DD using t's local calendar fields.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates t to midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay compares year, month and day only.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether t falls on the same calendar day as today. The
// reference day is passed in rather than read from the clock.
func IsToday(t, today time.Time) bool {
	return SameDay(t, today)
}

// WeekDays returns the Sunday-to-Saturday week containing t.
func WeekDays(t time.Time) []time.Time {
	offset := int(t.Weekday())
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = time.Date(t.Year(), t.Month(), t.Day()-offset+i, 0, 0, 0, 0, t.Location())
	}
	return days
}

// MonthDays returns every day of t's month.
func MonthDays(t time.Time) []time.Time {
	n := DaysInMonth(t.Year(), t.Month())
	days := make([]time.Time, n)
	for i := range days {
		days[i] = time.Date(t.Year(), t.Month(), i+1, 0, 0, 0, 0, t.Location())
	}
	return days
}

// YearDays returns every day of t's year.
func YearDays(t time.Time) []time.Time {
	var days []time.Time
	for m := time.January; m <= time.December; m++ {
		days = append(days, MonthDays(time.Date(t.Year(), m, 1, 0, 0, 0, 0, t.Location()))...)
	}
	return days
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseClock parses HH:MM with a 24-hour clock.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// SplitDueAt splits "YYYY-MM-DD[THH:MM[:SS]]" into its date and HH:MM parts.
// The clock part is empty for all-day values.
func SplitDueAt(s string) (date, clock string) {
	date, rest, found := strings.Cut(s, "T")
	if !found {
		return date, ""
	}
	if len(rest) > 5 {
		rest = rest[:5]
	}
	return date, rest
}
