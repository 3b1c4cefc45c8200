package calendar

import (
	"fmt"
	"time"
)

// View is the granularity of the agenda screen.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
	ViewYear  View = "year"
)

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewDay, ViewWeek, ViewMonth, ViewYear:
		return v, nil
	case "":
		return ViewMonth, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// PeriodDates lists every day covered by the view around t.
func PeriodDates(v View, t time.Time) []time.Time {
	switch v {
	case ViewYear:
		return YearDays(t)
	case ViewMonth:
		return MonthDays(t)
	case ViewWeek:
		return WeekDays(t)
	}
	return []time.Time{StartOfDay(t)}
}

// ExportDates lists the days included in a CSV export. The year view
// exports only the selected day.
func ExportDates(v View, t time.Time) []time.Time {
	if v == ViewYear {
		return []time.Time{StartOfDay(t)}
	}
	return PeriodDates(v, t)
}

// Shift moves t by n periods of the view.
func Shift(v View, t time.Time, n int) time.Time {
	switch v {
	case ViewYear:
		return t.AddDate(n, 0, 0)
	case ViewMonth:
		return t.AddDate(0, n, 0)
	case ViewWeek:
		return t.AddDate(0, 0, 7*n)
	}
	return t.AddDate(0, 0, n)
}

// PeriodLabel is the pt-BR header shown above the calendar.
func PeriodLabel(v View, t time.Time) string {
	switch v {
	case ViewYear:
		return fmt.Sprintf("%d", t.Year())
	case ViewMonth:
		return fmt.Sprintf("%s %d", MonthName(t.Month()), t.Year())
	case ViewWeek:
		week := WeekDays(t)
		first, last := week[0], week[6]
		fm := ShortMonthName(first.Month())
		lm := ShortMonthName(last.Month())
		if first.Month() == last.Month() {
			return fmt.Sprintf("%d–%d %s %d", first.Day(), last.Day(), fm, first.Year())
		}
		return fmt.Sprintf("%d %s – %d %s %d", first.Day(), fm, last.Day(), lm, last.Year())
	}
	return fmt.Sprintf("%s, %d de %s", WeekdaysFull[t.Weekday()], t.Day(), MonthName(t.Month()))
}
