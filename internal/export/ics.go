// Package export encodes agenda events as iCalendar and CSV documents.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/dukerupert/siag/internal/agenda"
	"github.com/dukerupert/siag/internal/calendar"
)

const (
	productID = "-//SIAG//PT"
	uidDomain = "siag"
)

// ICS encodes events as a calendar document anchored on date. Every event
// starts on date at its time, or at midnight when it is all-day; there is no
// end time, time zone or recurrence. An empty list yields a calendar with no
// events.
func ICS(events []agenda.Event, date time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")

	day := strings.ReplaceAll(calendar.FormatDate(date), "-", "")
	for i, e := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s-%d-%s@%s", uidDomain, i, day, uidDomain))
		ve.SetProperty(ical.ComponentPropertyDtStart, day+"T"+icsClock(e.Time))
		ve.SetSummary(e.Title)
		ve.SetDescription(e.EmployeeName)
	}
	return cal.Serialize(ical.WithNewLineWindows)
}

// icsClock turns HH:MM into HHMMSS.
func icsClock(clock string) string {
	if clock == "" {
		return "000000"
	}
	h, m, err := calendar.ParseClock(clock)
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%02d%02d00", h, m)
}

// ICSFilename is the download name of the calendar for date.
func ICSFilename(date time.Time) string {
	return "agenda-siag-" + calendar.FormatDate(date) + ".ics"
}
