package export

import (
	"strings"
	"time"

	"github.com/dukerupert/siag/internal/agenda"
	"github.com/dukerupert/siag/internal/calendar"
)

const bom = "\uFEFF"

var csvHeader = []string{"Tipo", "Título", "Data", "Hora", "Processo", "Reclamante/Colaborador", "Responsáveis", "Detalhe"}

// CSV encodes events as a semicolon separated table preceded by a UTF-8
// byte order mark. Rows are separated by "\n" with no trailing newline, so
// N events produce N+1 lines. Title, assignees and detail are always quoted.
func CSV(events []agenda.Event) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(strings.Join(csvHeader, ";"))
	for _, e := range events {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			agenda.TypeLabel(e.Kind),
			quote(e.Title),
			dateLabel(e.Date),
			e.Time,
			e.CaseNumber,
			e.EmployeeName,
			quote(strings.Join(e.Assignees, ", ")),
			quote(e.Detail),
		}, ";"))
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// dateLabel renders YYYY-MM-DD as DD/MM/YYYY.
func dateLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return calendar.DateLabel(t)
}

// CSVFilename is the download name of a period export: the period label
// with blanks replaced by underscores, then the export day.
func CSVFilename(label string, today time.Time) string {
	return "agenda_" + strings.Join(strings.Fields(label), "_") + "_" + calendar.FormatDate(today) + ".csv"
}
