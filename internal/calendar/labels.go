package calendar

import (
	"fmt"
	"time"
)

var Months = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var Weekdays = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var WeekdaysFull = [7]string{
	"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira",
	"Quinta-feira", "Sexta-feira", "Sábado",
}

// Hours are the rows of the day and week grids, 06h to 22h.
var Hours = func() []int {
	h := make([]int, 17)
	for i := range h {
		h[i] = i + 6
	}
	return h
}()

func MonthName(m time.Month) string {
	return Months[m-1]
}

// ShortMonthName is the three letter abbreviation, "Mar" for March.
func ShortMonthName(m time.Month) string {
	return Months[m-1][:3]
}

// DateLabel formats t as DD/MM/YYYY.
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}
