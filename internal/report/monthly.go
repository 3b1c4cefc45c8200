package report

import (
	"time"

	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

// evolutionMonths is the length of the monthly evolution series.
const evolutionMonths = 6

// monthly returns one point per month for the six months ending with the
// month of now, oldest first. SLA is 100 for months without requests.
func monthly(s scope, now time.Time) []MonthPoint {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(evolutionMonths - 1), 0)
	out := make([]MonthPoint, evolutionMonths)
	index := make(map[string]int, evolutionMonths)
	met := make([]int, evolutionMonths)
	total := make([]int, evolutionMonths)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i].Month = calendar.ShortMonthName(m.Month())
		index[calendar.FormatDate(m)[:7]] = i
	}
	bucket := func(date string) (int, bool) {
		if len(date) < 7 {
			return 0, false
		}
		i, ok := index[date[:7]]
		return i, ok
	}
	for _, c := range s.cases {
		if i, ok := bucket(c.FiledAt); ok {
			out[i].New++
		}
		if i, ok := bucket(c.ClosedAt); ok {
			out[i].Closed++
		}
	}
	for _, r := range s.requests {
		i, ok := bucket(r.RequestedAt)
		if !ok {
			continue
		}
		total[i]++
		if r.Status == model.EvidenceRequestMet {
			met[i]++
		}
	}
	for i := range out {
		out[i].SLA = percent(met[i], total[i], 100)
	}
	return out
}
