package notify

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/siag/internal/calendar"
	"github.com/dukerupert/siag/internal/model"
)

const descriptionLimit = 80

// noManager is the form value for "no manager selected".
const noManager = "nenhum"

// Priorities accepted by the task form.
var Priorities = []string{"baixa", "media", "alta"}

// TaskForm is the payload of the new-task form.
type TaskForm struct {
	CaseID      string   `json:"case_id"`
	Assignees   []string `json:"assignees"`
	Manager     string   `json:"manager"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	AllDay      bool     `json:"all_day"`
	Priority    string   `json:"priority"`
}

// FieldErrors maps form fields to pt-BR messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "invalid task form: " + strings.Join(parts, "; ")
}

// ValidateTaskForm checks the form and returns nil when it is valid.
func ValidateTaskForm(f TaskForm) FieldErrors {
	errs := FieldErrors{}
	if len(assignees(f.Assignees)) == 0 {
		errs["users"] = "Adicione ao menos um responsável."
	}
	if strings.TrimSpace(f.Description) == "" {
		errs["description"] = "Descreva a tarefa."
	}
	if f.Date == "" {
		errs["date"] = "Selecione uma data."
	} else if _, err := calendar.ParseDate(f.Date, time.UTC); err != nil {
		errs["date"] = "Selecione uma data."
	}
	if !f.AllDay {
		if f.Time == "" {
			errs["time"] = "Informe a hora ou marque 'Dia inteiro'."
		} else if _, _, err := calendar.ParseClock(f.Time); err != nil {
			errs["time"] = "Hora inválida."
		}
	}
	if f.Priority != "" && !slices.Contains(Priorities, f.Priority) {
		errs["priority"] = "Prioridade inválida."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func assignees(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// Recipients lists the assignees followed by the manager, if one was chosen.
func (f TaskForm) Recipients() []string {
	out := assignees(f.Assignees)
	m := strings.TrimSpace(f.Manager)
	if m != "" && m != noManager && !slices.Contains(out, m) {
		out = append(out, m)
	}
	return out
}

// truncate cuts s to limit runes and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "…"
}

// TaskAssigned builds one notification per recipient of a validated form.
// c is the selected case and may be nil.
func TaskAssigned(f TaskForm, c *model.Case, now time.Time) []Notification {
	title := "Tarefa atribuída a você"
	if c != nil {
		title += " · " + c.CaseNumber
	}
	desc := truncate(strings.TrimSpace(f.Description), descriptionLimit)

	recipients := f.Recipients()
	out := make([]Notification, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, newNotification(title, desc, TypeTask, r, now))
	}
	return out
}

// Confirmation is the message shown to the creator after sending.
func Confirmation(f TaskForm) string {
	msg := "Notificação enviada para " + strings.Join(assignees(f.Assignees), ", ")
	if m := strings.TrimSpace(f.Manager); m != "" && m != noManager {
		msg += fmt.Sprintf(" e gestor %s", m)
	}
	return msg + "."
}
