package model

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

var TaskStatusLabels = map[TaskStatus]string{
	TaskPending:    "Pendente",
	TaskInProgress: "Em andamento",
	TaskDone:       "Concluída",
}

// Task is a to-do item. DueAt is "YYYY-MM-DD" or "YYYY-MM-DDTHH:MM"; the
// time part is absent for all-day tasks.
type Task struct {
	ID             string     `json:"id" yaml:"id"`
	CaseID         string     `json:"case_id,omitempty" yaml:"case_id"`
	DueAt          string     `json:"due_at" yaml:"due_at"`
	Title          string     `json:"title" yaml:"title"`
	Status         TaskStatus `json:"status" yaml:"status"`
	Priority       string     `json:"priority" yaml:"priority"`
	Assignees      []string   `json:"assignees" yaml:"assignees"`
	ShowInCalendar bool       `json:"show_in_calendar" yaml:"show_in_calendar"`
	Employee       string     `json:"employee" yaml:"employee"`
	CaseNumber     string     `json:"case_number" yaml:"case_number"`
}

// HasAssignee reports whether name is listed among the task's assignees.
func (t Task) HasAssignee(name string) bool {
	for _, a := range t.Assignees {
		if a == name {
			return true
		}
	}
	return false
}
