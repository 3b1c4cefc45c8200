package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/siag/internal/auth"
	"github.com/dukerupert/siag/internal/model"
	"github.com/dukerupert/siag/internal/notify"
)

// TaskHandler accepts the new-task form. Tasks are not stored; submitting
// notifies the assignees and the optional manager.
type TaskHandler struct {
	data   *Dataset
	sink   notify.Sink
	now    func() time.Time
	logger *slog.Logger
}

func NewTaskHandler(data *Dataset, sink notify.Sink, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{data: data, sink: sink, now: time.Now, logger: logger}
}

type taskFormError struct {
	Error  string             `json:"error"`
	Fields notify.FieldErrors `json:"fields"`
}

type taskResponse struct {
	Message       string                `json:"message"`
	Notifications []notify.Notification `json:"notifications"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form notify.TaskForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := notify.ValidateTaskForm(form); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, taskFormError{Error: "invalid task form", Fields: errs})
		return
	}

	var c *model.Case
	if form.CaseID != "" {
		c = h.data.Snapshot().Case(form.CaseID)
		if c == nil {
			writeError(w, http.StatusNotFound, "case not found")
			return
		}
	}

	ns := notify.TaskAssigned(form, c, h.now())
	if err := notify.SendAll(r.Context(), h.sink, ns); err != nil {
		h.logger.Error("send task notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send notifications")
		return
	}

	ac, _ := auth.FromContext(r.Context())
	h.logger.Info("task assigned", "by", ac.Name, "recipients", len(ns), "case", form.CaseID)
	writeJSON(w, http.StatusCreated, taskResponse{
		Message:       notify.Confirmation(form),
		Notifications: ns,
	})
}
