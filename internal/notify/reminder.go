package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/siag/internal/access"
	"github.com/dukerupert/siag/internal/agenda"
	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/model"
)

// reminderPreview is how many events the summary lists by name.
const reminderPreview = 3

// UserLister returns every user to remind.
type UserLister interface {
	List() ([]model.User, error)
}

// Reminder sends each user a morning summary of the day's visible agenda
// on a cron schedule.
type Reminder struct {
	mu       sync.Mutex
	spec     string
	loc      *time.Location
	snapshot func() *model.Snapshot
	users    UserLister
	sink     Sink
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	cron     *cron.Cron
}

type ReminderConfig struct {
	Spec     string
	Location *time.Location
	Snapshot func() *model.Snapshot
	Users    UserLister
	Sink     Sink
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func NewReminder(cfg ReminderConfig) *Reminder {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminder{
		spec:     cfg.Spec,
		loc:      loc,
		snapshot: cfg.Snapshot,
		users:    cfg.Users,
		sink:     cfg.Sink,
		metrics:  cfg.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules the reminder. It fails on an invalid cron spec.
func (r *Reminder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.spec, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("schedule reminder %q: %w", r.spec, err)
	}
	c.Start()
	r.cron = c
	r.logger.Info("reminder scheduled", "spec", r.spec)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Reminder) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (r *Reminder) run(ctx context.Context) {
	n, err := r.RunOnce(ctx)
	r.metrics.ReminderRun(err)
	if err != nil {
		r.logger.Error("reminder run", "error", err)
		return
	}
	r.logger.Info("reminder run", "sent", n)
}

// RunOnce sends today's summaries and returns how many were delivered.
// Users with nothing scheduled are skipped.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	users, err := r.users.List()
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	snap := r.snapshot()
	now := r.now().In(r.loc)

	sent := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		role, err := access.ParseRole(u.Role)
		if err != nil {
			r.logger.Warn("reminder skip user", "user", u.Name, "error", err)
			continue
		}
		v := agenda.Viewer{Name: u.Name, Role: role}
		f := agenda.AllFilter
		f.Assignment = agenda.DefaultAssignment(role)

		events := agenda.EventsForDate(snap, now, f, v)
		if len(events) == 0 {
			continue
		}
		agenda.SortByTime(events)
		n := Summary(events, u.Name, now)
		if err := r.sink.Send(ctx, n); err != nil {
			return sent, fmt.Errorf("send reminder to %s: %w", u.Name, err)
		}
		sent++
	}
	return sent, nil
}

// Summary builds the reminder for a day's events.
func Summary(events []agenda.Event, recipient string, now time.Time) Notification {
	title := fmt.Sprintf("Agenda de hoje · %d eventos", len(events))
	if len(events) == 1 {
		title = "Agenda de hoje · 1 evento"
	}

	lines := make([]string, 0, reminderPreview+1)
	for i, e := range events {
		if i == reminderPreview {
			lines = append(lines, fmt.Sprintf("+%d", len(events)-reminderPreview))
			break
		}
		when := e.Time
		if e.AllDay() {
			when = "Dia inteiro"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", when, agenda.TypeLabel(e.Kind), e.Title))
	}
	return newNotification(title, strings.Join(lines, "; "), TypeReminder, recipient, now)
}
