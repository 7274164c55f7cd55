package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/logging"
	"github.com/xvierd/chorebook/internal/ports"
	"github.com/xvierd/chorebook/internal/schedule"
)

const notificationPrefix = "task-"

// NotificationID derives the trigger id of an occurrence.
func NotificationID(taskID string, date domain.Date) string {
	return notificationPrefix + taskID + "-" + string(date)
}

// ParseNotificationID reverses NotificationID. The date is always the last
// ten characters, so task ids containing dashes survive the round trip.
func ParseNotificationID(id string) (string, domain.Date, bool) {
	rest, ok := strings.CutPrefix(id, notificationPrefix)
	if !ok || len(rest) < len(domain.DateLayout)+2 {
		return "", "", false
	}
	cut := len(rest) - len(domain.DateLayout)
	if rest[cut-1] != '-' {
		return "", "", false
	}
	date, err := domain.ParseDate(rest[cut:])
	if err != nil {
		return "", "", false
	}
	return rest[:cut-1], date, true
}

// ReminderCoordinator turns occurrences into trigger directives. Every
// scheduler failure is logged and swallowed; reminders are best effort.
type ReminderCoordinator struct {
	scheduler ports.TriggerScheduler
	clock     ports.Clock
	logger    *slog.Logger
}

// NewReminderCoordinator creates a coordinator.
func NewReminderCoordinator(scheduler ports.TriggerScheduler, clock ports.Clock, logger *slog.Logger) *ReminderCoordinator {
	if clock == nil {
		clock = ports.SystemClock
	}
	return &ReminderCoordinator{scheduler: scheduler, clock: clock, logger: logging.OrDiscard(logger)}
}

// Schedule registers a reminder for task on date at timeOfDay. It reports
// false when nothing was scheduled: the time already passed, the input was
// malformed, or the scheduler failed.
func (c *ReminderCoordinator) Schedule(ctx context.Context, task *domain.Task, date domain.Date, timeOfDay string) bool {
	now := c.clock.Now()
	at, err := date.At(timeOfDay, now.Location())
	if err != nil {
		c.logger.Warn("cannot schedule reminder", "task_id", task.ID, "date", date, "time", timeOfDay, "error", err)
		return false
	}
	if !at.After(now) {
		return false
	}

	id := NotificationID(task.ID, date)
	payload := ports.TriggerPayload{
		TaskID: task.ID,
		Date:   date,
		Title:  task.Name,
		Body:   reminderBody(task, timeOfDay),
	}
	if _, err := c.scheduler.ScheduleAt(ctx, id, at, payload); err != nil {
		c.logger.Error("failed to schedule reminder", "id", id, "error", err)
		return false
	}
	c.logger.Debug("reminder scheduled", "id", id, "at", at)
	return true
}

func reminderBody(task *domain.Task, timeOfDay string) string {
	if task.Description != "" {
		return fmt.Sprintf("%s - %s", timeOfDay, task.Description)
	}
	return fmt.Sprintf("It's %s, time for your task!", timeOfDay)
}

// Cancel removes the reminder of one occurrence.
func (c *ReminderCoordinator) Cancel(ctx context.Context, taskID string, date domain.Date) {
	id := NotificationID(taskID, date)
	if err := c.scheduler.Cancel(ctx, id); err != nil {
		c.logger.Error("failed to cancel reminder", "id", id, "error", err)
	}
}

// Reschedule moves the reminder of one occurrence to timeOfDay.
func (c *ReminderCoordinator) Reschedule(ctx context.Context, task *domain.Task, date domain.Date, timeOfDay string) bool {
	c.Cancel(ctx, task.ID, date)
	return c.Schedule(ctx, task, date, timeOfDay)
}

// CancelAllForTask removes every pending reminder of a task and returns
// how many were cancelled.
func (c *ReminderCoordinator) CancelAllForTask(ctx context.Context, taskID string) int {
	ids, err := c.scheduler.ListScheduledIDs(ctx)
	if err != nil {
		c.logger.Error("failed to list reminders", "error", err)
		return 0
	}
	cancelled := 0
	for _, id := range ids {
		// Compare parsed ids: a bare prefix match would also hit task ids
		// that merely start with taskID.
		if got, _, ok := ParseNotificationID(id); !ok || got != taskID {
			continue
		}
		if err := c.scheduler.Cancel(ctx, id); err != nil {
			c.logger.Error("failed to cancel reminder", "id", id, "error", err)
			continue
		}
		cancelled++
	}
	return cancelled
}

// ScheduleAllDueToday schedules every timed, uncompleted occurrence of
// today and returns how many triggers were registered.
func (c *ReminderCoordinator) ScheduleAllDueToday(ctx context.Context, tasks []*domain.Task, idx schedule.StateIndex, today domain.Date) int {
	scheduled := 0
	for _, v := range schedule.PendingReminders(schedule.ResolveDay(today, tasks, idx)) {
		if c.Schedule(ctx, v.Task, today, v.EffectiveTime()) {
			scheduled++
		}
	}
	return scheduled
}

// Sync makes today's triggers match the resolved view: pending occurrences
// are (re)scheduled and any other trigger dated today or earlier is cancelled.
func (c *ReminderCoordinator) Sync(ctx context.Context, tasks []*domain.Task, idx schedule.StateIndex, today domain.Date) (scheduled, cancelled int) {
	want := make(map[string]bool)
	for _, v := range schedule.PendingReminders(schedule.ResolveDay(today, tasks, idx)) {
		want[NotificationID(v.Task.ID, today)] = true
	}

	ids, err := c.scheduler.ListScheduledIDs(ctx)
	if err != nil {
		c.logger.Error("failed to list reminders", "error", err)
	}
	for _, id := range ids {
		_, date, ok := ParseNotificationID(id)
		if !ok || want[id] || date > today {
			continue
		}
		if err := c.scheduler.Cancel(ctx, id); err != nil {
			c.logger.Error("failed to cancel reminder", "id", id, "error", err)
			continue
		}
		cancelled++
	}

	scheduled = c.ScheduleAllDueToday(ctx, tasks, idx, today)
	return scheduled, cancelled
}
