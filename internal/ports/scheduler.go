package ports

import (
	"context"
	"time"

	"github.com/xvierd/chorebook/internal/domain"
)

// TriggerPayload travels with a scheduled reminder.
type TriggerPayload struct {
	TaskID string      `json:"taskId"`
	Date   domain.Date `json:"date"`
	Title  string      `json:"title"`
	Body   string      `json:"body"`
}

// TriggerScheduler fires reminders at wall-clock timestamps.
// This is a driven port (implemented by adapters).
type TriggerScheduler interface {
	// ScheduleAt registers a trigger under id, replacing any existing one.
	ScheduleAt(ctx context.Context, id string, at time.Time, payload TriggerPayload) (string, error)

	// Cancel removes a pending trigger. Unknown ids are ignored.
	Cancel(ctx context.Context, id string) error

	// ListScheduledIDs returns the ids of all pending triggers.
	ListScheduledIDs(ctx context.Context) ([]string, error)
}

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(title, message string) error
	IsEnabled() bool
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
