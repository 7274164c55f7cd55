package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
	"github.com/xvierd/chorebook/internal/schedule"
)

func TestNotificationID(t *testing.T) {
	id := NotificationID("3f2a-b1c9-dash", "2026-10-19")
	assert.Equal(t, "task-3f2a-b1c9-dash-2026-10-19", id)

	taskID, date, ok := ParseNotificationID(id)
	require.True(t, ok)
	assert.Equal(t, "3f2a-b1c9-dash", taskID)
	assert.Equal(t, domain.Date("2026-10-19"), date)

	for _, bad := range []string{"", "task-", "other-abc-2026-10-19", "task-abc-2026-13-40", "task-abc2026-10-19"} {
		_, _, ok := ParseNotificationID(bad)
		assert.False(t, ok, bad)
	}
}

type failingScheduler struct{}

func (failingScheduler) ScheduleAt(context.Context, string, time.Time, ports.TriggerPayload) (string, error) {
	return "", errors.New("scheduler down")
}
func (failingScheduler) Cancel(context.Context, string) error { return errors.New("scheduler down") }
func (failingScheduler) ListScheduledIDs(context.Context) ([]string, error) {
	return nil, errors.New("scheduler down")
}

func TestReminderCoordinator(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	coord := env.deps.Reminders

	task := &domain.Task{
		ID:               "t1",
		Name:             "Stretch",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "15:00",
		CreatedAt:        "2026-10-01",
		IsActive:         true,
	}

	t.Run("schedule builds payload", func(t *testing.T) {
		require.True(t, coord.Schedule(ctx, task, testToday, "15:00"))
		pending, err := env.queue.Pending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "Stretch", pending[0].Payload.Title)
		assert.Equal(t, testToday, pending[0].Payload.Date)
		assert.Contains(t, pending[0].Payload.Body, "15:00")
	})

	t.Run("past time is skipped", func(t *testing.T) {
		assert.False(t, coord.Schedule(ctx, task, testToday, "08:59"))
	})

	t.Run("cancel all for task leaves lookalikes", func(t *testing.T) {
		other := task.Clone()
		other.ID = "t1-extra"
		require.True(t, coord.Schedule(ctx, other, testToday, "16:00"))
		require.True(t, coord.Schedule(ctx, task, testToday.AddDays(1), "15:00"))

		assert.Equal(t, 2, coord.CancelAllForTask(ctx, task.ID))
		assert.Equal(t, []string{NotificationID(other.ID, testToday)}, env.scheduledIDs(t))
	})

	t.Run("sync", func(t *testing.T) {
		done := &domain.DailyTaskState{TaskID: "t1-extra", Date: testToday, Completed: true}
		idx := schedule.IndexStates([]*domain.DailyTaskState{done})
		other := task.Clone()
		other.ID = "t1-extra"

		scheduled, cancelled := coord.Sync(ctx, []*domain.Task{task, other}, idx, testToday)
		assert.Equal(t, 1, scheduled)
		assert.Equal(t, 1, cancelled)
		assert.Equal(t, []string{NotificationID(task.ID, testToday)}, env.scheduledIDs(t))
	})

	t.Run("scheduler failures are swallowed", func(t *testing.T) {
		broken := NewReminderCoordinator(failingScheduler{}, env.clock, nil)
		assert.False(t, broken.Schedule(ctx, task, testToday, "15:00"))
		assert.Zero(t, broken.CancelAllForTask(ctx, task.ID))
		broken.Cancel(ctx, task.ID, testToday)
	})
}
