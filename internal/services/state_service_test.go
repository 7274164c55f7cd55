package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/chorebook/internal/domain"
)

func TestStateService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tasks := NewTaskService(env.deps)
	tracker := NewTrackerService(env.deps, nil)
	state := NewStateService(tasks, tracker, NewStatsService(env.deps))

	added, err := state.AddTask(ctx, domain.TaskSpec{
		Name:             "Mop floor",
		DaysOfWeek:       []domain.Weekday{domain.Monday},
		NotificationTime: "19:00",
	})
	require.NoError(t, err)

	ok, err := state.Postpone(ctx, "Mop", 30)
	require.NoError(t, err)
	assert.True(t, ok)

	day, err := state.Today(ctx, "")
	require.NoError(t, err)
	require.Len(t, day.Tasks, 1)
	assert.Equal(t, "19:30", day.Tasks[0].EffectiveTime())

	ok, err = state.Complete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	c, err := state.Stats(ctx, testToday, testToday)
	require.NoError(t, err)
	assert.Equal(t, 100, c.CompletionRate)

	streak, err := state.Streak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	_, err = state.Complete(ctx, "nothing like it")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	list, err := state.ListTasks(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStateService_SeesWritesFromOtherProcess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// Long-running server stack, loaded before the other writer runs.
	serverDeps := env.deps
	serverDeps.Ledger = NewLedger(env.store)
	server := NewStateService(NewTaskService(serverDeps), NewTrackerService(serverDeps, nil), NewStatsService(serverDeps))
	before, err := server.Today(ctx, "")
	require.NoError(t, err)
	require.Empty(t, before.Tasks)

	// A separate CLI stack on the same store, with its own ledger.
	cliDeps := env.deps
	cliDeps.Ledger = NewLedger(env.store)
	cliTasks := NewTaskService(cliDeps)
	cliTracker := NewTrackerService(cliDeps, nil)
	added, err := cliTasks.AddTask(ctx, AddTaskRequest{
		Name:             "Dishes",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "23:00",
	})
	require.NoError(t, err)

	day, err := server.Today(ctx, "")
	require.NoError(t, err)
	require.Len(t, day.Tasks, 1)

	ok, err := server.Complete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	streak, err := server.Streak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	// The CLI tracker still holds its own stale mirror but reads the
	// task from storage, so it sees the completion and refuses a repeat.
	again, err := cliTracker.CompleteTask(ctx, added.ID, testToday)
	require.NoError(t, err)
	assert.False(t, again)
}
