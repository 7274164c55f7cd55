package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
)

func newTracker(t *testing.T) (*testEnv, *TaskService, *TrackerService) {
	t.Helper()
	env := newTestEnv(t)
	achievements := NewAchievementService(env.deps)
	return env, NewTaskService(env.deps), NewTrackerService(env.deps, achievements)
}

func TestTrackerService_CompleteTask(t *testing.T) {
	env, tasks, tracker := newTracker(t)
	ctx := context.Background()

	task, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:             "Dishes",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "18:00",
	})
	require.NoError(t, err)
	require.Len(t, env.scheduledIDs(t), 1)

	ok, err := tracker.CompleteTask(ctx, task.ID, testToday)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := env.store.DailyStates().GetForTaskAndDate(ctx, task.ID, testToday)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.Completed)
	require.NotNil(t, state.CompletedAt)
	assert.True(t, state.CompletedAt.Equal(testNow))
	assert.Empty(t, env.scheduledIDs(t), "completion cancels the reminder")

	t.Run("second completion is a no-op", func(t *testing.T) {
		env.clock.now = testNow.Add(2 * time.Hour)
		defer func() { env.clock.now = testNow }()

		ok, err := tracker.CompleteTask(ctx, task.ID, testToday)
		require.NoError(t, err)
		assert.False(t, ok)

		again, err := env.store.DailyStates().GetForTaskAndDate(ctx, task.ID, testToday)
		require.NoError(t, err)
		assert.True(t, again.CompletedAt.Equal(testNow))
	})

	t.Run("unknown task", func(t *testing.T) {
		ok, err := tracker.CompleteTask(ctx, "missing", testToday)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unlocks first task and perfect day", func(t *testing.T) {
		list, err := NewAchievementService(env.deps).List(ctx)
		require.NoError(t, err)
		unlocked := map[domain.AchievementID]bool{}
		for _, a := range list {
			if a.UnlockedAt != nil {
				unlocked[a.ID] = true
			}
		}
		assert.True(t, unlocked[domain.AchievementFirstTask])
		assert.True(t, unlocked[domain.AchievementPerfectDay])
		assert.False(t, unlocked[domain.AchievementNightOwl])
	})
}

func TestTrackerService_CompleteWarning(t *testing.T) {
	_, tasks, tracker := newTracker(t)
	ctx := context.Background()

	plain, err := tasks.AddTask(ctx, AddTaskRequest{Name: "Bins out", DaysOfWeek: domain.AllWeekdays})
	require.NoError(t, err)
	checkable, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:           "Check mail",
		DaysOfWeek:     domain.AllWeekdays,
		CanBeCompleted: true,
	})
	require.NoError(t, err)

	ok, err := tracker.CompleteTask(ctx, plain.ID, testToday)
	require.NoError(t, err)
	assert.False(t, ok, "plain warnings are not completable")

	ok, err = tracker.CompleteTask(ctx, checkable.ID, testToday)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTrackerService_PostponeCeiling(t *testing.T) {
	env, tasks, tracker := newTracker(t)
	ctx := context.Background()

	task, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:             "Laundry",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "10:00",
	})
	require.NoError(t, err)

	results := []bool{}
	for _, at := range []string{"10:30", "11:00", "11:30"} {
		ok, err := tracker.PostponeTask(ctx, task.ID, testToday, at)
		require.NoError(t, err)
		results = append(results, ok)
	}
	assert.Equal(t, []bool{true, true, false}, results)

	state, err := env.store.DailyStates().GetForTaskAndDate(ctx, task.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPostponesPerDay, state.PostponeCount)
	assert.Equal(t, "11:00", state.CurrentTime)
	assert.False(t, state.Completed)

	pending, err := env.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 11, pending[0].At.Hour())

	day, err := tracker.DailyTasks(ctx, testToday)
	require.NoError(t, err)
	require.Len(t, day.Tasks, 1)
	assert.Equal(t, "11:00", day.Tasks[0].EffectiveTime())
}

func TestTrackerService_PostponeRefusals(t *testing.T) {
	_, tasks, tracker := newTracker(t)
	ctx := context.Background()

	warning, err := tasks.AddTask(ctx, AddTaskRequest{Name: "Warning", DaysOfWeek: domain.AllWeekdays})
	require.NoError(t, err)
	timed, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:             "Timed",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "23:55",
	})
	require.NoError(t, err)

	ok, err := tracker.PostponeTask(ctx, warning.ID, testToday, "12:00")
	require.NoError(t, err)
	assert.False(t, ok, "warnings cannot be postponed")

	_, err = tracker.PostponeTask(ctx, timed.ID, testToday, "9am")
	assert.ErrorIs(t, err, domain.ErrInvalidTime)

	ok, newTime, err := tracker.PostponeBy(ctx, timed.ID, testToday, 10)
	require.NoError(t, err)
	assert.False(t, ok, "postponing past midnight is refused")
	assert.Empty(t, newTime)

	_, _, err = tracker.PostponeBy(ctx, timed.ID, testToday, 0)
	assert.Error(t, err)

	ok, err = tracker.CompleteTask(ctx, timed.ID, testToday)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = tracker.PostponeTask(ctx, timed.ID, testToday, "23:58")
	require.NoError(t, err)
	assert.False(t, ok, "completed occurrences cannot be postponed")
}

func TestTrackerService_PostponeBy(t *testing.T) {
	_, tasks, tracker := newTracker(t)
	ctx := context.Background()

	task, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:             "Walk dog",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "17:00",
	})
	require.NoError(t, err)

	ok, newTime, err := tracker.PostponeBy(ctx, task.ID, testToday, 20)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "17:20", newTime)

	ok, newTime, err = tracker.PostponeBy(ctx, task.ID, testToday, 30)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "17:50", newTime, "second postpone builds on the postponed time")

	options, err := tracker.PostponeOptions(ctx, task.ID, testToday)
	require.NoError(t, err)
	assert.Empty(t, options, "ceiling reached")
}

func TestTrackerService_ConcurrentPostpone(t *testing.T) {
	env, tasks, tracker := newTracker(t)
	ctx := context.Background()

	task, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:             "Race",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "12:00",
	})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := tracker.PostponeBy(ctx, task.ID, testToday, 10)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.MaxPostponesPerDay, successes)
	state, err := env.store.DailyStates().GetForTaskAndDate(ctx, task.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPostponesPerDay, state.PostponeCount)
}

func TestTrackerService_PlanReminders(t *testing.T) {
	env, tasks, tracker := newTracker(t)
	ctx := context.Background()

	task, err := tasks.AddTask(ctx, AddTaskRequest{
		Name:             "Plan",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "21:00",
	})
	require.NoError(t, err)

	stale := NotificationID("gone", testToday.AddDays(-1))
	_, err = env.queue.ScheduleAt(ctx, stale, testNow.Add(-24*time.Hour), ports.TriggerPayload{TaskID: "gone"})
	require.NoError(t, err)
	require.NoError(t, env.queue.Cancel(ctx, NotificationID(task.ID, testToday)))

	scheduled, cancelled, err := tracker.PlanReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, scheduled)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, []string{NotificationID(task.ID, testToday)}, env.scheduledIDs(t))
}

func TestTrackerService_CompletesTaskAddedElsewhere(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	staleDeps := env.deps
	staleDeps.Ledger = NewLedger(env.store)
	stale := NewTrackerService(staleDeps, nil)
	_, err := stale.DailyTasks(ctx, testToday)
	require.NoError(t, err)

	added, err := NewTaskService(env.deps).AddTask(ctx, AddTaskRequest{
		Name:             "Laundry",
		DaysOfWeek:       domain.AllWeekdays,
		NotificationTime: "22:00",
	})
	require.NoError(t, err)

	ok, newTime, err := stale.PostponeBy(ctx, added.ID, testToday, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "22:10", newTime)

	ok, err = stale.CompleteTask(ctx, added.ID, testToday)
	require.NoError(t, err)
	assert.True(t, ok)
}
