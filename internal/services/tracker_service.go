package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/schedule"
)

// TrackerService applies complete and postpone to single occurrences.
// Routine refusals (ceiling reached, already completed, unknown task) are
// reported as false with a nil error; errors are reserved for I/O and
// malformed input.
type TrackerService struct {
	Deps
	achievements *AchievementService
	locks        keyedMutex
}

// NewTrackerService creates a tracker. achievements may be nil.
func NewTrackerService(deps Deps, achievements *AchievementService) *TrackerService {
	return &TrackerService{Deps: deps.withDefaults(), achievements: achievements}
}

// DailyTasks resolves date (today when empty) with its tallies.
func (s *TrackerService) DailyTasks(ctx context.Context, date domain.Date) (schedule.Day, error) {
	if date == "" {
		date = s.today()
	}
	tasks, idx, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return schedule.Day{}, err
	}
	return schedule.DailyStats(date, tasks, idx), nil
}

// CompleteTask marks the occurrence completed. Completing twice is a
// no-op that reports false and leaves completedAt untouched.
func (s *TrackerService) CompleteTask(ctx context.Context, taskID string, date domain.Date) (bool, error) {
	unlock := s.locks.Lock(domain.OccurrenceKey(taskID, date))
	defer unlock()

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return false, err
	}
	if task == nil || !task.IsActive || !task.IsCompletable() {
		return false, nil
	}

	existing, err := s.Storage.DailyStates().GetForTaskAndDate(ctx, taskID, date)
	if err != nil {
		return false, fmt.Errorf("failed to read daily state: %w", err)
	}
	if existing != nil && existing.Completed {
		return false, nil
	}

	now := s.Clock.Now()
	state := &domain.DailyTaskState{
		ID:          domain.NewID(),
		TaskID:      taskID,
		Date:        date,
		CurrentTime: task.NotificationTime,
	}
	if existing != nil {
		state = existing.Clone()
	}
	state.Completed = true
	state.CompletedAt = &now

	if err := s.Storage.DailyStates().Upsert(ctx, state); err != nil {
		return false, fmt.Errorf("failed to save daily state: %w", err)
	}
	s.Ledger.PutState(state)

	if task.HasTime() && s.Reminders != nil {
		s.Reminders.Cancel(ctx, taskID, date)
	}
	s.Logger.Info("task completed", "task_id", taskID, "date", date)

	if s.achievements != nil {
		if unlocked, err := s.achievements.Evaluate(ctx, now); err != nil {
			s.Logger.Warn("achievement check failed", "error", err)
		} else {
			for _, a := range unlocked {
				s.Logger.Info("achievement unlocked", "achievement", a.ID)
			}
		}
	}
	return true, nil
}

// PostponeTask moves the occurrence's reminder to newTime. It refuses
// warnings, completed occurrences and occurrences already postponed
// MaxPostponesPerDay times. newTime is checked for HH:mm syntax only;
// callers derive it with domain.AddMinutesToTime or use PostponeBy.
func (s *TrackerService) PostponeTask(ctx context.Context, taskID string, date domain.Date, newTime string) (bool, error) {
	if err := domain.ValidateTimeOfDay(newTime); err != nil {
		return false, err
	}
	unlock := s.locks.Lock(domain.OccurrenceKey(taskID, date))
	defer unlock()

	task, existing, ok, err := s.postponable(ctx, taskID, date)
	if err != nil || !ok {
		return false, err
	}
	return s.postpone(ctx, task, existing, date, newTime)
}

// PostponeBy pushes the occurrence's effective time later by minutes. It
// reports false, with an empty time, when the result would cross midnight.
func (s *TrackerService) PostponeBy(ctx context.Context, taskID string, date domain.Date, minutes int) (bool, string, error) {
	if minutes <= 0 {
		return false, "", fmt.Errorf("postpone minutes must be positive, got %d", minutes)
	}
	unlock := s.locks.Lock(domain.OccurrenceKey(taskID, date))
	defer unlock()

	task, existing, ok, err := s.postponable(ctx, taskID, date)
	if err != nil || !ok {
		return false, "", err
	}
	current := task.NotificationTime
	if existing != nil && existing.CurrentTime != "" {
		current = existing.CurrentTime
	}
	newTime, ok := domain.AddMinutesToTime(current, minutes)
	if !ok {
		return false, "", nil
	}
	done, err := s.postpone(ctx, task, existing, date, newTime)
	if !done {
		return done, "", err
	}
	return true, newTime, nil
}

// PostponeOptions lists the minute steps still available for the occurrence.
func (s *TrackerService) PostponeOptions(ctx context.Context, taskID string, date domain.Date) ([]int, error) {
	task, existing, ok, err := s.postponable(ctx, taskID, date)
	if err != nil || !ok {
		return nil, err
	}
	current := task.NotificationTime
	if existing != nil && existing.CurrentTime != "" {
		current = existing.CurrentTime
	}
	return domain.PostponeOptions(current), nil
}

// postponable loads the task and state and checks the preconditions.
func (s *TrackerService) postponable(ctx context.Context, taskID string, date domain.Date) (*domain.Task, *domain.DailyTaskState, bool, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, nil, false, err
	}
	if task == nil || !task.IsActive || !task.HasTime() {
		return nil, nil, false, nil
	}
	existing, err := s.Storage.DailyStates().GetForTaskAndDate(ctx, taskID, date)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to read daily state: %w", err)
	}
	if !existing.CanPostpone() {
		return nil, nil, false, nil
	}
	return task, existing, true, nil
}

// loadTask reads the task from storage rather than the ledger, so tasks
// written by another process are seen. A missing task is nil, nil.
func (s *TrackerService) loadTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.Storage.Tasks().GetByID(ctx, taskID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task: %w", err)
	}
	s.Ledger.PutTask(task)
	return task, nil
}

func (s *TrackerService) postpone(ctx context.Context, task *domain.Task, existing *domain.DailyTaskState, date domain.Date, newTime string) (bool, error) {
	state := &domain.DailyTaskState{ID: domain.NewID(), TaskID: task.ID, Date: date}
	if existing != nil {
		state = existing.Clone()
	}
	state.Completed = false
	state.PostponeCount++
	state.CurrentTime = newTime

	if err := s.Storage.DailyStates().Upsert(ctx, state); err != nil {
		return false, fmt.Errorf("failed to save daily state: %w", err)
	}
	s.Ledger.PutState(state)

	if s.Reminders != nil {
		s.Reminders.Reschedule(ctx, task, date, newTime)
	}
	s.Logger.Info("task postponed",
		"task_id", task.ID,
		"date", date,
		"time", newTime,
		"postpone_count", state.PostponeCount,
	)
	return true, nil
}

// PlanReminders reloads storage and aligns today's triggers with it. The
// watch daemon calls this on start and at every day rollover.
func (s *TrackerService) PlanReminders(ctx context.Context) (scheduled, cancelled int, err error) {
	if s.Reminders == nil {
		return 0, 0, nil
	}
	if err := s.Ledger.Load(ctx); err != nil {
		return 0, 0, err
	}
	tasks, idx, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return 0, 0, err
	}
	scheduled, cancelled = s.Reminders.Sync(ctx, tasks, idx, s.today())
	s.Logger.Info("reminders planned", "scheduled", scheduled, "cancelled", cancelled)
	return scheduled, cancelled, nil
}
