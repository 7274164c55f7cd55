// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/logging"
	"github.com/xvierd/chorebook/internal/ports"
)

// Deps bundles the collaborators shared by every service.
type Deps struct {
	Storage   ports.Storage
	Ledger    *Ledger
	Reminders *ReminderCoordinator
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = ports.SystemClock
	}
	d.Logger = logging.OrDiscard(d.Logger)
	if d.Ledger == nil {
		d.Ledger = NewLedger(d.Storage)
	}
	return d
}

func (d Deps) today() domain.Date {
	return domain.DateOf(d.Clock.Now())
}

// TaskService handles task definition use cases.
type TaskService struct {
	Deps
}

// NewTaskService creates a new task service.
func NewTaskService(deps Deps) *TaskService {
	return &TaskService{Deps: deps.withDefaults()}
}

// AddTaskRequest contains the data needed to create a new task. Identity,
// creation date and the active flag are assigned by AddTask.
type AddTaskRequest struct {
	Name             string
	Description      string
	DaysOfWeek       []domain.Weekday
	NotificationTime string
	CanBeCompleted   bool
}

func (r AddTaskRequest) spec() domain.TaskSpec {
	return domain.TaskSpec{
		Name:             r.Name,
		Description:      r.Description,
		DaysOfWeek:       r.DaysOfWeek,
		NotificationTime: r.NotificationTime,
		CanBeCompleted:   r.CanBeCompleted,
	}
}

// AddTask creates a new task and schedules today's reminder when due.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	today := s.today()
	task, err := domain.NewTask(req.spec(), today)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.Storage.Tasks().Add(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	s.Ledger.PutTask(task)

	if task.HasTime() && domain.IsDue(task, today) && s.Reminders != nil {
		s.Reminders.Schedule(ctx, task, today, task.NotificationTime)
	}
	s.Logger.Info("task added", "task_id", task.ID, "name", task.Name)

	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	IncludeInactive bool
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	tasks, _, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if req.IncludeInactive {
		return tasks, nil
	}
	active := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.Storage.Tasks().GetByID(ctx, id)
}

// FindTask resolves ref as a task id, then as a fuzzy name among active
// tasks.
func (s *TaskService) FindTask(ctx context.Context, ref string) (*domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrTaskNotFound
	}
	task, err := s.Storage.Tasks().GetByID(ctx, ref)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, domain.ErrTaskNotFound) {
		return nil, err
	}

	matches, err := s.Storage.Tasks().FindByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.IsActive {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrTaskNotFound, ref)
}

// UpdateTaskRequest carries the new editable fields of a task.
type UpdateTaskRequest = AddTaskRequest

// UpdateTask replaces the editable fields of a task and reschedules
// today's reminder. A postponed occurrence keeps its postponed time.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.Storage.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Apply(req.spec()); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	if err := s.Storage.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.Ledger.PutTask(task)

	if s.Reminders != nil {
		today := s.today()
		s.Reminders.Cancel(ctx, task.ID, today)
		if task.IsActive && task.HasTime() && domain.IsDue(task, today) {
			state, err := s.Storage.DailyStates().GetForTaskAndDate(ctx, task.ID, today)
			if err != nil {
				s.Logger.Warn("failed to read today's state", "task_id", task.ID, "error", err)
			}
			at := task.NotificationTime
			switch {
			case state != nil && state.Completed:
				at = ""
			case state != nil && state.PostponeCount > 0:
				at = state.CurrentTime
			}
			if at != "" {
				s.Reminders.Schedule(ctx, task, today, at)
			}
		}
	}
	s.Logger.Info("task updated", "task_id", task.ID)

	return task, nil
}

// DeleteTask deactivates a task and cancels its reminders. History stays
// intact. It reports false when the task does not exist.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (bool, error) {
	task, err := s.Storage.Tasks().GetByID(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	task.IsActive = false
	if err := s.Storage.Tasks().Update(ctx, task); err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	s.Ledger.PutTask(task)

	if s.Reminders != nil {
		n := s.Reminders.CancelAllForTask(ctx, task.ID)
		s.Logger.Info("task deactivated", "task_id", task.ID, "reminders_cancelled", n)
	}
	return true, nil
}

// PurgeTask removes a task permanently. Its daily states are kept so
// history totals do not change.
func (s *TaskService) PurgeTask(ctx context.Context, id string) (bool, error) {
	err := s.Storage.Tasks().Delete(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to purge task: %w", err)
	}
	s.Ledger.RemoveTask(id)
	if s.Reminders != nil {
		s.Reminders.CancelAllForTask(ctx, id)
	}
	s.Logger.Info("task purged", "task_id", id)
	return true, nil
}
