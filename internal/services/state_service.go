package services

import (
	"context"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
	"github.com/xvierd/chorebook/internal/schedule"
)

// StateService implements the MCPStateProvider interface on top of the
// other services. The MCP server outlives the CLI invocations that share
// its storage, so every call reloads the ledger first.
type StateService struct {
	tasks   *TaskService
	tracker *TrackerService
	stats   *StatsService
}

// NewStateService creates a new state service.
func NewStateService(tasks *TaskService, tracker *TrackerService, stats *StatsService) *StateService {
	return &StateService{tasks: tasks, tracker: tracker, stats: stats}
}

func (s *StateService) refresh(ctx context.Context) error {
	return s.tracker.Ledger.Load(ctx)
}

// Today implements ports.MCPStateProvider.
func (s *StateService) Today(ctx context.Context, date domain.Date) (schedule.Day, error) {
	if err := s.refresh(ctx); err != nil {
		return schedule.Day{}, err
	}
	return s.tracker.DailyTasks(ctx, date)
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, includeInactive bool) ([]*domain.Task, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.tasks.ListTasks(ctx, ListTasksRequest{IncludeInactive: includeInactive})
}

// AddTask implements ports.MCPStateProvider.
func (s *StateService) AddTask(ctx context.Context, spec domain.TaskSpec) (*domain.Task, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.tasks.AddTask(ctx, AddTaskRequest{
		Name:             spec.Name,
		Description:      spec.Description,
		DaysOfWeek:       spec.DaysOfWeek,
		NotificationTime: spec.NotificationTime,
		CanBeCompleted:   spec.CanBeCompleted,
	})
}

// Complete implements ports.MCPStateProvider.
func (s *StateService) Complete(ctx context.Context, taskRef string) (bool, error) {
	if err := s.refresh(ctx); err != nil {
		return false, err
	}
	task, err := s.tasks.FindTask(ctx, taskRef)
	if err != nil {
		return false, err
	}
	return s.tracker.CompleteTask(ctx, task.ID, s.tracker.today())
}

// Postpone implements ports.MCPStateProvider.
func (s *StateService) Postpone(ctx context.Context, taskRef string, minutes int) (bool, error) {
	if err := s.refresh(ctx); err != nil {
		return false, err
	}
	task, err := s.tasks.FindTask(ctx, taskRef)
	if err != nil {
		return false, err
	}
	ok, _, err := s.tracker.PostponeBy(ctx, task.ID, s.tracker.today(), minutes)
	return ok, err
}

// Stats implements ports.MCPStateProvider.
func (s *StateService) Stats(ctx context.Context, start, end domain.Date) (schedule.Completion, error) {
	if err := s.refresh(ctx); err != nil {
		return schedule.Completion{}, err
	}
	return s.stats.Range(ctx, start, end)
}

// Streak implements ports.MCPStateProvider.
func (s *StateService) Streak(ctx context.Context) (int, error) {
	if err := s.refresh(ctx); err != nil {
		return 0, err
	}
	return s.stats.Streak(ctx)
}

var _ ports.MCPStateProvider = (*StateService)(nil)
