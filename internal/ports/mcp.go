package ports

import (
	"context"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/schedule"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider exposes chorebook operations to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// Today resolves the given date, or today when date is empty.
	Today(ctx context.Context, date domain.Date) (schedule.Day, error)

	// ListTasks returns tasks; inactive ones only when includeInactive.
	ListTasks(ctx context.Context, includeInactive bool) ([]*domain.Task, error)

	// AddTask creates a task.
	AddTask(ctx context.Context, spec domain.TaskSpec) (*domain.Task, error)

	// Complete marks today's occurrence of the named or identified task.
	Complete(ctx context.Context, taskRef string) (bool, error)

	// Postpone pushes today's reminder of the task later by minutes.
	Postpone(ctx context.Context, taskRef string, minutes int) (bool, error)

	// Stats tallies the inclusive date range.
	Stats(ctx context.Context, start, end domain.Date) (schedule.Completion, error)

	// Streak returns the current perfect-day streak.
	Streak(ctx context.Context) (int, error)
}
