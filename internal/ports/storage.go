// Package ports defines the interfaces (driven and driving ports)
// for chorebook following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/chorebook/internal/domain"
)

// Storage keys for the persisted collections.
const (
	KeyAuth         = "@chorebook_auth"
	KeyTasks        = "@chorebook_tasks"
	KeyDailyStates  = "@chorebook_daily_states"
	KeyAchievements = "@chorebook_achievements"
	KeyTriggers     = "@chorebook_triggers"
)

// AllKeys lists every key owned by chorebook, used for a full wipe.
var AllKeys = []string{KeyAuth, KeyTasks, KeyDailyStates, KeyAchievements, KeyTriggers}

// KVStore is a string-keyed document store holding raw JSON values.
// This is a driven port (implemented by adapters).
type KVStore interface {
	// Get returns the stored value, or nil with no error when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// RemoveMany deletes several keys at once.
	RemoveMany(ctx context.Context, keys []string) error

	// Close releases the underlying connection.
	Close() error
}

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// GetAll returns every task, inactive ones included.
	GetAll(ctx context.Context) ([]*domain.Task, error)

	// GetByID returns domain.ErrTaskNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// Add appends a task that already carries its id.
	Add(ctx context.Context, task *domain.Task) error

	// Update replaces the task with the same id.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	Delete(ctx context.Context, id string) error

	// FindByName fuzzy-matches task names, best match first.
	FindByName(ctx context.Context, query string) ([]*domain.Task, error)

	// ReplaceAll overwrites the whole collection.
	ReplaceAll(ctx context.Context, tasks []*domain.Task) error
}

// DailyStateRepository defines the interface for the per-day state log.
// This is a driven port (implemented by adapters).
type DailyStateRepository interface {
	// GetAll returns the whole log.
	GetAll(ctx context.Context) ([]*domain.DailyTaskState, error)

	// GetForDate returns every state recorded on date.
	GetForDate(ctx context.Context, date domain.Date) ([]*domain.DailyTaskState, error)

	// GetForTaskAndDate returns nil, nil when the occurrence is untouched.
	GetForTaskAndDate(ctx context.Context, taskID string, date domain.Date) (*domain.DailyTaskState, error)

	// GetDateRange returns states with start <= date <= end.
	GetDateRange(ctx context.Context, start, end domain.Date) ([]*domain.DailyTaskState, error)

	// Upsert inserts the state or replaces the one with the same (taskId, date).
	Upsert(ctx context.Context, state *domain.DailyTaskState) error

	// ReplaceAll overwrites the whole log.
	ReplaceAll(ctx context.Context, states []*domain.DailyTaskState) error
}

// AchievementRepository persists the unlock list.
// This is a driven port (implemented by adapters).
type AchievementRepository interface {
	// GetUnlocked returns unlocked achievements in unlock order.
	GetUnlocked(ctx context.Context) ([]domain.Achievement, error)

	// Unlock records a new unlock. It reports false when already unlocked.
	Unlock(ctx context.Context, a domain.Achievement) (bool, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	Tasks() TaskRepository
	DailyStates() DailyStateRepository
	Achievements() AchievementRepository

	// KV exposes the raw store for wipes and the trigger queue.
	KV() KVStore

	// Clear removes every chorebook key.
	Clear(ctx context.Context) error

	// Close closes the storage connection.
	Close() error
}
