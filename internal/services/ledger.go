package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
	"github.com/xvierd/chorebook/internal/schedule"
)

// Ledger is the in-memory mirror of the task list and state log. It is
// patched only after the corresponding repository write succeeded, so
// readers never observe a state that is not durable.
type Ledger struct {
	storage ports.Storage

	mu     sync.RWMutex
	loaded bool
	tasks  []*domain.Task
	states schedule.StateIndex
}

// NewLedger creates an empty ledger; it loads lazily on first read.
func NewLedger(storage ports.Storage) *Ledger {
	return &Ledger{storage: storage}
}

// Load replaces the mirror with the repository contents.
func (l *Ledger) Load(ctx context.Context) error {
	tasks, err := l.storage.Tasks().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	states, err := l.storage.DailyStates().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load daily states: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = tasks
	l.states = schedule.IndexStates(states)
	l.loaded = true
	return nil
}

func (l *Ledger) ensure(ctx context.Context) error {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return nil
	}
	return l.Load(ctx)
}

// Invalidate forces the next read to reload from storage.
func (l *Ledger) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = false
	l.tasks = nil
	l.states = nil
}

// Snapshot returns the current tasks and state index. Entries are shared
// and must be treated as read-only; patches swap pointers, never mutate.
func (l *Ledger) Snapshot(ctx context.Context) ([]*domain.Task, schedule.StateIndex, error) {
	if err := l.ensure(ctx); err != nil {
		return nil, nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.tasks), maps.Clone(l.states), nil
}

// PutTask inserts or replaces a task in the mirror.
func (l *Ledger) PutTask(task *domain.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return
	}
	c := task.Clone()
	if i := slices.IndexFunc(l.tasks, func(t *domain.Task) bool { return t.ID == task.ID }); i >= 0 {
		l.tasks[i] = c
		return
	}
	l.tasks = append(l.tasks, c)
}

// RemoveTask drops a task from the mirror.
func (l *Ledger) RemoveTask(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = slices.DeleteFunc(l.tasks, func(t *domain.Task) bool { return t.ID == id })
}

// PutState inserts or replaces a daily state in the mirror.
func (l *Ledger) PutState(state *domain.DailyTaskState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return
	}
	l.states[state.Key()] = state.Clone()
}
