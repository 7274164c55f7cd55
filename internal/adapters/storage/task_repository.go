package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
)

// taskRepository implements ports.TaskRepository over a JSON array.
type taskRepository struct {
	mu    sync.Mutex
	tasks collection[*domain.Task]
}

// newTaskRepository creates a new task repository.
func newTaskRepository(c collection[*domain.Task]) ports.TaskRepository {
	return &taskRepository{tasks: c}
}

// GetAll returns every stored task.
func (r *taskRepository) GetAll(ctx context.Context) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks.load(ctx)
}

// GetByID retrieves a task by its unique identifier.
func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.tasks.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// Add persists a new task.
func (r *taskRepository) Add(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.tasks.load(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(tasks, func(t *domain.Task) bool { return t.ID == task.ID }) {
		return fmt.Errorf("failed to save task %s: %w", task.ID, domain.ErrTaskExists)
	}
	return r.tasks.save(ctx, append(tasks, task))
}

// Update modifies an existing task.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.tasks.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(tasks, func(t *domain.Task) bool { return t.ID == task.ID })
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	tasks[i] = task
	return r.tasks.save(ctx, tasks)
}

// Delete removes a task from storage.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.tasks.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(tasks, func(t *domain.Task) bool { return t.ID == id })
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	return r.tasks.save(ctx, slices.Delete(tasks, i, i+1))
}

// FindByName does a fuzzy search for tasks by name. A case-insensitive
// exact match always ranks first.
func (r *taskRepository) FindByName(ctx context.Context, query string) ([]*domain.Task, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}

	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name
	}

	var result []*domain.Task
	for i, task := range tasks {
		if strings.EqualFold(task.Name, query) {
			result = append(result, tasks[i])
		}
	}
	for _, match := range fuzzy.Find(query, names) {
		if !strings.EqualFold(tasks[match.Index].Name, query) {
			result = append(result, tasks[match.Index])
		}
	}

	return result, nil
}

// ReplaceAll overwrites every task.
func (r *taskRepository) ReplaceAll(ctx context.Context, tasks []*domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks.save(ctx, tasks)
}
