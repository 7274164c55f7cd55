package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
)

// dailyStateRepository implements ports.DailyStateRepository.
type dailyStateRepository struct {
	mu     sync.Mutex
	states collection[*domain.DailyTaskState]
}

func newDailyStateRepository(c collection[*domain.DailyTaskState]) ports.DailyStateRepository {
	return &dailyStateRepository{states: c}
}

func (r *dailyStateRepository) GetAll(ctx context.Context) ([]*domain.DailyTaskState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states.load(ctx)
}

func (r *dailyStateRepository) filter(ctx context.Context, keep func(*domain.DailyTaskState) bool) ([]*domain.DailyTaskState, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.DailyTaskState
	for _, s := range all {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *dailyStateRepository) GetForDate(ctx context.Context, date domain.Date) ([]*domain.DailyTaskState, error) {
	return r.filter(ctx, func(s *domain.DailyTaskState) bool { return s.Date == date })
}

func (r *dailyStateRepository) GetDateRange(ctx context.Context, start, end domain.Date) ([]*domain.DailyTaskState, error) {
	return r.filter(ctx, func(s *domain.DailyTaskState) bool { return s.Date >= start && s.Date <= end })
}

func (r *dailyStateRepository) GetForTaskAndDate(ctx context.Context, taskID string, date domain.Date) (*domain.DailyTaskState, error) {
	matches, err := r.filter(ctx, func(s *domain.DailyTaskState) bool { return s.TaskID == taskID && s.Date == date })
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

// Upsert replaces the state sharing (taskId, date), or appends it.
func (r *dailyStateRepository) Upsert(ctx context.Context, state *domain.DailyTaskState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state.ID == "" {
		state.ID = domain.NewID()
	}
	all, err := r.states.load(ctx)
	if err != nil {
		return err
	}
	key := state.Key()
	if i := slices.IndexFunc(all, func(s *domain.DailyTaskState) bool { return s.Key() == key }); i >= 0 {
		all[i] = state
	} else {
		all = append(all, state)
	}
	return r.states.save(ctx, all)
}

func (r *dailyStateRepository) ReplaceAll(ctx context.Context, states []*domain.DailyTaskState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states.save(ctx, states)
}
