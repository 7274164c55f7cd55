package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
)

type achievementRepository struct {
	mu       sync.Mutex
	unlocked collection[domain.Achievement]
}

func newAchievementRepository(c collection[domain.Achievement]) ports.AchievementRepository {
	return &achievementRepository{unlocked: c}
}

func (r *achievementRepository) GetUnlocked(ctx context.Context) ([]domain.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unlocked.load(ctx)
}

func (r *achievementRepository) Unlock(ctx context.Context, a domain.Achievement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.unlocked.load(ctx)
	if err != nil {
		return false, err
	}
	if slices.ContainsFunc(list, func(x domain.Achievement) bool { return x.ID == a.ID }) {
		return false, nil
	}
	if err := r.unlocked.save(ctx, append(list, a)); err != nil {
		return false, err
	}
	return true, nil
}
