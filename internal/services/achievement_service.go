package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/schedule"
)

// AchievementService evaluates and lists achievements.
type AchievementService struct {
	Deps
}

// NewAchievementService creates an achievement service.
func NewAchievementService(deps Deps) *AchievementService {
	return &AchievementService{Deps: deps.withDefaults()}
}

// List returns the full catalogue with unlock times filled in.
func (s *AchievementService) List(ctx context.Context) ([]domain.Achievement, error) {
	unlocked, err := s.Storage.Achievements().GetUnlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	at := make(map[domain.AchievementID]*time.Time, len(unlocked))
	for _, a := range unlocked {
		at[a.ID] = a.UnlockedAt
	}

	out := make([]domain.Achievement, len(domain.Achievements))
	for i, a := range domain.Achievements {
		a.UnlockedAt = at[a.ID]
		out[i] = a
	}
	return out, nil
}

// Evaluate unlocks whatever the current history qualifies for and returns
// only the newly unlocked achievements. completedAt drives the early bird
// and night owl checks; pass the zero time to skip them.
func (s *AchievementService) Evaluate(ctx context.Context, completedAt time.Time) ([]domain.Achievement, error) {
	tasks, idx, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	day := schedule.DailyStats(today, tasks, idx)

	totalCompleted := 0
	for _, st := range idx {
		if st.Completed {
			totalCompleted++
		}
	}

	earned := domain.EarnedAchievements(domain.Progress{
		TotalCompleted: totalCompleted,
		Streak:         schedule.Streak(today, tasks, idx),
		TodayCompleted: day.CompletedCount,
		TodayTotal:     day.TotalCount,
		CompletedAt:    completedAt,
	})

	now := s.Clock.Now()
	var fresh []domain.Achievement
	for _, id := range earned {
		a, ok := domain.LookupAchievement(id)
		if !ok {
			continue
		}
		unlockedAt := now
		a.UnlockedAt = &unlockedAt
		added, err := s.Storage.Achievements().Unlock(ctx, a)
		if err != nil {
			return fresh, fmt.Errorf("failed to unlock %s: %w", id, err)
		}
		if added {
			fresh = append(fresh, a)
		}
	}
	return fresh, nil
}
