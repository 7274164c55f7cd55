package domain

import "time"

// AchievementID identifies an achievement.
type AchievementID string

const (
	AchievementFirstTask     AchievementID = "first_task"
	AchievementStreak3       AchievementID = "streak_3"
	AchievementStreak7       AchievementID = "streak_7"
	AchievementStreak30      AchievementID = "streak_30"
	AchievementPerfectDay    AchievementID = "perfect_day"
	AchievementEarlyBird     AchievementID = "early_bird"
	AchievementNightOwl      AchievementID = "night_owl"
	AchievementTaskMaster10  AchievementID = "task_master_10"
	AchievementTaskMaster50  AchievementID = "task_master_50"
	AchievementTaskMaster100 AchievementID = "task_master_100"
)

// Achievement is a milestone. UnlockedAt is nil while locked.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	UnlockedAt  *time.Time    `json:"unlockedAt,omitempty"`
}

// Achievements is the catalogue in display order.
var Achievements = []Achievement{
	{ID: AchievementFirstTask, Name: "First task", Description: "Completed your very first task", Icon: "star"},
	{ID: AchievementStreak3, Name: "Three in a row", Description: "Everything done three days running", Icon: "fire"},
	{ID: AchievementStreak7, Name: "Weekly champion", Description: "A whole week without a miss", Icon: "trophy"},
	{ID: AchievementStreak30, Name: "Monthly star", Description: "Thirty perfect days", Icon: "crown"},
	{ID: AchievementPerfectDay, Name: "Perfect day", Description: "All of today's tasks completed", Icon: "check-circle"},
	{ID: AchievementEarlyBird, Name: "Early bird", Description: "Completed a task before 08:00", Icon: "weather-sunny"},
	{ID: AchievementNightOwl, Name: "Night owl", Description: "Completed a task after 20:00", Icon: "weather-night"},
	{ID: AchievementTaskMaster10, Name: "Beginner", Description: "Ten tasks completed in total", Icon: "numeric-10-circle"},
	{ID: AchievementTaskMaster50, Name: "Advanced", Description: "Fifty tasks completed in total", Icon: "medal"},
	{ID: AchievementTaskMaster100, Name: "Task master", Description: "One hundred tasks completed in total", Icon: "trophy-award"},
}

// LookupAchievement returns the catalogue entry for id.
func LookupAchievement(id AchievementID) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Progress is the input to achievement evaluation.
type Progress struct {
	TotalCompleted int
	Streak         int
	TodayCompleted int
	TodayTotal     int
	// CompletedAt is the wall-clock time of the completion being evaluated.
	// Zero skips the time-of-day achievements.
	CompletedAt time.Time
}

// EarnedAchievements lists every achievement p qualifies for, locked or not.
func EarnedAchievements(p Progress) []AchievementID {
	var earned []AchievementID
	thresholds := []struct {
		ok bool
		id AchievementID
	}{
		{p.TotalCompleted >= 1, AchievementFirstTask},
		{p.TotalCompleted >= 10, AchievementTaskMaster10},
		{p.TotalCompleted >= 50, AchievementTaskMaster50},
		{p.TotalCompleted >= 100, AchievementTaskMaster100},
		{p.TodayTotal > 0 && p.TodayCompleted == p.TodayTotal, AchievementPerfectDay},
		{p.Streak >= 3, AchievementStreak3},
		{p.Streak >= 7, AchievementStreak7},
		{p.Streak >= 30, AchievementStreak30},
	}
	for _, th := range thresholds {
		if th.ok {
			earned = append(earned, th.id)
		}
	}
	if !p.CompletedAt.IsZero() {
		switch hour := p.CompletedAt.Hour(); {
		case hour < 8:
			earned = append(earned, AchievementEarlyBird)
		case hour >= 20:
			earned = append(earned, AchievementNightOwl)
		}
	}
	return earned
}
