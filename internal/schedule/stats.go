package schedule

import (
	"math"

	"github.com/xvierd/chorebook/internal/domain"
)

// MaxStreakDays bounds how far back Streak walks.
const MaxStreakDays = 365

// Completion tallies completable occurrences over a range.
type Completion struct {
	Completed      int `json:"completed"`
	Incomplete     int `json:"incomplete"`
	Total          int `json:"total"`
	CompletionRate int `json:"completionRate"`
}

// Day is the resolved view of a single date plus its tallies.
type Day struct {
	Date            domain.Date            `json:"date"`
	Tasks           []domain.TaskWithState `json:"tasks"`
	CompletedCount  int                    `json:"completedCount"`
	IncompleteCount int                    `json:"incompleteCount"`
	TotalCount      int                    `json:"totalCount"`
}

// Rate rounds completed/total to a whole percentage, 0 when total is 0.
func Rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func tally(views []domain.TaskWithState) (completed, total int) {
	for _, v := range views {
		if !v.IsCompletable() {
			continue
		}
		total++
		if v.IsCompleted() {
			completed++
		}
	}
	return completed, total
}

// DailyStats resolves date and counts its completable occurrences. Tasks
// holds the full resolved list, warnings included.
func DailyStats(date domain.Date, tasks []*domain.Task, idx StateIndex) Day {
	views := ResolveDay(date, tasks, idx)
	completed, total := tally(views)
	return Day{
		Date:            date,
		Tasks:           views,
		CompletedCount:  completed,
		IncompleteCount: total - completed,
		TotalCount:      total,
	}
}

// CompletionStats tallies every date in the inclusive range [start, end].
// An inverted range yields zero counts.
func CompletionStats(start, end domain.Date, tasks []*domain.Task, idx StateIndex) Completion {
	var c Completion
	for d := start; d <= end; {
		completed, total := tally(ResolveDay(d, tasks, idx))
		c.Completed += completed
		c.Total += total
		next := d.AddDays(1)
		if next == d {
			break // unparseable date
		}
		d = next
	}
	c.Incomplete = c.Total - c.Completed
	c.CompletionRate = Rate(c.Completed, c.Total)
	return c
}

// Streak counts consecutive perfect days walking back from today. Days
// without completable tasks are skipped; the first imperfect day stops the
// walk.
func Streak(today domain.Date, tasks []*domain.Task, idx StateIndex) int {
	streak := 0
	d := today
	for range MaxStreakDays {
		completed, total := tally(ResolveDay(d, tasks, idx))
		if total > 0 {
			if completed < total {
				break
			}
			streak++
		}
		d = d.AddDays(-1)
	}
	return streak
}
