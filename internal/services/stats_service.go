package services

import (
	"context"
	"fmt"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/schedule"
)

// Period names accepted by StatsService.PeriodRange.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// StatsService answers history questions from the ledger.
type StatsService struct {
	Deps
}

// NewStatsService creates a stats service.
func NewStatsService(deps Deps) *StatsService {
	return &StatsService{Deps: deps.withDefaults()}
}

// Report is a range summary plus one entry per day.
type Report struct {
	Start  domain.Date         `json:"start"`
	End    domain.Date         `json:"end"`
	Totals schedule.Completion `json:"totals"`
	Days   []DayRate           `json:"days"`
	Streak int                 `json:"streak"`
}

// DayRate is one bar of the history chart.
type DayRate struct {
	Date      domain.Date `json:"date"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Rate      int         `json:"rate"`
}

// Range tallies the inclusive range [start, end].
func (s *StatsService) Range(ctx context.Context, start, end domain.Date) (schedule.Completion, error) {
	tasks, idx, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return schedule.Completion{}, err
	}
	return schedule.CompletionStats(start, end, tasks, idx), nil
}

// Streak returns the perfect-day streak ending today.
func (s *StatsService) Streak(ctx context.Context) (int, error) {
	tasks, idx, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return schedule.Streak(s.today(), tasks, idx), nil
}

// PeriodRange returns the trailing window ending today: 7 days for a week,
// 30 for a month.
func (s *StatsService) PeriodRange(period string) (domain.Date, domain.Date, error) {
	today := s.today()
	switch period {
	case PeriodWeek, "":
		return today.AddDays(-6), today, nil
	case PeriodMonth:
		return today.AddDays(-29), today, nil
	default:
		return "", "", fmt.Errorf("unknown period %q (want week or month)", period)
	}
}

// Report builds the summary for [start, end].
func (s *StatsService) Report(ctx context.Context, start, end domain.Date) (*Report, error) {
	if end < start {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	tasks, idx, err := s.Ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Start:  start,
		End:    end,
		Totals: schedule.CompletionStats(start, end, tasks, idx),
		Streak: schedule.Streak(s.today(), tasks, idx),
	}
	for d := start; d <= end; d = d.AddDays(1) {
		day := schedule.DailyStats(d, tasks, idx)
		r.Days = append(r.Days, DayRate{
			Date:      d,
			Completed: day.CompletedCount,
			Total:     day.TotalCount,
			Rate:      schedule.Rate(day.CompletedCount, day.TotalCount),
		})
	}
	return r, nil
}
