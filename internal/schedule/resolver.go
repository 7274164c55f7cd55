// Package schedule joins recurring task definitions with the sparse daily
// state log. Every function here is pure: inputs are loaded up front and
// nothing is read from storage or the clock.
package schedule

import (
	"cmp"
	"slices"

	"github.com/xvierd/chorebook/internal/domain"
)

// StateIndex maps an occurrence key (see domain.OccurrenceKey) to its state.
type StateIndex map[string]*domain.DailyTaskState

// IndexStates builds a StateIndex. Later entries win on duplicate keys.
func IndexStates(states []*domain.DailyTaskState) StateIndex {
	idx := make(StateIndex, len(states))
	for _, s := range states {
		idx[s.Key()] = s
	}
	return idx
}

// Lookup returns the state for (taskID, date) or nil.
func (idx StateIndex) Lookup(taskID string, date domain.Date) *domain.DailyTaskState {
	return idx[domain.OccurrenceKey(taskID, date)]
}

// ResolveDay returns the active tasks due on date joined with their state.
// Warnings come first ordered by name, then timed tasks by effective time
// with name as the tie breaker.
func ResolveDay(date domain.Date, tasks []*domain.Task, idx StateIndex) []domain.TaskWithState {
	out := make([]domain.TaskWithState, 0, len(tasks))
	for _, task := range tasks {
		if !task.IsActive || !domain.IsDue(task, date) {
			continue
		}
		out = append(out, domain.TaskWithState{
			Task:  task,
			Date:  date,
			State: idx.Lookup(task.ID, date),
		})
	}
	slices.SortStableFunc(out, compareView)
	return out
}

func compareView(a, b domain.TaskWithState) int {
	aWarn, bWarn := a.Task.IsWarning(), b.Task.IsWarning()
	switch {
	case aWarn && !bWarn:
		return -1
	case !aWarn && bWarn:
		return 1
	case !aWarn:
		// HH:mm sorts correctly as a string.
		if c := cmp.Compare(a.EffectiveTime(), b.EffectiveTime()); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Task.Name, b.Task.Name)
}

// Completable filters views down to those that count toward statistics.
func Completable(views []domain.TaskWithState) []domain.TaskWithState {
	out := make([]domain.TaskWithState, 0, len(views))
	for _, v := range views {
		if v.IsCompletable() {
			out = append(out, v)
		}
	}
	return out
}

// PendingReminders returns the timed, uncompleted occurrences of a day,
// i.e. the ones that still need a notification trigger.
func PendingReminders(views []domain.TaskWithState) []domain.TaskWithState {
	out := make([]domain.TaskWithState, 0, len(views))
	for _, v := range views {
		if v.Task.HasTime() && !v.IsCompleted() {
			out = append(out, v)
		}
	}
	return out
}
