package domain

import (
	"time"
)

// MaxPostponesPerDay is the hard ceiling on postponements per occurrence.
const MaxPostponesPerDay = 2

// DailyTaskState records what happened to one occurrence of a task.
// At most one exists per (TaskID, Date); absence means untouched.
type DailyTaskState struct {
	ID            string     `json:"id"`
	TaskID        string     `json:"taskId"`
	Date          Date       `json:"date"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	PostponeCount int        `json:"postponeCount"`
	CurrentTime   string     `json:"currentTime"`
}

// OccurrenceKey builds the composite key for a (taskID, date) pair.
func OccurrenceKey(taskID string, date Date) string {
	return taskID + "|" + string(date)
}

// Key returns the occurrence key of s.
func (s *DailyTaskState) Key() string {
	return OccurrenceKey(s.TaskID, s.Date)
}

// CanPostpone reports whether another postponement is allowed.
func (s *DailyTaskState) CanPostpone() bool {
	return s == nil || (!s.Completed && s.PostponeCount < MaxPostponesPerDay)
}

// PostponesLeft returns how many postponements remain today.
func (s *DailyTaskState) PostponesLeft() int {
	if s == nil {
		return MaxPostponesPerDay
	}
	if s.Completed {
		return 0
	}
	return max(MaxPostponesPerDay-s.PostponeCount, 0)
}

// Clone returns a copy that shares no pointers with s.
func (s *DailyTaskState) Clone() *DailyTaskState {
	c := *s
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// TaskWithState is a task joined with its state for a single day.
// State is nil when the occurrence is untouched.
type TaskWithState struct {
	Task  *Task           `json:"task"`
	Date  Date            `json:"date"`
	State *DailyTaskState `json:"state,omitempty"`
}

// IsCompleted reports whether the occurrence has been completed.
func (v TaskWithState) IsCompleted() bool {
	return v.State != nil && v.State.Completed
}

// IsCompletable reports whether the occurrence counts toward statistics.
func (v TaskWithState) IsCompletable() bool {
	return v.Task.IsCompletable()
}

// EffectiveTime is the reminder time for the day: the postponed time when
// a state exists, otherwise the task's own time. Empty for warnings.
func (v TaskWithState) EffectiveTime() string {
	if v.State != nil && v.State.CurrentTime != "" {
		return v.State.CurrentTime
	}
	return v.Task.NotificationTime
}

// PostponeCount returns the number of postponements used today.
func (v TaskWithState) PostponeCount() int {
	if v.State == nil {
		return 0
	}
	return v.State.PostponeCount
}
