// Package domain contains the core entities for chorebook: recurring task
// definitions, the sparse per-day state log, and the calendar arithmetic
// that joins them. Nothing here touches storage or the clock directly.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Common domain errors.
var (
	ErrEmptyTaskName   = errors.New("task name cannot be empty")
	ErrNoDaysSelected  = errors.New("task must run on at least one day")
	ErrInvalidWeekday  = errors.New("weekday must be between 1 (Monday) and 7 (Sunday)")
	ErrInvalidTime     = errors.New("invalid time, expected HH:mm")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskExists      = errors.New("task already exists")
	ErrInvalidImport   = errors.New("invalid import data")
	ErrNothingToImport = errors.New("import file contains no valid records")
)

// Weekday is a day index with Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists every weekday in calendar order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayShort = map[Weekday]string{
	Monday:    "Mo",
	Tuesday:   "Tu",
	Wednesday: "We",
	Thursday:  "Th",
	Friday:    "Fr",
	Saturday:  "Sa",
	Sunday:    "Su",
}

// IsValid reports whether w is in 1..7.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// Short returns a two-letter label such as "Mo".
func (w Weekday) Short() string {
	if label, ok := weekdayShort[w]; ok {
		return label
	}
	return "??"
}

// ParseWeekday accepts a number (1-7) or an English day prefix ("mon", "tu").
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return Weekday(s[0] - '0'), nil
	}
	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	if len(s) >= 2 {
		for i, name := range names {
			if strings.HasPrefix(name, s) {
				return Weekday(i + 1), nil
			}
		}
	}
	return 0, ErrInvalidWeekday
}

// ParseDays reads a comma separated day list such as "mon,wed,5". The
// shorthands "daily", "weekdays" and "weekend" are accepted too.
func ParseDays(s string) ([]Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "all":
		return slices.Clone(AllWeekdays), nil
	case "weekdays":
		return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}, nil
	case "weekend":
		return []Weekday{Saturday, Sunday}, nil
	}
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, part)
		}
		days = append(days, d)
	}
	return NormalizeDays(days)
}

// NormalizeDays validates days and returns them sorted with duplicates removed.
func NormalizeDays(days []Weekday) ([]Weekday, error) {
	if len(days) == 0 {
		return nil, ErrNoDaysSelected
	}
	out := make([]Weekday, 0, len(days))
	for _, d := range days {
		if !d.IsValid() {
			return nil, ErrInvalidWeekday
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Task is a recurring chore definition. Tasks act as templates; what
// happened on a given day lives in DailyTaskState.
type Task struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	DaysOfWeek       []Weekday `json:"daysOfWeek"`
	NotificationTime string    `json:"notificationTime,omitempty"`
	CanBeCompleted   bool      `json:"canBeCompleted,omitempty"`
	CreatedAt        Date      `json:"createdAt"`
	IsActive         bool      `json:"isActive"`
}

// TaskSpec holds the caller-settable fields of a task. Identity, creation
// date, and the active flag are deliberately absent.
type TaskSpec struct {
	Name             string
	Description      string
	DaysOfWeek       []Weekday
	NotificationTime string
	CanBeCompleted   bool
}

// Validate trims and checks the spec in place.
func (s *TaskSpec) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.NotificationTime = strings.TrimSpace(s.NotificationTime)
	if s.Name == "" {
		return ErrEmptyTaskName
	}
	days, err := NormalizeDays(s.DaysOfWeek)
	if err != nil {
		return err
	}
	s.DaysOfWeek = days
	if s.NotificationTime != "" {
		if err := ValidateTimeOfDay(s.NotificationTime); err != nil {
			return err
		}
	}
	return nil
}

// NewTask creates an active task created on today.
func NewTask(spec TaskSpec, today Date) (*Task, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Task{
		ID:               NewID(),
		Name:             spec.Name,
		Description:      spec.Description,
		DaysOfWeek:       spec.DaysOfWeek,
		NotificationTime: spec.NotificationTime,
		CanBeCompleted:   spec.CanBeCompleted,
		CreatedAt:        today,
		IsActive:         true,
	}, nil
}

// Apply copies the editable fields of spec onto the task.
func (t *Task) Apply(spec TaskSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	t.Name = spec.Name
	t.Description = spec.Description
	t.DaysOfWeek = spec.DaysOfWeek
	t.NotificationTime = spec.NotificationTime
	t.CanBeCompleted = spec.CanBeCompleted
	return nil
}

// Spec returns the editable fields of the task.
func (t *Task) Spec() TaskSpec {
	return TaskSpec{
		Name:             t.Name,
		Description:      t.Description,
		DaysOfWeek:       slices.Clone(t.DaysOfWeek),
		NotificationTime: t.NotificationTime,
		CanBeCompleted:   t.CanBeCompleted,
	}
}

// HasTime reports whether the task is a scheduled task with a reminder.
func (t *Task) HasTime() bool {
	return t.NotificationTime != ""
}

// IsWarning reports whether the task is a reminder banner without a time.
func (t *Task) IsWarning() bool {
	return t.NotificationTime == ""
}

// IsCompletable reports whether completing the task is meaningful.
// Scheduled tasks always are; warnings only when flagged.
func (t *Task) IsCompletable() bool {
	return t.HasTime() || t.CanBeCompleted
}

// RunsOn reports whether the task recurs on weekday w.
func (t *Task) RunsOn(w Weekday) bool {
	return slices.Contains(t.DaysOfWeek, w)
}

// Clone returns a deep copy.
func (t *Task) Clone() *Task {
	c := *t
	c.DaysOfWeek = slices.Clone(t.DaysOfWeek)
	return &c
}
