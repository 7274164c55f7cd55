package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for every stored date.
// It sorts lexicographically, so plain string comparison orders dates.
const DateLayout = "2006-01-02"

// minutesPerDay is the first minute that falls on the next day.
const minutesPerDay = 24 * 60

// PostponeSteps are the increments offered when pushing a reminder later.
var PostponeSteps = []int{10, 20, 30, 40, 50, 60}

// Date is a calendar day in YYYY-MM-DD form.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date(s), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// Time returns midnight of d in loc. Invalid dates yield the zero time.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// At combines d with an "HH:mm" time of day in loc.
func (d Date) At(timeOfDay string, loc *time.Location) (time.Time, error) {
	minutes, err := TimeToMinutes(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	day := d.Time(loc)
	if day.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location()), nil
}

// DayOfWeek returns the weekday of d with Monday=1 and Sunday=7.
func DayOfWeek(d Date) Weekday {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return 0
	}
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// IsDue reports whether task recurs on date. A task is never due before
// the day it was created.
func IsDue(task *Task, date Date) bool {
	if task == nil || date < task.CreatedAt {
		return false
	}
	return task.RunsOn(DayOfWeek(date))
}

// ValidateTimeOfDay checks that s is a 24h "HH:mm" value.
func ValidateTimeOfDay(s string) error {
	_, err := TimeToMinutes(s)
	return err
}

// TimeToMinutes converts "HH:mm" into minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hours*60 + minutes, nil
}

// MinutesToTime formats minutes since midnight as "HH:mm".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutesToTime shifts timeOfDay by delta minutes. The second return
// value is false when the result would land on the next day or the input
// is malformed.
func AddMinutesToTime(timeOfDay string, delta int) (string, bool) {
	current, err := TimeToMinutes(timeOfDay)
	if err != nil {
		return "", false
	}
	total := current + delta
	if total >= minutesPerDay || total < 0 {
		return "", false
	}
	return MinutesToTime(total), true
}

// MaxPostponeMinutes is the largest same-day postponement from timeOfDay,
// rounded down to a 10 minute step.
func MaxPostponeMinutes(timeOfDay string) int {
	current, err := TimeToMinutes(timeOfDay)
	if err != nil {
		return 0
	}
	remaining := (minutesPerDay - 1) - current
	return remaining / 10 * 10
}

// PostponeOptions returns the PostponeSteps that keep timeOfDay on the same day.
func PostponeOptions(timeOfDay string) []int {
	limit := MaxPostponeMinutes(timeOfDay)
	options := make([]int, 0, len(PostponeSteps))
	for _, step := range PostponeSteps {
		if step <= limit {
			options = append(options, step)
		}
	}
	return options
}
