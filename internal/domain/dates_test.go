package domain

import (
	"slices"
	"testing"
	"time"
)

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		date Date
		want Weekday
	}{
		{"2024-03-04", Monday},
		{"2024-03-06", Wednesday},
		{"2024-03-09", Saturday},
		{"2024-03-10", Sunday},
	}
	for _, tt := range tests {
		if got := DayOfWeek(tt.date); got != tt.want {
			t.Errorf("DayOfWeek(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsDue(t *testing.T) {
	task := &Task{DaysOfWeek: AllWeekdays, CreatedAt: "2024-03-06"}

	tests := []struct {
		name string
		date Date
		want bool
	}{
		{"before creation", "2024-03-05", false},
		{"creation day", "2024-03-06", true},
		{"after creation", "2024-03-20", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(task, tt.date); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}

	weekdays := &Task{DaysOfWeek: []Weekday{Monday, Friday}, CreatedAt: "2024-01-01"}
	if !IsDue(weekdays, "2024-03-08") {
		t.Error("expected due on Friday")
	}
	if IsDue(weekdays, "2024-03-09") {
		t.Error("expected not due on Saturday")
	}
	if IsDue(nil, "2024-03-09") {
		t.Error("nil task is never due")
	}
}

func TestAddMinutesToTime(t *testing.T) {
	tests := []struct {
		in     string
		delta  int
		want   string
		wantOK bool
	}{
		{"08:00", 30, "08:30", true},
		{"08:45", 30, "09:15", true},
		{"23:50", 9, "23:59", true},
		{"23:55", 10, "", false},
		{"23:50", 10, "", false},
		{"bad", 10, "", false},
	}
	for _, tt := range tests {
		got, ok := AddMinutesToTime(tt.in, tt.delta)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("AddMinutesToTime(%q, %d) = %q, %v; want %q, %v", tt.in, tt.delta, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMaxPostponeMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"23:50", 0},
		{"23:39", 20},
		{"22:59", 60},
		{"08:00", 950},
	}
	for _, tt := range tests {
		if got := MaxPostponeMinutes(tt.in); got != tt.want {
			t.Errorf("MaxPostponeMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPostponeOptions(t *testing.T) {
	if got := PostponeOptions("08:00"); !slices.Equal(got, PostponeSteps) {
		t.Errorf("PostponeOptions(08:00) = %v", got)
	}
	if got := PostponeOptions("23:15"); !slices.Equal(got, []int{10, 20, 30, 40}) {
		t.Errorf("PostponeOptions(23:15) = %v", got)
	}
	if got := PostponeOptions("23:55"); len(got) != 0 {
		t.Errorf("PostponeOptions(23:55) = %v, want none", got)
	}
}

func TestTimeToMinutes(t *testing.T) {
	for _, bad := range []string{"", "7:00", "24:00", "12:60", "aa:bb", "12-00"} {
		if _, err := TimeToMinutes(bad); err == nil {
			t.Errorf("TimeToMinutes(%q) expected error", bad)
		}
	}
	got, err := TimeToMinutes("13:07")
	if err != nil || got != 787 {
		t.Errorf("TimeToMinutes(13:07) = %d, %v", got, err)
	}
	if MinutesToTime(787) != "13:07" {
		t.Errorf("MinutesToTime(787) = %s", MinutesToTime(787))
	}
}

func TestDate_Helpers(t *testing.T) {
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Error("ParseDate() accepted an impossible date")
	}
	d, err := ParseDate("2024-02-28")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got := d.AddDays(1); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s", got)
	}
	if got := d.AddDays(-28); got != "2024-01-31" {
		t.Errorf("AddDays(-28) = %s", got)
	}

	at, err := d.At("18:30", time.UTC)
	if err != nil {
		t.Fatalf("At() error = %v", err)
	}
	want := time.Date(2024, 2, 28, 18, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("At() = %v, want %v", at, want)
	}
	if DateOf(want) != d {
		t.Errorf("DateOf() = %s", DateOf(want))
	}
}
