package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		spec        TaskSpec
		wantErr     bool
		errExpected error
	}{
		{
			name: "valid scheduled task",
			spec: TaskSpec{Name: "Brush teeth", DaysOfWeek: []Weekday{Monday}, NotificationTime: "07:00"},
		},
		{
			name: "valid warning task",
			spec: TaskSpec{Name: "Take umbrella", DaysOfWeek: []Weekday{Friday}},
		},
		{
			name:        "empty name",
			spec:        TaskSpec{Name: "   ", DaysOfWeek: []Weekday{Monday}},
			wantErr:     true,
			errExpected: ErrEmptyTaskName,
		},
		{
			name:        "no days",
			spec:        TaskSpec{Name: "Homework"},
			wantErr:     true,
			errExpected: ErrNoDaysSelected,
		},
		{
			name:        "weekday out of range",
			spec:        TaskSpec{Name: "Homework", DaysOfWeek: []Weekday{0}},
			wantErr:     true,
			errExpected: ErrInvalidWeekday,
		},
		{
			name:        "bad time",
			spec:        TaskSpec{Name: "Homework", DaysOfWeek: []Weekday{Monday}, NotificationTime: "25:00"},
			wantErr:     true,
			errExpected: ErrInvalidTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.spec, "2024-03-04")

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewTask() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if !errors.Is(err, tt.errExpected) {
					t.Errorf("NewTask() error = %v, want %v", err, tt.errExpected)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewTask() unexpected error = %v", err)
			}
			if task.ID == "" {
				t.Error("NewTask() ID is empty")
			}
			if !task.IsActive {
				t.Error("NewTask() task should be active")
			}
			if task.CreatedAt != "2024-03-04" {
				t.Errorf("NewTask() createdAt = %v", task.CreatedAt)
			}
		})
	}
}

func TestNewTask_TrimsAndNormalizes(t *testing.T) {
	task, err := NewTask(TaskSpec{
		Name:        "  Make bed  ",
		Description: " before school ",
		DaysOfWeek:  []Weekday{Sunday, Monday, Monday, Wednesday},
	}, "2024-03-04")
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Name != "Make bed" {
		t.Errorf("Name = %q", task.Name)
	}
	if task.Description != "before school" {
		t.Errorf("Description = %q", task.Description)
	}
	if want := []Weekday{Monday, Wednesday, Sunday}; !slices.Equal(task.DaysOfWeek, want) {
		t.Errorf("DaysOfWeek = %v, want %v", task.DaysOfWeek, want)
	}
}

func TestTask_Apply(t *testing.T) {
	task, _ := NewTask(TaskSpec{Name: "Read", DaysOfWeek: []Weekday{Monday}}, "2024-03-04")
	id, created := task.ID, task.CreatedAt

	if err := task.Apply(TaskSpec{Name: "", DaysOfWeek: []Weekday{Monday}}); !errors.Is(err, ErrEmptyTaskName) {
		t.Errorf("Apply() error = %v, want ErrEmptyTaskName", err)
	}
	if task.Name != "Read" {
		t.Error("failed Apply() must not modify the task")
	}

	if err := task.Apply(TaskSpec{Name: "Read a book", DaysOfWeek: []Weekday{Tuesday}, NotificationTime: "16:00"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if task.ID != id || task.CreatedAt != created {
		t.Error("Apply() must not touch identity or creation date")
	}
	if task.NotificationTime != "16:00" || !task.RunsOn(Tuesday) || task.RunsOn(Monday) {
		t.Errorf("Apply() result = %+v", task)
	}
}

func TestTask_IsCompletable(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"scheduled", Task{NotificationTime: "08:00"}, true},
		{"scheduled ignores flag", Task{NotificationTime: "08:00", CanBeCompleted: false}, true},
		{"warning not completable", Task{}, false},
		{"warning completable", Task{CanBeCompleted: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsCompletable(); got != tt.want {
				t.Errorf("IsCompletable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{"1", Monday, false},
		{"7", Sunday, false},
		{"mon", Monday, false},
		{"Tu", Tuesday, false},
		{"saturday", Saturday, false},
		{"8", 0, true},
		{"x", 0, true},
		{"t", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTask_Clone(t *testing.T) {
	task := &Task{ID: "a", DaysOfWeek: []Weekday{Monday}}
	c := task.Clone()
	c.DaysOfWeek[0] = Friday
	if task.DaysOfWeek[0] != Monday {
		t.Error("Clone() shares the days slice")
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in      string
		want    []Weekday
		wantErr error
	}{
		{"mon,wed", []Weekday{Monday, Wednesday}, nil},
		{"5, 1 ,5", []Weekday{Monday, Friday}, nil},
		{"weekend", []Weekday{Saturday, Sunday}, nil},
		{"Daily", AllWeekdays, nil},
		{"weekdays", []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}, nil},
		{"", nil, ErrNoDaysSelected},
		{"mon,funday", nil, ErrInvalidWeekday},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDays(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseDays(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseDays(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
