package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportVersion is written into every export file.
const ExportVersion = "1.0"

// ExportData is the on-disk backup format.
type ExportData struct {
	Version     string            `json:"version"`
	ExportedAt  time.Time         `json:"exportedAt"`
	Tasks       []*Task           `json:"tasks,omitempty"`
	DailyStates []*DailyTaskState `json:"dailyStates,omitempty"`
}

// ImportResult reports how many records were newly inserted.
type ImportResult struct {
	TasksImported  int `json:"tasksImported"`
	StatesImported int `json:"statesImported"`
}

// ImportPreview summarizes a file before it is applied. Skipped counts are
// records dropped by validation.
type ImportPreview struct {
	Data          *ExportData `json:"-"`
	TasksCount    int         `json:"tasksCount"`
	StatesCount   int         `json:"statesCount"`
	SkippedTasks  int         `json:"skippedTasks"`
	SkippedStates int         `json:"skippedStates"`
}

// ParseExport validates raw export JSON. Records missing required fields or
// carrying the wrong types are dropped; a file with nothing valid is an error.
func ParseExport(raw []byte) (*ImportPreview, error) {
	var envelope struct {
		Version     json.RawMessage `json:"version"`
		ExportedAt  json.RawMessage `json:"exportedAt"`
		Tasks       json.RawMessage `json:"tasks"`
		DailyStates json.RawMessage `json:"dailyStates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	var version string
	if err := json.Unmarshal(envelope.Version, &version); err != nil || len(envelope.Version) == 0 {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidImport)
	}

	preview := &ImportPreview{Data: &ExportData{Version: version}}
	_ = json.Unmarshal(envelope.ExportedAt, &preview.Data.ExportedAt)

	taskRecords, err := splitArray(envelope.Tasks, "tasks")
	if err != nil {
		return nil, err
	}
	for _, rec := range taskRecords {
		task, ok := decodeTask(rec)
		if !ok {
			preview.SkippedTasks++
			continue
		}
		preview.Data.Tasks = append(preview.Data.Tasks, task)
	}

	stateRecords, err := splitArray(envelope.DailyStates, "dailyStates")
	if err != nil {
		return nil, err
	}
	for _, rec := range stateRecords {
		state, ok := decodeState(rec)
		if !ok {
			preview.SkippedStates++
			continue
		}
		preview.Data.DailyStates = append(preview.Data.DailyStates, state)
	}

	preview.TasksCount = len(preview.Data.Tasks)
	preview.StatesCount = len(preview.Data.DailyStates)
	if preview.TasksCount == 0 && preview.StatesCount == 0 {
		return nil, ErrNothingToImport
	}
	return preview, nil
}

func splitArray(raw json.RawMessage, field string) ([]json.RawMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidImport, field)
	}
	return records, nil
}

// hasTypes checks that every named field is present with the given JSON kind.
func hasTypes(rec json.RawMessage, want map[string]string) bool {
	var fields map[string]any
	if err := json.Unmarshal(rec, &fields); err != nil {
		return false
	}
	for name, kind := range want {
		v, ok := fields[name]
		if !ok {
			return false
		}
		switch kind {
		case "string":
			_, ok = v.(string)
		case "bool":
			_, ok = v.(bool)
		case "number":
			_, ok = v.(float64)
		case "array":
			_, ok = v.([]any)
		}
		if !ok {
			return false
		}
	}
	return true
}

func decodeTask(rec json.RawMessage) (*Task, bool) {
	if !hasTypes(rec, map[string]string{
		"id": "string", "name": "string", "daysOfWeek": "array",
		"createdAt": "string", "isActive": "bool",
	}) {
		return nil, false
	}
	var task Task
	if err := json.Unmarshal(rec, &task); err != nil {
		return nil, false
	}
	return &task, true
}

func decodeState(rec json.RawMessage) (*DailyTaskState, bool) {
	if !hasTypes(rec, map[string]string{
		"id": "string", "taskId": "string", "date": "string",
		"completed": "bool", "postponeCount": "number", "currentTime": "string",
	}) {
		return nil, false
	}
	var state DailyTaskState
	if err := json.Unmarshal(rec, &state); err != nil {
		return nil, false
	}
	return &state, true
}
