package services

import (
	"context"
	"fmt"

	"github.com/xvierd/chorebook/internal/domain"
)

// DataService handles backup, restore and wipe.
type DataService struct {
	Deps
}

// NewDataService creates a data service.
func NewDataService(deps Deps) *DataService {
	return &DataService{Deps: deps.withDefaults()}
}

// ExportOptions selects the collections to export.
type ExportOptions struct {
	Tasks  bool
	States bool
}

// Export builds a backup document straight from storage.
func (s *DataService) Export(ctx context.Context, opts ExportOptions) (*domain.ExportData, error) {
	if !opts.Tasks && !opts.States {
		return nil, fmt.Errorf("nothing selected for export")
	}
	data := &domain.ExportData{
		Version:    domain.ExportVersion,
		ExportedAt: s.Clock.Now().UTC(),
	}
	if opts.Tasks {
		tasks, err := s.Storage.Tasks().GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to export tasks: %w", err)
		}
		data.Tasks = tasks
	}
	if opts.States {
		states, err := s.Storage.DailyStates().GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to export daily states: %w", err)
		}
		data.DailyStates = states
	}
	return data, nil
}

// Preview validates raw export JSON without writing anything.
func (s *DataService) Preview(raw []byte) (*domain.ImportPreview, error) {
	return domain.ParseExport(raw)
}

// Import adds records that do not exist yet. Tasks match by id and states
// by (taskId, date); existing records are never overwritten, so importing
// the same file twice inserts nothing the second time.
func (s *DataService) Import(ctx context.Context, data *domain.ExportData) (domain.ImportResult, error) {
	var result domain.ImportResult
	if data == nil {
		return result, domain.ErrNothingToImport
	}

	if len(data.Tasks) > 0 {
		tasks, err := s.Storage.Tasks().GetAll(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to load tasks: %w", err)
		}
		seen := make(map[string]bool, len(tasks))
		for _, t := range tasks {
			seen[t.ID] = true
		}
		for _, t := range data.Tasks {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			tasks = append(tasks, t)
			result.TasksImported++
		}
		if result.TasksImported > 0 {
			if err := s.Storage.Tasks().ReplaceAll(ctx, tasks); err != nil {
				return domain.ImportResult{}, fmt.Errorf("failed to import tasks: %w", err)
			}
		}
	}

	if len(data.DailyStates) > 0 {
		states, err := s.Storage.DailyStates().GetAll(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to load daily states: %w", err)
		}
		seen := make(map[string]bool, len(states))
		for _, st := range states {
			seen[st.Key()] = true
		}
		for _, st := range data.DailyStates {
			if seen[st.Key()] {
				continue
			}
			seen[st.Key()] = true
			states = append(states, st)
			result.StatesImported++
		}
		if result.StatesImported > 0 {
			if err := s.Storage.DailyStates().ReplaceAll(ctx, states); err != nil {
				return result, fmt.Errorf("failed to import daily states: %w", err)
			}
		}
	}

	s.Ledger.Invalidate()
	s.Logger.Info("import finished", "tasks", result.TasksImported, "states", result.StatesImported)
	return result, nil
}

// ClearAppData wipes every chorebook key, including pending reminders.
func (s *DataService) ClearAppData(ctx context.Context) error {
	if err := s.Storage.Clear(ctx); err != nil {
		return err
	}
	s.Ledger.Invalidate()
	s.Logger.Warn("all app data cleared")
	return nil
}
