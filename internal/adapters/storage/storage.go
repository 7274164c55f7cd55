package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend        string
	SQLitePath     string
	RedisURL       string
	RedisNamespace string
	Logger         *slog.Logger
}

// kvStorage implements ports.Storage on any ports.KVStore.
type kvStorage struct {
	kv               ports.KVStore
	taskRepo         ports.TaskRepository
	stateRepo        ports.DailyStateRepository
	achievementsRepo ports.AchievementRepository
}

// Ensure kvStorage implements ports.Storage.
var _ ports.Storage = (*kvStorage)(nil)

// New builds the repositories on top of kv.
func New(kv ports.KVStore, logger *slog.Logger) ports.Storage {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &kvStorage{
		kv:               kv,
		taskRepo:         newTaskRepository(collection[*domain.Task]{kv: kv, key: ports.KeyTasks, logger: logger}),
		stateRepo:        newDailyStateRepository(collection[*domain.DailyTaskState]{kv: kv, key: ports.KeyDailyStates, logger: logger}),
		achievementsRepo: newAchievementRepository(collection[domain.Achievement]{kv: kv, key: ports.KeyAchievements, logger: logger}),
	}
}

// NewMemory creates a storage backed by process memory, for tests.
func NewMemory() ports.Storage {
	return New(NewMemoryKV(), nil)
}

// Open connects the backend named in opts.
func Open(ctx context.Context, opts Options) (ports.Storage, error) {
	var (
		kv  ports.KVStore
		err error
	)
	switch opts.Backend {
	case BackendSQLite, "":
		if dir := filepath.Dir(opts.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		kv, err = NewSQLiteKV(opts.SQLitePath)
	case BackendRedis:
		kv, err = NewRedisKV(ctx, opts.RedisURL, opts.RedisNamespace)
	case BackendMemory:
		kv = NewMemoryKV()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return New(kv, opts.Logger), nil
}

func (s *kvStorage) Tasks() ports.TaskRepository               { return s.taskRepo }
func (s *kvStorage) DailyStates() ports.DailyStateRepository   { return s.stateRepo }
func (s *kvStorage) Achievements() ports.AchievementRepository { return s.achievementsRepo }
func (s *kvStorage) KV() ports.KVStore                         { return s.kv }

// Clear removes every chorebook key.
func (s *kvStorage) Clear(ctx context.Context) error {
	if err := s.kv.RemoveMany(ctx, ports.AllKeys); err != nil {
		return fmt.Errorf("failed to clear app data: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (s *kvStorage) Close() error {
	return s.kv.Close()
}
