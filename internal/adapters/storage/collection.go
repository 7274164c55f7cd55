package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xvierd/chorebook/internal/ports"
)

// collection is a JSON array stored under a single key.
type collection[T any] struct {
	kv     ports.KVStore
	key    string
	logger *slog.Logger
}

// load reads the array. A missing key is empty. Corrupt JSON is logged and
// treated as empty so a damaged store never locks the user out.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.key, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("discarding corrupt collection", "key", c.key, "error", err)
		return nil, nil
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}
