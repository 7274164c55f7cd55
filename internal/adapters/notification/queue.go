package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/xvierd/chorebook/internal/logging"
	"github.com/xvierd/chorebook/internal/ports"
)

// Trigger is a pending reminder.
type Trigger struct {
	ID      string               `json:"id"`
	At      time.Time            `json:"at"`
	Payload ports.TriggerPayload `json:"payload"`
}

// TriggerQueue implements ports.TriggerScheduler by persisting triggers in
// the key-value store. Short-lived CLI invocations enqueue; the watch
// daemon drains.
type TriggerQueue struct {
	mu     sync.Mutex
	kv     ports.KVStore
	logger *slog.Logger
}

var _ ports.TriggerScheduler = (*TriggerQueue)(nil)

// NewTriggerQueue creates a queue stored under ports.KeyTriggers.
func NewTriggerQueue(kv ports.KVStore, logger *slog.Logger) *TriggerQueue {
	return &TriggerQueue{kv: kv, logger: logging.OrDiscard(logger)}
}

func (q *TriggerQueue) load(ctx context.Context) ([]Trigger, error) {
	raw, err := q.kv.Get(ctx, ports.KeyTriggers)
	if err != nil {
		return nil, fmt.Errorf("failed to load triggers: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var triggers []Trigger
	if err := json.Unmarshal(raw, &triggers); err != nil {
		q.logger.Warn("discarding corrupt trigger queue", "error", err)
		return nil, nil
	}
	return triggers, nil
}

func (q *TriggerQueue) save(ctx context.Context, triggers []Trigger) error {
	slices.SortFunc(triggers, func(a, b Trigger) int { return a.At.Compare(b.At) })
	raw, err := json.Marshal(triggers)
	if err != nil {
		return fmt.Errorf("failed to encode triggers: %w", err)
	}
	if err := q.kv.Set(ctx, ports.KeyTriggers, raw); err != nil {
		return fmt.Errorf("failed to save triggers: %w", err)
	}
	return nil
}

// ScheduleAt enqueues a trigger, replacing one with the same id.
func (q *TriggerQueue) ScheduleAt(ctx context.Context, id string, at time.Time, payload ports.TriggerPayload) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	triggers, err := q.load(ctx)
	if err != nil {
		return "", err
	}
	triggers = slices.DeleteFunc(triggers, func(t Trigger) bool { return t.ID == id })
	triggers = append(triggers, Trigger{ID: id, At: at, Payload: payload})
	if err := q.save(ctx, triggers); err != nil {
		return "", err
	}
	return id, nil
}

// Cancel removes a pending trigger.
func (q *TriggerQueue) Cancel(ctx context.Context, id string) error {
	return q.remove(ctx, func(t Trigger) bool { return t.ID == id })
}

// ListScheduledIDs returns pending ids ordered by fire time.
func (q *TriggerQueue) ListScheduledIDs(ctx context.Context) ([]string, error) {
	triggers, err := q.Pending(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(triggers))
	for i, t := range triggers {
		ids[i] = t.ID
	}
	return ids, nil
}

// Pending returns every queued trigger ordered by fire time.
func (q *TriggerQueue) Pending(ctx context.Context) ([]Trigger, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// Due returns triggers whose time is at or before now.
func (q *TriggerQueue) Due(ctx context.Context, now time.Time) ([]Trigger, error) {
	triggers, err := q.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var due []Trigger
	for _, t := range triggers {
		if !t.At.After(now) {
			due = append(due, t)
		}
	}
	return due, nil
}

// Ack removes fired triggers. An entry is removed only if its fire time
// still matches, so a trigger rescheduled under the same id while the
// reminder was being delivered stays queued.
func (q *TriggerQueue) Ack(ctx context.Context, fired ...Trigger) error {
	if len(fired) == 0 {
		return nil
	}
	return q.remove(ctx, func(t Trigger) bool {
		return slices.ContainsFunc(fired, func(f Trigger) bool {
			return f.ID == t.ID && f.At.Equal(t.At)
		})
	})
}

func (q *TriggerQueue) remove(ctx context.Context, match func(Trigger) bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	triggers, err := q.load(ctx)
	if err != nil {
		return err
	}
	return q.save(ctx, slices.DeleteFunc(triggers, match))
}
