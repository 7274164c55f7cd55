package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/chorebook/internal/adapters/storage"
	"github.com/xvierd/chorebook/internal/config"
	"github.com/xvierd/chorebook/internal/ports"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type recordingSender struct {
	mu   sync.Mutex
	sent []ports.TriggerPayload
	err  error
}

func (r *recordingSender) NotifyReminder(p ports.TriggerPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, p)
	return nil
}

var base = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func TestTriggerQueue(t *testing.T) {
	ctx := context.Background()
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)

	_, err := q.ScheduleAt(ctx, "task-b-2024-03-04", base.Add(time.Hour), ports.TriggerPayload{TaskID: "b"})
	require.NoError(t, err)
	_, err = q.ScheduleAt(ctx, "task-a-2024-03-04", base, ports.TriggerPayload{TaskID: "a"})
	require.NoError(t, err)

	ids, err := q.ListScheduledIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"task-a-2024-03-04", "task-b-2024-03-04"}, ids)

	t.Run("reschedule replaces", func(t *testing.T) {
		_, err := q.ScheduleAt(ctx, "task-a-2024-03-04", base.Add(2*time.Hour), ports.TriggerPayload{TaskID: "a"})
		require.NoError(t, err)
		ids, _ := q.ListScheduledIDs(ctx)
		assert.Equal(t, []string{"task-b-2024-03-04", "task-a-2024-03-04"}, ids)
	})

	t.Run("due", func(t *testing.T) {
		due, err := q.Due(ctx, base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, "b", due[0].Payload.TaskID)
	})

	t.Run("cancel", func(t *testing.T) {
		require.NoError(t, q.Cancel(ctx, "task-b-2024-03-04"))
		require.NoError(t, q.Cancel(ctx, "unknown"))
		ids, _ := q.ListScheduledIDs(ctx)
		assert.Equal(t, []string{"task-a-2024-03-04"}, ids)
	})
}

func TestTriggerQueue_CorruptLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, ports.KeyTriggers, []byte("garbage")))

	q := NewTriggerQueue(kv, nil)
	ids, err := q.ListScheduledIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDispatcher_Tick(t *testing.T) {
	ctx := context.Background()
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)
	clock := &fixedClock{now: base}
	sender := &recordingSender{}
	d := NewDispatcher(q, sender, DispatcherOptions{Clock: clock, LateGrace: 15 * time.Minute})

	_, _ = q.ScheduleAt(ctx, "stale", base.Add(-time.Hour), ports.TriggerPayload{TaskID: "stale"})
	_, _ = q.ScheduleAt(ctx, "now", base.Add(-time.Minute), ports.TriggerPayload{TaskID: "now"})
	_, _ = q.ScheduleAt(ctx, "later", base.Add(time.Hour), ports.TriggerPayload{TaskID: "later"})

	delivered, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "now", sender.sent[0].TaskID)

	ids, _ := q.ListScheduledIDs(ctx)
	assert.Equal(t, []string{"later"}, ids)

	// A second tick at the same instant sends nothing new.
	delivered, err = d.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivered)
}

func TestDispatcher_KeepsTriggersWhileBreakerOpen(t *testing.T) {
	ctx := context.Background()
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)
	sender := &recordingSender{err: gobreaker.ErrOpenState}
	d := NewDispatcher(q, sender, DispatcherOptions{Clock: &fixedClock{now: base}})

	_, _ = q.ScheduleAt(ctx, "now", base, ports.TriggerPayload{TaskID: "now"})
	delivered, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivered)

	ids, _ := q.ListScheduledIDs(ctx)
	assert.Equal(t, []string{"now"}, ids)
}

func TestDispatcher_DropsFailedDelivery(t *testing.T) {
	ctx := context.Background()
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)
	sender := &recordingSender{err: errors.New("dbus unavailable")}
	d := NewDispatcher(q, sender, DispatcherOptions{Clock: &fixedClock{now: base}})

	_, _ = q.ScheduleAt(ctx, "now", base, ports.TriggerPayload{TaskID: "now"})
	_, err := d.Tick(ctx)
	require.NoError(t, err)

	ids, _ := q.ListScheduledIDs(ctx)
	assert.Empty(t, ids)
}

type senderFunc func(ports.TriggerPayload) error

func (f senderFunc) NotifyReminder(p ports.TriggerPayload) error { return f(p) }

func TestDispatcher_KeepsTriggerRescheduledDuringDelivery(t *testing.T) {
	ctx := context.Background()
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)
	postponedTo := base.Add(10 * time.Minute)

	// The user postpones while the desktop alert is still showing.
	sender := senderFunc(func(p ports.TriggerPayload) error {
		_, err := q.ScheduleAt(ctx, "task-1-2024-03-04", postponedTo, p)
		return err
	})
	d := NewDispatcher(q, sender, DispatcherOptions{Clock: &fixedClock{now: base}})

	_, _ = q.ScheduleAt(ctx, "task-1-2024-03-04", base, ports.TriggerPayload{TaskID: "1"})
	delivered, err := d.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "task-1-2024-03-04", pending[0].ID)
	assert.True(t, pending[0].At.Equal(postponedTo))
}

func TestTriggerQueue_AckMatchesFireTime(t *testing.T) {
	ctx := context.Background()
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)

	_, _ = q.ScheduleAt(ctx, "a", base, ports.TriggerPayload{})
	fired, err := q.Due(ctx, base)
	require.NoError(t, err)
	require.Len(t, fired, 1)

	_, _ = q.ScheduleAt(ctx, "a", base.Add(time.Hour), ports.TriggerPayload{})
	require.NoError(t, q.Ack(ctx, fired...))
	ids, _ := q.ListScheduledIDs(ctx)
	assert.Equal(t, []string{"a"}, ids)

	require.NoError(t, q.Cancel(ctx, "a"))
	ids, _ = q.ListScheduledIDs(ctx)
	assert.Empty(t, ids)
}

func TestDispatcher_StartStop(t *testing.T) {
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)
	d := NewDispatcher(q, &recordingSender{}, DispatcherOptions{
		PollInterval: time.Second,
		DayStart:     "00:05",
		OnNewDay:     func(context.Context) error { return nil },
	})
	require.NoError(t, d.Start(context.Background()))
	assert.Error(t, d.Start(context.Background()))
	d.Stop()
	d.Stop()
}

func TestDispatcher_BadDayStart(t *testing.T) {
	q := NewTriggerQueue(storage.NewMemoryKV(), nil)
	d := NewDispatcher(q, &recordingSender{}, DispatcherOptions{
		DayStart: "7am",
		OnNewDay: func(context.Context) error { return nil },
	})
	assert.Error(t, d.Start(context.Background()))
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("07:05")
	require.NoError(t, err)
	assert.Equal(t, "0 5 7 * * *", spec)

	for _, bad := range []string{"", "7", "24:00", "07:60", "aa:bb"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestNotifier(t *testing.T) {
	var calls int
	failing := true
	send := func(title, message string) error {
		calls++
		if failing {
			return errors.New("no notification daemon")
		}
		return nil
	}

	cfg := &config.NotificationConfig{Enabled: true, FailureThreshold: 2, Cooldown: config.Duration(time.Hour)}
	n := NewWithSender(cfg, nil, send)

	assert.Error(t, n.Notify("a", "b"))
	assert.Error(t, n.Notify("a", "b"))
	assert.True(t, n.BreakerOpen())

	// Open breaker short-circuits without calling send.
	failing = false
	err := n.NotifyReminder(ports.TriggerPayload{})
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 2, calls)
}

func TestNotifier_Disabled(t *testing.T) {
	called := false
	n := NewWithSender(&config.NotificationConfig{Enabled: false}, nil, func(string, string) error {
		called = true
		return nil
	})
	assert.NoError(t, n.Notify("a", "b"))
	assert.False(t, called)
	assert.False(t, n.IsEnabled())
}
