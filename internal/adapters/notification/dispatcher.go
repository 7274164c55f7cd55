package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker/v2"

	"github.com/xvierd/chorebook/internal/logging"
	"github.com/xvierd/chorebook/internal/ports"
)

// ReminderSender is what the dispatcher needs from a notifier.
type ReminderSender interface {
	NotifyReminder(p ports.TriggerPayload) error
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Location     *time.Location
	PollInterval time.Duration
	LateGrace    time.Duration
	// DayStart is the HH:MM at which OnNewDay runs.
	DayStart string
	// OnNewDay plans the reminders of the day that just began.
	OnNewDay func(ctx context.Context) error
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Dispatcher drains the trigger queue on a cron schedule.
type Dispatcher struct {
	queue  *TriggerQueue
	sender ReminderSender
	opts   DispatcherOptions
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
}

// NewDispatcher wires a queue to a sender.
func NewDispatcher(queue *TriggerQueue, sender ReminderSender, opts DispatcherOptions) *Dispatcher {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	return &Dispatcher{
		queue:  queue,
		sender: sender,
		opts:   opts,
		cron:   cron.New(cron.WithLocation(opts.Location), cron.WithSeconds()),
		logger: logging.OrDiscard(opts.Logger),
	}
}

// Start registers the poll and rollover jobs and starts the scheduler.
// Jobs run with ctx until Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("dispatcher already running")
	}
	d.ctx = ctx

	seconds := int(d.opts.PollInterval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if _, err := d.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), d.poll); err != nil {
		return fmt.Errorf("failed to schedule poll: %w", err)
	}

	if d.opts.OnNewDay != nil && d.opts.DayStart != "" {
		spec, err := buildDailySpec(d.opts.DayStart)
		if err != nil {
			return err
		}
		if _, err := d.cron.AddFunc(spec, d.rollover); err != nil {
			return fmt.Errorf("failed to schedule day rollover: %w", err)
		}
	}

	d.cron.Start()
	d.running = true
	d.logger.Info("reminder dispatcher started",
		"poll_interval", d.opts.PollInterval,
		"day_start", d.opts.DayStart,
		"location", d.opts.Location.String(),
	)
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	<-d.cron.Stop().Done()
	d.running = false
	d.logger.Info("reminder dispatcher stopped")
}

func (d *Dispatcher) poll() {
	if _, err := d.Tick(d.ctx); err != nil {
		d.logger.Error("reminder poll failed", "error", err)
	}
}

func (d *Dispatcher) rollover() {
	if err := d.opts.OnNewDay(d.ctx); err != nil {
		d.logger.Error("day rollover failed", "error", err)
	}
}

// Tick delivers every due trigger once. Triggers older than LateGrace are
// dropped unsent. While the notification breaker is open, due triggers stay
// queued for the next tick.
func (d *Dispatcher) Tick(ctx context.Context) (int, error) {
	now := d.opts.Clock.Now()
	due, err := d.queue.Due(ctx, now)
	if err != nil {
		return 0, err
	}

	delivered := 0
	var done []Trigger
	for _, t := range due {
		if d.opts.LateGrace > 0 && now.Sub(t.At) > d.opts.LateGrace {
			d.logger.Warn("dropping stale reminder", "id", t.ID, "scheduled_at", t.At)
			done = append(done, t)
			continue
		}
		err := d.sender.NotifyReminder(t.Payload)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			d.logger.Debug("notifications suspended, keeping reminder", "id", t.ID)
			continue
		}
		if err != nil {
			d.logger.Error("reminder delivery failed", "id", t.ID, "error", err)
		} else {
			delivered++
			d.logger.Info("reminder delivered", "id", t.ID, "task_id", t.Payload.TaskID)
		}
		done = append(done, t)
	}

	if err := d.queue.Ack(ctx, done...); err != nil {
		return delivered, err
	}
	return delivered, nil
}

// buildDailySpec turns HH:MM into a seconds-enabled cron spec.
func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
