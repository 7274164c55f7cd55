// Package notification delivers chore reminders: a persistent trigger
// queue, a desktop notifier, and the cron-driven dispatcher that joins them.
package notification

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/sony/gobreaker/v2"

	"github.com/xvierd/chorebook/internal/config"
	"github.com/xvierd/chorebook/internal/logging"
	"github.com/xvierd/chorebook/internal/ports"
)

// SendFunc delivers one notification.
type SendFunc func(title, message string) error

// Notifier handles desktop notifications behind a circuit breaker so a
// broken notification daemon does not stall the dispatcher.
type Notifier struct {
	cfg     *config.NotificationConfig
	send    SendFunc
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig, logger *slog.Logger) *Notifier {
	return NewWithSender(cfg, logger, desktopSender(cfg))
}

// NewWithSender creates a notifier that delivers through send.
func NewWithSender(cfg *config.NotificationConfig, logger *slog.Logger, send SendFunc) *Notifier {
	logger = logging.OrDiscard(logger)
	threshold := uint32(3)
	cooldown := 5 * time.Minute
	if cfg != nil {
		if cfg.FailureThreshold > 0 {
			threshold = cfg.FailureThreshold
		}
		if cfg.Cooldown > 0 {
			cooldown = cfg.Cooldown.Std()
		}
	}

	settings := gobreaker.Settings{
		Name:        "desktop-notifications",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("notification breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Notifier{
		cfg:     cfg,
		send:    send,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

func desktopSender(cfg *config.NotificationConfig) SendFunc {
	return func(title, message string) error {
		if cfg != nil && cfg.Sound {
			return beeep.Alert(title, message, "")
		}
		return beeep.Notify(title, message, "")
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	_, err := n.breaker.Execute(func() (any, error) {
		return nil, n.send(title, message)
	})
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	return nil
}

// NotifyReminder delivers a queued reminder.
func (n *Notifier) NotifyReminder(p ports.TriggerPayload) error {
	title, body := p.Title, p.Body
	if title == "" {
		title = "Chore reminder"
	}
	if body == "" {
		body = "Time for your task!"
	}
	return n.Notify(title, body)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// BreakerOpen reports whether deliveries are currently short-circuited.
func (n *Notifier) BreakerOpen() bool {
	return n.breaker.State() == gobreaker.StateOpen
}
