package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/adapters/notification"
)

var watchOnce bool

// watchCmd runs the reminder daemon.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the reminder daemon",
	Long: `Plan today's reminders and deliver them as desktop notifications when
they come due. At the configured day start the next day's reminders are
planned. Other chorebook commands keep the queue up to date while this runs.

Use --once to plan and deliver whatever is due, then exit (for cron).`,
	Annotations: map[string]string{daemonAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()

		cfg := app.config
		notifier := notification.New(&cfg.Notifications, app.logger)
		dispatcher := notification.NewDispatcher(app.queue, notifier, notification.DispatcherOptions{
			Location:     app.location,
			PollInterval: cfg.Reminders.PollInterval.Std(),
			LateGrace:    cfg.Reminders.LateGrace.Std(),
			DayStart:     cfg.Reminders.DayStart,
			OnNewDay: func(ctx context.Context) error {
				_, _, err := app.tracker.PlanReminders(ctx)
				return err
			},
			Clock:  app.clock,
			Logger: app.logger,
		})

		scheduled, cancelled, err := app.tracker.PlanReminders(ctx)
		if err != nil {
			return fmt.Errorf("failed to plan reminders: %w", err)
		}

		if watchOnce {
			delivered, err := dispatcher.Tick(ctx)
			if err != nil {
				return fmt.Errorf("failed to deliver reminders: %w", err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]int{
					"scheduled": scheduled,
					"cancelled": cancelled,
					"delivered": delivered,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %d reminder(s), delivered %d.\n", scheduled, delivered)
			return nil
		}

		if !notifier.IsEnabled() {
			app.logger.Warn("notifications are disabled in config; reminders will be dropped")
		}
		if err := dispatcher.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "👀 Watching %d reminder(s) for today. Press Ctrl+C to stop.\n", scheduled)

		<-ctx.Done()
		dispatcher.Stop()
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Plan and deliver due reminders, then exit")
	rootCmd.AddCommand(watchCmd)
}
