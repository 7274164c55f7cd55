package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/adapters/notification"
	"github.com/xvierd/chorebook/internal/adapters/storage"
	"github.com/xvierd/chorebook/internal/config"
	"github.com/xvierd/chorebook/internal/logging"
	"github.com/xvierd/chorebook/internal/ports"
	"github.com/xvierd/chorebook/internal/services"
	"github.com/xvierd/chorebook/internal/templates"
)

// daemonAnnotation marks long-running commands that log at the configured
// level instead of warn.
const daemonAnnotation = "daemon"

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *slog.Logger
	location *time.Location
	clock    ports.Clock

	storage   ports.Storage
	queue     *notification.TriggerQueue
	ledger    *services.Ledger
	reminders *services.ReminderCoordinator

	tasks        *services.TaskService
	tracker      *services.TrackerService
	stats        *services.StatsService
	achievements *services.AchievementService
	data         *services.DataService
	state        *services.StateService
	templates    *templates.Catalog
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		app.config = config.DefaultConfig()
	}

	logCfg := app.config.Log
	if !verbose && cmd.Annotations[daemonAnnotation] == "" {
		logCfg.Level = "warn"
	} else if verbose {
		logCfg.Level = "debug"
	}
	app.logger = logging.New(logCfg, os.Stderr)

	app.location, err = app.config.Reminders.Location()
	if err != nil {
		return err
	}
	loc := app.location
	app.clock = ports.ClockFunc(func() time.Time { return time.Now().In(loc) })

	// --db forces the sqlite backend at the given path
	opts := storage.Options{
		Backend:        app.config.Storage.Backend,
		SQLitePath:     config.GetDBPath(app.config),
		RedisURL:       app.config.Storage.RedisURL,
		RedisNamespace: app.config.Storage.RedisNamespace,
		Logger:         app.logger,
	}
	if dbPath != "" {
		opts.Backend = storage.BackendSQLite
		opts.SQLitePath = dbPath
	}

	app.storage, err = storage.Open(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.queue = notification.NewTriggerQueue(app.storage.KV(), app.logger)
	app.ledger = services.NewLedger(app.storage)
	app.reminders = services.NewReminderCoordinator(app.queue, app.clock, app.logger)

	deps := services.Deps{
		Storage:   app.storage,
		Ledger:    app.ledger,
		Reminders: app.reminders,
		Clock:     app.clock,
		Logger:    app.logger,
	}
	app.tasks = services.NewTaskService(deps)
	app.achievements = services.NewAchievementService(deps)
	app.tracker = services.NewTrackerService(deps, app.achievements)
	app.stats = services.NewStatsService(deps)
	app.data = services.NewDataService(deps)
	app.state = services.NewStateService(app.tasks, app.tracker, app.stats)

	if dir, err := config.GetConfigDir(); err == nil {
		app.templates, err = templates.Load(filepath.Join(dir, "templates.yaml"))
		if err != nil {
			app.logger.Warn("ignoring user templates", "error", err)
		}
	}
	if app.templates == nil {
		app.templates = templates.Builtin()
	}

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
