package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskwire/taskwire-api/internal/config"
	"github.com/taskwire/taskwire-api/internal/events"
	"github.com/taskwire/taskwire-api/internal/notifier"
	"github.com/taskwire/taskwire-api/internal/platform/postgres"
	"github.com/taskwire/taskwire-api/internal/realtime"
	"github.com/taskwire/taskwire-api/internal/service"
	"github.com/taskwire/taskwire-api/internal/service/auth"
	"github.com/taskwire/taskwire-api/internal/store"
)

// application holds the shared application dependencies to simplify wiring
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore         store.UserStore
	taskStore         store.TaskStore
	notificationStore store.NotificationStore
	auditStore        store.AuditStore

	// Realtime and events
	hub        *realtime.Hub
	emitter    events.EventEmitter
	dispatcher *notifier.Dispatcher

	// Services
	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	taskService         service.TaskService
	notificationService service.NotificationService
}

// newApplication builds the full dependency graph from configuration. The
// dispatcher is started here; callers own the shutdown call.
func newApplication(cfg *config.Config) (*application, error) {
	log := slog.Default()

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.notificationStore = postgres.NewPostgresNotificationStore(db)
	app.auditStore = postgres.NewPostgresAuditStore(db)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.hub = realtime.NewHub(cfg.Realtime.SendBuffer, log)

	app.dispatcher = notifier.NewDispatcher(
		app.notificationStore,
		app.hub,
		notifier.DispatcherConfig{
			WorkerCount: cfg.Dispatcher.WorkerCount,
			QueueSize:   cfg.Dispatcher.QueueSize,
		},
		log,
	)
	app.dispatcher.Start()

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(app.dispatcher)
	app.emitter = emitter

	app.taskService, err = service.NewTaskService(app.taskStore, app.auditStore, app.emitter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.notificationService, err = service.NewNotificationService(app.notificationStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	return app, nil
}

// shutdown releases the application's resources in reverse dependency
// order: stop accepting events, drain the dispatcher, close live
// connections, then the database.
func (app *application) shutdown() {
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shut down")
}
