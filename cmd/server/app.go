package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/expenseflow-api/internal/config"
	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/platform/amqp"
	"github.com/phrazzld/expenseflow-api/internal/service"
	"github.com/phrazzld/expenseflow-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	storage *storage

	jwtService auth.JWTService

	authService    *service.AuthService
	incomeService  *service.LedgerService
	expenseService *service.LedgerService
	contactService *service.ContactService
	adminService   *service.AdminService

	eventEmitter *events.InMemoryEventEmitter
	publisher    *amqp.Publisher      // nil when events.amqp_url is empty
	delivery     *events.AsyncHandler // queues events for publisher
}

// newApplication wires every service to the given storage backend.
func newApplication(cfg *config.Config, logger *slog.Logger, backend *storage) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		storage: backend,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	if err := app.setupEvents(); err != nil {
		return nil, err
	}

	stores := backend.stores
	app.authService = service.NewAuthService(
		stores.Users,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		app.jwtService,
		app.eventEmitter,
		service.AuthPolicy{
			BootstrapAdminEmail: cfg.Auth.BootstrapAdminEmail,
			AllowRoleRequest:    cfg.Auth.AllowRoleRequest,
		},
		logger,
	)
	app.incomeService = service.NewLedgerService(stores.Incomes, app.eventEmitter, logger)
	app.expenseService = service.NewLedgerService(stores.Expenses, app.eventEmitter, logger)
	app.contactService = service.NewContactService(stores.Contacts, app.eventEmitter, logger)
	app.adminService = service.NewAdminService(stores, backend.txRunner, app.eventEmitter, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupEvents registers the log handler and, when configured, the AMQP publisher.
func (app *application) setupEvents() error {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventEmitter.RegisterHandler(events.LogHandler(app.logger))

	if app.config.Events.AMQPURL == "" {
		return nil
	}
	publisher, err := amqp.Dial(app.config.Events.AMQPURL, app.config.Events.Exchange, app.logger)
	if err != nil {
		return fmt.Errorf("failed to connect event publisher: %w", err)
	}
	app.publisher = publisher
	app.delivery = events.NewAsyncHandler(publisher, events.AsyncConfig{
		Workers:   app.config.Events.Workers,
		QueueSize: app.config.Events.QueueSize,
	}, app.logger)
	app.eventEmitter.RegisterHandler(app.delivery)
	app.logger.Info("Event publisher connected", "exchange", app.config.Events.Exchange)
	return nil
}

// Run serves HTTP until ctx is canceled, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.delivery != nil {
		app.delivery.Close()
	}
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("Error closing event publisher", "error", err)
		}
	}
	app.storage.Close(app.logger)

	app.logger.Info("Application shutdown completed")
}
