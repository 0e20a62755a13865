// Package main implements the entry point for the ExpenseFlow API server,
// which tracks users' incomes and expenses and offers an admin console.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/expenseflow-api/internal/config"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
	"github.com/phrazzld/expenseflow-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a database migration command and exit ("+strings.Join(postgres.MigrationCommands, "|")+")")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Printf("expenseflow-api: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, opens storage and either executes a migration
// command or serves HTTP until ctx is canceled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if migrateCmd != "" {
		return runMigrationCommand(ctx, cfg, migrateCmd, l)
	}

	backend, err := openStorage(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, l, backend)
	if err != nil {
		backend.Close(l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration and logs a summary of it.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url", maskDatabaseURL(cfg.Database.URL))
	}
	if cfg.Events.AMQPURL != "" {
		slog.Debug("Event publishing enabled", "exchange", cfg.Events.Exchange)
	}

	return cfg, nil
}

// runMigrationCommand runs one goose command against the configured database.
func runMigrationCommand(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if cfg.Database.Driver != driverPostgres {
		return fmt.Errorf("migrations require the %s driver, got %q", driverPostgres, cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("Error closing database connection", "error", err)
		}
	}()

	l.Info("Executing migrations", "command", command)
	return postgres.Migrate(ctx, db, command, l)
}
