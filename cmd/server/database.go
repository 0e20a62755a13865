package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/expenseflow-api/internal/config"
	"github.com/phrazzld/expenseflow-api/internal/platform/memory"
	"github.com/phrazzld/expenseflow-api/internal/platform/postgres"
	"github.com/phrazzld/expenseflow-api/internal/store"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

// storage is the persistence backend selected by database.driver.
type storage struct {
	stores   store.Stores
	txRunner store.TxRunner
	db       *sql.DB // nil for the memory driver
}

// Close releases the database pool, if any.
func (s *storage) Close(logger *slog.Logger) {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.Error("Error closing database connection", "error", err)
	}
}

// openStorage builds the configured backend. The postgres driver runs
// pending migrations first when database.auto_migrate is set.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case driverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		db := memory.New(logger)
		return &storage{stores: db.Stores(), txRunner: db}, nil

	case driverPostgres:
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		return &storage{
			stores:   postgres.NewStores(db, logger),
			txRunner: postgres.NewTxRunner(db, logger),
			db:       db,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// setupAppDatabase establishes a connection to the database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database at %s: %w", maskDatabaseURL(cfg.URL), err)
	}

	logger.Info("Database connection established", "url", maskDatabaseURL(cfg.URL))
	return db, nil
}

// maskDatabaseURL hides the password of a connection URL. Strings that do not
// parse as a URL are hidden entirely.
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "[unparseable database url]"
	}
	return u.Redacted()
}
