// Package app builds the shared dependencies used by both the HTTP server
// and the mealmate CLI: logger, database pool, migrator and message transport.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/mealmate/internal/config"
	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/transport"
	"github.com/pkordes/mealmate/migrations"
)

// webhookTimeout bounds a single webhook request; retries get their own budget.
const webhookTimeout = 10 * time.Second

// NewLogger returns a JSON slog logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// OpenPool creates a pgx pool and verifies the database is reachable.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("app.OpenPool: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app.OpenPool: ping: %w", err)
	}
	return pool, nil
}

// NewMigrator returns a goose provider over the embedded migrations that
// shares connections with pool. The returned close func releases the
// database/sql handle; it does not close pool.
func NewMigrator(pool *pgxpool.Pool) (*goose.Provider, func() error, error) {
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("app.NewMigrator: %w", err)
	}
	return provider, db.Close, nil
}

// Migrate applies every pending migration and logs each applied version.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	provider, closeDB, err := NewMigrator(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("app.Migrate: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}

// NewTransport returns the webhook transport when a webhook URL is
// configured, and the logging transport otherwise.
func NewTransport(cfg config.Config, log *slog.Logger) domain.MessageTransport {
	if cfg.MessageWebhookURL == "" {
		return transport.NewLog(log, cfg.MessageSegmentLimit)
	}
	return transport.NewWebhook(cfg.MessageWebhookURL, &http.Client{Timeout: webhookTimeout}, cfg.MessageSegmentLimit)
}
