// Package main is the MealMate API server. It only wires dependencies and
// runs the HTTP server; behavior lives in internal/.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/mealmate/internal/app"
	"github.com/pkordes/mealmate/internal/config"
	"github.com/pkordes/mealmate/internal/handler"
	"github.com/pkordes/mealmate/internal/middleware"
	"github.com/pkordes/mealmate/internal/repo"
	"github.com/pkordes/mealmate/internal/service"
)

const (
	corsMaxAge      = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := app.NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		if err := app.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	recipeRepo := repo.NewRecipeRepo(pool)
	edits := service.NewEditService(recipeRepo, cfg.LocationMaxAge, cfg.LocationTimeout, logger)
	defer edits.Close()

	server := handler.NewServer(
		service.NewRecipeService(recipeRepo, logger),
		edits,
		service.NewShareService(recipeRepo, app.NewTransport(cfg, logger), logger),
		service.NewExportService(recipeRepo, logger),
		logger,
	)

	// SlogLogger wraps Recoverer so a recovered panic is logged with its 500.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins, corsMaxAge))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", server.Routes())

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// A save waits for pending location lookups before the store call.
		WriteTimeout: cfg.LocationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
