package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/mealmate/internal/app"
	"github.com/pkordes/mealmate/internal/config"
	"github.com/pkordes/mealmate/internal/repo"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error

	pool *pgxpool.Pool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFile(path)
	})
	return c.config, c.configErr
}

// logger writes JSON lines to stderr so stdout stays free for command output.
func (c *commandContext) logger() *slog.Logger {
	cfg, _ := c.ensureConfig()
	return app.NewLogger(os.Stderr, cfg)
}

// ensurePool opens the database pool on first use.
func (c *commandContext) ensurePool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.pool != nil {
		return c.pool, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	pool, err := app.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return pool, nil
}

func (c *commandContext) recipeRepo(ctx context.Context) (repo.RecipeRepo, error) {
	pool, err := c.ensurePool(ctx)
	if err != nil {
		return nil, err
	}
	return repo.NewRecipeRepo(pool), nil
}

func (c *commandContext) close() {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
