package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/repositories"
	"github.com/zaukho/zx/internal/shared"
)

// SetupDatabase initializes the local catalog cache and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupSync refreshes the local catalog cache from the API so browsing
// works offline.
func (r *Runner) SetupSync(ctx context.Context, cmd *cli.Command) error {
	cache, closer, err := r.openCatalogCache()
	if err != nil {
		return err
	}
	defer closer()

	r.logger.Info("syncing catalog", "base_url", r.api.BaseURL())

	contents, err := r.api.Contents(ctx, api.ContentFilters{})
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if err := cache.RefreshContents(contents); err != nil {
		return fmt.Errorf("failed to cache catalog: %w", err)
	}

	categories, err := r.api.Categories(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	if err := cache.RefreshCategories(categories); err != nil {
		return fmt.Errorf("failed to cache categories: %w", err)
	}

	return r.writePlain("✓ Cached %d titles and %d categories\n", len(contents), len(categories))
}

// openCatalogCache opens the sqlite-backed catalog cache, preferring an
// injected cache (tests) over the configured database file.
func (r *Runner) openCatalogCache() (*repositories.CatalogCache, func(), error) {
	if r.cache != nil {
		return r.cache, func() {}, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog cache, run 'zx setup database' first: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	cache := repositories.NewCatalogCache(
		repositories.NewContentRepository(db),
		repositories.NewCategoryRepository(db),
	)
	return cache, func() { db.Close() }, nil
}
