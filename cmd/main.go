package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/guard"
	"github.com/zaukho/zx/internal/session"
	"github.com/zaukho/zx/internal/shared"
	"github.com/zaukho/zx/internal/tokens"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	dataDir, err := shared.DataDir()
	if err != nil {
		logger.Fatalf("failed to resolve data directory: %v", err)
	}

	store, err := tokens.NewFileStore(dataDir)
	if err != nil {
		logger.Fatalf("failed to open token store: %v", err)
	}

	client := api.New(api.Options{
		BaseURL: config.API.Resolve(),
		Store:   store,
		Timeout: time.Duration(config.Session.RequestTimeoutSecond) * time.Second,
		Logger:  logger,
		OnSessionExpired: func() {
			logger.Warn("session expired, please log in again")
		},
	})

	sessions := session.NewManager(session.Options{
		Backend:      client,
		Store:        store,
		Logger:       logger,
		Watchdog:     time.Duration(config.Session.WatchdogSeconds) * time.Second,
		UserCacheTTL: time.Duration(config.Session.UserCacheTTLSeconds) * time.Second,
		UserThrottle: time.Duration(config.Session.UserThrottleSeconds) * time.Second,
	})

	gate := guard.New(sessions, time.Duration(config.Session.GuardTimeoutSeconds)*time.Second)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		API:      client,
		Sessions: sessions,
		Gate:     gate,
		Store:    store,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "zx",
		Usage:    "Browse, buy and stream movies & series from your terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
