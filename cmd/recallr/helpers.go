package main

import (
	"fmt"
	"io"
	"time"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/database"
	"github.com/at-ishikawa/recallr/internal/memory"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// openRepository returns the configured store and a function releasing it.
func openRepository(cfg *config.Config) (memory.Repository, func() error, error) {
	if !cfg.Storage.UsesDatabase() {
		return memory.NewYAMLRepository(cfg.Storage.YAMLDirectory), func() error { return nil }, nil
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Open() > %w", err)
	}
	return memory.NewDBRepository(db), db.Close, nil
}

func newClock(cfg *config.Config) memory.Clock {
	loc := cfg.Scheduler.Location()
	return memory.ClockFunc(func() time.Time {
		return time.Now().In(loc)
	})
}

// withRunner loads the configuration, opens the store, and runs fn.
func withRunner(output io.Writer, fn func(cfg *config.Config, runner *cli.Runner) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeRepo()
	}()
	return fn(cfg, cli.NewRunner(repo, newClock(cfg), output))
}
