package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ShortsPublisher/internal/app"
	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/logging"
)

func main() {
	// A missing .env is fine; real deployments export variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewRotating(cfg.Logging.Level, cfg.Dirs.Logs)
	if err != nil {
		logger = logging.New(cfg.Logging.Level)
		logger.Warn("file logging unavailable", "error", err)
	}

	application := app.New(cfg, logger)

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
