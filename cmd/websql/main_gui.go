//go:build !cli

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"websql/internal/app"
	"websql/internal/cli"
	"websql/internal/config"
	"websql/internal/log"

	"github.com/google/uuid"
)

// run is the GUI+CLI entry point.
// It first checks for CLI subcommands, and if none are found, launches the GUI.
func run() {
	if cli.Execute(version) {
		return
	}

	cfg := config.FromEnvironment(version)

	logger := log.NewConsoleLogger(os.Stderr, cfg.LogLevel).
		WithFields(log.String("run", uuid.NewString()))
	log.SetLogger(logger)

	// Environment problems never stop startup.
	if err := cfg.Apply(os.Setenv); err != nil {
		logger.Warn("could not configure environment", log.Err(err))
	}
	for _, w := range cfg.Warnings {
		logger.Warn("configuration", log.String("problem", w))
	}

	events := log.NewEventLog(cfg.LogPath, logger)
	logger.Debug("debug log", log.String("path", events.Path()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Launch(ctx, cfg, events, logger)
	stop()
	os.Exit(code)
}
