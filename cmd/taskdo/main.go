// Package main is the entry point for the taskdo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskdo/internal/api"
	"taskdo/internal/backend/taskapi"
	"taskdo/internal/cli"
	"taskdo/internal/commands"
	"taskdo/internal/config"
	"taskdo/internal/service"
	"taskdo/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config, store *session.Store, nav api.Navigator) (service.Service, error) {
		return taskapi.New(api.New(cfg.BaseURL, store, nav)), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
