// Package main is the entry point for the taskchat CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"taskchat/internal/backend/todoapi"
	"taskchat/internal/cli"
	"taskchat/internal/commands"
	"taskchat/internal/config"
	"taskchat/internal/credential"
	"taskchat/internal/gateway"
	"taskchat/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		store, err := credential.NewStore(cfg.SessionPath())
		if err != nil {
			return nil, err
		}

		level := zerolog.Disabled
		if cfg.Debug {
			level = zerolog.DebugLevel
		}
		log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

		gw, err := gateway.New(gateway.Config{
			BaseURL:     cfg.BaseURL,
			Credentials: store,
			Logger:      &log,
		})
		if err != nil {
			return nil, err
		}
		return todoapi.New(gw), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
