package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aryastastic/internal/config"
	"aryastastic/internal/container"
	"aryastastic/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := container.New(cfg, nil)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer c.Close()

	app, err := ui.NewApp(c.Service, c.Exporter, c.Scenarios, cfg.Server, c.Logger)
	if err != nil {
		c.Logger.Error("failed to create app: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		c.Logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
