package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/container"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := container.NewContainer(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.Fatal("failed to initialize application", "error", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("error closing application", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	if err := app.Server.Shutdown(context.Background()); err != nil {
		log.Error("server shutdown error", "error", err)
		return
	}
	log.Info("server exited properly")
}
