package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/netintel/internal/app"
	"github.com/vanshika/netintel/internal/config"
	"github.com/vanshika/netintel/internal/logging"
	"github.com/vanshika/netintel/internal/metrics"
	"github.com/vanshika/netintel/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	backend, err := app.Open(ctx, cfg, logger, reg)
	if err != nil {
		logger.Error("failed to open store backend", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			logger.Warn("closing store backend failed", "error", err)
		}
	}()

	svc := app.NewService(cfg, backend, logger, reg)

	deps := server.RouterDependencies{
		Health: server.StoreHealthService{
			Store:        backend.Pinger,
			BreakerState: backend.BreakerState,
		},
		API:              server.NewAPIHandlers(logger, svc),
		Metrics:          reg,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
	}
	if cfg.HTTP.MetricsEnabled {
		deps.MetricsHandler = reg.Handler()
	}
	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
