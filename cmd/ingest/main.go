package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/netintel/internal/app"
	"github.com/vanshika/netintel/internal/config"
	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/logging"
	"github.com/vanshika/netintel/internal/metrics"
	"github.com/vanshika/netintel/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		datasetDir = flag.String("dataset-dir", cfg.Store.DatasetDir, "directory containing the dataset JSON files")
		target     = flag.String("target", config.BackendNeo4j, "backend to write into: neo4j or postgres")
		workers    = flag.Int("workers", 4, "number of concurrent workers for ingestion")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "ingest")

	d, err := dataset.Load(*datasetDir)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "dir", *datasetDir)
		os.Exit(1)
	}
	if len(d.People) == 0 {
		logger.Error("dataset has no people", "dir", *datasetDir)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg.Store.Backend = *target
	cfg.Cache.Enabled = false
	cfg.Breaker.Enabled = false
	reg := metrics.NewRegistry()
	backend, err := app.Open(ctx, cfg, logger, reg)
	if err != nil {
		logger.Error("failed to open target backend", "target", *target, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			logger.Warn("closing target backend failed", "error", err)
		}
	}()
	if backend.Sink == nil {
		logger.Error("target backend does not accept writes", "target", *target)
		os.Exit(1)
	}

	ingestor := service.NewBulkIngestor(backend.Sink, *workers).
		WithRecorder(reg).
		WithLogger(logger)

	start := time.Now()
	logger.Info("ingesting dataset", "target", *target, "workers", *workers, "counts", d.Counts())
	if err := ingestor.Ingest(ctx, d); err != nil {
		var taskErr *service.TaskError
		if errors.As(err, &taskErr) {
			logger.Error("ingestion finished with record errors", "failed", len(taskErr.Errors), "error", err)
		} else {
			logger.Error("ingestion failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String())
}
