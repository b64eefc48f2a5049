// Package app assembles the configured store backend and the service on top
// of it. The server, ingest and CLI entry points share it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vanshika/netintel/internal/breaker"
	"github.com/vanshika/netintel/internal/cache"
	"github.com/vanshika/netintel/internal/config"
	"github.com/vanshika/netintel/internal/engine"
	"github.com/vanshika/netintel/internal/graph"
	"github.com/vanshika/netintel/internal/memstore"
	"github.com/vanshika/netintel/internal/metrics"
	"github.com/vanshika/netintel/internal/pgstore"
	"github.com/vanshika/netintel/internal/repository"
	"github.com/vanshika/netintel/internal/service"
)

// rawStore is what every backend provides before decoration.
type rawStore interface {
	engine.GraphStore
	service.Catalog
	Ping(ctx context.Context) error
}

// Backend is an opened store with its decorations. Store is the read path
// used by the engine: the cache over the breaker over the backend, depending
// on configuration. Sink is nil for the memory backend.
type Backend struct {
	Store   engine.GraphStore
	Catalog service.Catalog
	Pinger  interface{ Ping(ctx context.Context) error }
	Sink    service.Sink
	Breaker *breaker.Store
	Cache   *cache.Store

	close func(ctx context.Context) error
}

// BreakerState reports the breaker state, or "" when no breaker is installed.
func (b *Backend) BreakerState() string {
	if b.Breaker == nil {
		return ""
	}
	return b.Breaker.State()
}

// Close releases backend connections.
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects the backend named by cfg.Store.Backend. A nil registry
// disables cache metrics.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, reg *metrics.Registry) (*Backend, error) {
	raw, sink, closeFn, err := openRaw(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		Store:   raw,
		Catalog: raw,
		Pinger:  raw,
		Sink:    sink,
		close:   closeFn,
	}

	if cfg.Breaker.Enabled && cfg.Store.Backend != config.BackendMemory {
		b.Breaker = breaker.Wrap(b.Store, breaker.Config{
			Name:             cfg.Store.Backend,
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
			MinRequests:      cfg.Breaker.MinRequests,
		}, logger)
		b.Store = b.Breaker
	}
	if cfg.Cache.Enabled {
		opts := cache.Options{TTL: cfg.Cache.TTL, MaxItems: cfg.Cache.MaxItems}
		if reg != nil {
			opts.Observer = reg
		}
		b.Cache = cache.New(b.Store, opts)
		b.Store = b.Cache
	}

	logger.Info("store backend ready",
		slog.String("backend", cfg.Store.Backend),
		slog.Bool("breaker", b.Breaker != nil),
		slog.Bool("cache", b.Cache != nil),
	)
	return b, nil
}

func openRaw(ctx context.Context, cfg config.Config) (rawStore, service.Sink, func(context.Context) error, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store, err := memstore.Load(cfg.Store.DatasetDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load dataset: %w", err)
		}
		return store, nil, nil, nil
	case config.BackendNeo4j:
		client, err := OpenGraphClient(ctx, cfg.Graph)
		if err != nil {
			return nil, nil, nil, err
		}
		repo := repository.New(client)
		return repo, repo, client.Close, nil
	case config.BackendPostgres:
		store, err := pgstore.Open(ctx, pgstore.Options{
			URL:             cfg.Postgres.URL,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, func(context.Context) error { store.Close(); return nil }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// OpenGraphClient builds the Bolt client from configuration.
func OpenGraphClient(ctx context.Context, cfg config.GraphConfig) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, graph.ErrMissingURI
	}
	return graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
		AcquireTimeout: cfg.AcquireTimeout,
	})
}

// NewService builds the engine and service over an opened backend.
func NewService(cfg config.Config, b *Backend, logger *slog.Logger, reg *metrics.Registry) *service.IntelligenceService {
	eng := engine.New(b.Store, engine.DefaultCapabilityExtractor{}, engine.Options{
		DefaultMaxDegree:    cfg.Engine.DefaultMaxDegree,
		MaxDegreeLimit:      cfg.Engine.MaxDegreeLimit,
		MaxPaths:            cfg.Engine.MaxPaths,
		FitMaxDegree:        cfg.Engine.FitMaxDegree,
		RecommendationLimit: cfg.Engine.RecommendationLimit,
		LookupConcurrency:   cfg.Engine.LookupConcurrency,
	})
	svc := service.NewIntelligenceService(eng, b.Store, b.Catalog, service.Options{
		PathTimeout:            cfg.Engine.PathTimeout,
		DashboardOpportunities: cfg.Engine.DashboardOpportunities,
		DashboardEvents:        cfg.Engine.DashboardEvents,
	}).WithLogger(logger)
	if reg != nil {
		svc.WithMetrics(reg)
	}
	return svc
}

var (
	_ rawStore     = (*memstore.Store)(nil)
	_ rawStore     = (*repository.Repository)(nil)
	_ rawStore     = (*pgstore.Store)(nil)
	_ service.Sink = (*repository.Repository)(nil)
	_ service.Sink = (*pgstore.Store)(nil)
)
