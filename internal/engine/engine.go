// Package engine holds the relationship-intelligence core: path finding,
// network analysis, opportunity fit and recommendation merging. It is
// stateless; every call builds its results from fresh store reads.
package engine

import (
	"context"

	"github.com/vanshika/netintel/internal/domain"
)

// GraphStore is the read-only contract the engine needs from persistence.
// Implementations return domain.ErrNotFound for unknown identifiers and wrap
// transport or validation failures onto domain.ErrStoreUnavailable.
type GraphStore interface {
	GetOrganization(ctx context.Context, id string) (domain.Organization, error)
	GetPerson(ctx context.Context, id string) (domain.Person, error)
	GetEdges(ctx context.Context, personID string) ([]domain.Relationship, error)
	GetOpportunity(ctx context.Context, id string) (domain.Opportunity, error)
}

// Options tunes the engine. Zero values fall back to DefaultOptions.
type Options struct {
	DefaultMaxDegree    int
	MaxDegreeLimit      int
	MaxPaths            int
	FitMaxDegree        int
	RecommendationLimit int
	LookupConcurrency   int
}

// DefaultOptions returns the documented defaults: max degree 3, at most 10
// paths, top 5 recommendations.
func DefaultOptions() Options {
	return Options{
		DefaultMaxDegree:    3,
		MaxDegreeLimit:      6,
		MaxPaths:            10,
		FitMaxDegree:        3,
		RecommendationLimit: 5,
		LookupConcurrency:   8,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DefaultMaxDegree <= 0 {
		o.DefaultMaxDegree = def.DefaultMaxDegree
	}
	if o.MaxDegreeLimit <= 0 {
		o.MaxDegreeLimit = def.MaxDegreeLimit
	}
	if o.MaxDegreeLimit < o.DefaultMaxDegree {
		o.MaxDegreeLimit = o.DefaultMaxDegree
	}
	if o.MaxPaths <= 0 {
		o.MaxPaths = def.MaxPaths
	}
	if o.FitMaxDegree <= 0 {
		o.FitMaxDegree = def.FitMaxDegree
	}
	if o.RecommendationLimit <= 0 {
		o.RecommendationLimit = def.RecommendationLimit
	}
	if o.LookupConcurrency <= 0 {
		o.LookupConcurrency = def.LookupConcurrency
	}
	return o
}

// Engine evaluates path, network and fit queries against a GraphStore.
type Engine struct {
	store     GraphStore
	extractor CapabilityExtractor
	opts      Options
}

// New constructs an Engine. A nil extractor selects DefaultCapabilityExtractor.
func New(store GraphStore, extractor CapabilityExtractor, opts Options) *Engine {
	if extractor == nil {
		extractor = DefaultCapabilityExtractor{}
	}
	return &Engine{
		store:     store,
		extractor: extractor,
		opts:      opts.withDefaults(),
	}
}

// Options returns the effective options after defaults were applied.
func (e *Engine) Options() Options {
	return e.opts
}
