// Package service exposes the relationship-intelligence operations to the
// transports. It owns request-scoped policy that the engine does not: the
// default path degree, the default search deadline, tracing, metrics and
// the dashboard fan-out.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/engine"
)

var tracer = otel.Tracer("github.com/vanshika/netintel/internal/service")

// Catalog lists events and opportunities for the dashboard. Results are
// passed through untouched.
type Catalog interface {
	ListUpcomingEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error)
	ListOpenOpportunities(ctx context.Context, filter domain.OpportunityFilter) ([]domain.OpportunitySummary, error)
}

// Recorder receives operation metrics. *metrics.Registry satisfies it.
type Recorder interface {
	RecordOperation(operation, outcome string, duration time.Duration)
	RecordPathSearch(paths int, partial bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string, time.Duration) {}
func (nopRecorder) RecordPathSearch(int, bool)                    {}

// Options tunes the service layer.
type Options struct {
	PathTimeout            time.Duration
	DashboardOpportunities int
	DashboardEvents        int
}

func (o Options) withDefaults() Options {
	if o.DashboardOpportunities <= 0 {
		o.DashboardOpportunities = 5
	}
	if o.DashboardEvents <= 0 {
		o.DashboardEvents = 5
	}
	return o
}

// PathQuery is the input of FindPaths. A nil MaxDegree selects the engine's
// default degree.
type PathQuery struct {
	SourceID  string
	TargetID  string
	MaxDegree *int
}

// FitQuery is the input of EvaluateFit. PersonID is optional.
type FitQuery struct {
	OpportunityID string
	PersonID      string
	Capabilities  []string
}

// IntelligenceService is the in-process API shared by the HTTP server and
// the CLI.
type IntelligenceService struct {
	engine  *engine.Engine
	store   engine.GraphStore
	catalog Catalog
	opts    Options
	logger  *slog.Logger
	metrics Recorder
	nowFn   func() time.Time
}

// NewIntelligenceService wires the engine with the store it reads from and
// the catalog used by the dashboard.
func NewIntelligenceService(eng *engine.Engine, store engine.GraphStore, catalog Catalog, opts Options) *IntelligenceService {
	return &IntelligenceService{
		engine:  eng,
		store:   store,
		catalog: catalog,
		opts:    opts.withDefaults(),
		logger:  slog.Default(),
		metrics: nopRecorder{},
		nowFn:   time.Now,
	}
}

// WithLogger sets the service logger.
func (s *IntelligenceService) WithLogger(logger *slog.Logger) *IntelligenceService {
	if logger != nil {
		s.logger = logger.With(slog.String("component", "service"))
	}
	return s
}

// WithMetrics sets the metrics recorder.
func (s *IntelligenceService) WithMetrics(rec Recorder) *IntelligenceService {
	if rec != nil {
		s.metrics = rec
	}
	return s
}

// WithClock overrides the time provider (used primarily in tests).
func (s *IntelligenceService) WithClock(nowFn func() time.Time) *IntelligenceService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// DefaultMaxDegree is the degree used when a PathQuery leaves it unset.
func (s *IntelligenceService) DefaultMaxDegree() int {
	return s.engine.Options().DefaultMaxDegree
}

// FindPaths ranks connection paths between two people.
func (s *IntelligenceService) FindPaths(ctx context.Context, q PathQuery) (domain.PathSearch, error) {
	maxDegree := s.DefaultMaxDegree()
	if q.MaxDegree != nil {
		maxDegree = *q.MaxDegree
	}

	var result domain.PathSearch
	err := s.observe(ctx, "find_paths", func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(
			attribute.String("source_id", q.SourceID),
			attribute.String("target_id", q.TargetID),
			attribute.Int("max_degree", maxDegree),
		)
		ctx, cancel := s.withSearchDeadline(ctx)
		defer cancel()

		var err error
		result, err = s.engine.FindPaths(ctx, q.SourceID, q.TargetID, maxDegree)
		if err != nil {
			return err
		}
		s.metrics.RecordPathSearch(len(result.Paths), result.Partial)
		span.SetAttributes(attribute.Int("paths", len(result.Paths)), attribute.Bool("partial", result.Partial))
		if result.Partial {
			s.logger.WarnContext(ctx, "path search cut short",
				slog.String("source_id", result.SourceID),
				slog.String("target_id", result.TargetID),
				slog.Int("paths", len(result.Paths)),
			)
		}
		return nil
	})
	return result, err
}

// AnalyzeNetwork scores one person's network.
func (s *IntelligenceService) AnalyzeNetwork(ctx context.Context, personID string) (domain.NetworkAnalysis, error) {
	var result domain.NetworkAnalysis
	err := s.observe(ctx, "analyze_network", func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String("person_id", personID))
		var err error
		result, err = s.engine.AnalyzeNetwork(ctx, personID)
		return err
	})
	return result, err
}

// EvaluateFit scores a capability set, and optionally a person, against an
// opportunity.
func (s *IntelligenceService) EvaluateFit(ctx context.Context, q FitQuery) (domain.FitResult, error) {
	var result domain.FitResult
	err := s.observe(ctx, "evaluate_fit", func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(
			attribute.String("opportunity_id", q.OpportunityID),
			attribute.String("person_id", q.PersonID),
			attribute.Int("capabilities", len(q.Capabilities)),
		)
		ctx, cancel := s.withSearchDeadline(ctx)
		defer cancel()

		var err error
		result, err = s.engine.EvaluateFit(ctx, q.OpportunityID, q.PersonID, q.Capabilities)
		return err
	})
	return result, err
}

// withSearchDeadline bounds path searches when the caller set no deadline.
func (s *IntelligenceService) withSearchDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.opts.PathTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.PathTimeout)
}

func (s *IntelligenceService) observe(ctx context.Context, op string, fn func(context.Context, trace.Span) error) error {
	ctx, span := tracer.Start(ctx, "IntelligenceService."+op)
	defer span.End()

	start := s.nowFn()
	err := fn(ctx, span)
	elapsed := s.nowFn().Sub(start)
	outcome := Outcome(err)
	s.metrics.RecordOperation(op, outcome, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		level := slog.LevelDebug
		if outcome == OutcomeStoreUnavailable || outcome == OutcomeError {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "operation failed",
			slog.String("operation", op),
			slog.String("outcome", outcome),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
		return err
	}
	s.logger.DebugContext(ctx, "operation completed",
		slog.String("operation", op),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// Outcome labels.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidArgument  = "invalid_argument"
	OutcomeNotFound         = "not_found"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeError            = "error"
)

// Outcome classifies an operation error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return OutcomeStoreUnavailable
	default:
		return OutcomeError
	}
}
