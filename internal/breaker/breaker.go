// Package breaker wraps a graph store in a circuit breaker so a failing
// database is reported as unavailable without waiting on every call.
package breaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/engine"
)

// Config holds circuit breaker settings.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns settings suitable for a single graph backend.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      10,
	}
}

// Store is an engine.GraphStore guarded by a circuit breaker. Only
// ErrStoreUnavailable counts as a failure; not-found answers and reads cut
// short by the caller's own context are healthy.
type Store struct {
	next engine.GraphStore
	cb   *gobreaker.CircuitBreaker
}

// Wrap guards next with a breaker built from cfg.
func Wrap(next engine.GraphStore, cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrStoreUnavailable) || abandoned(err)
		},
	})
	return &Store{next: next, cb: cb}
}

// State reports the breaker state, for health output.
func (s *Store) State() string {
	return s.cb.State().String()
}

func (s *Store) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	return execute(ctx, s, "get organization", func() (domain.Organization, error) {
		return s.next.GetOrganization(ctx, id)
	})
}

func (s *Store) GetPerson(ctx context.Context, id string) (domain.Person, error) {
	return execute(ctx, s, "get person", func() (domain.Person, error) {
		return s.next.GetPerson(ctx, id)
	})
}

func (s *Store) GetEdges(ctx context.Context, personID string) ([]domain.Relationship, error) {
	return execute(ctx, s, "get edges", func() ([]domain.Relationship, error) {
		return s.next.GetEdges(ctx, personID)
	})
}

func (s *Store) GetOpportunity(ctx context.Context, id string) (domain.Opportunity, error) {
	return execute(ctx, s, "get opportunity", func() (domain.Opportunity, error) {
		return s.next.GetOpportunity(ctx, id)
	})
}

func execute[T any](ctx context.Context, s *Store, op string, fn func() (T, error)) (T, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		v, err := fn()
		if err != nil && ctx.Err() != nil {
			return v, &callerGoneError{err: err}
		}
		return v, err
	})
	if err != nil {
		var zero T
		var gone *callerGoneError
		if errors.As(err, &gone) {
			return zero, gone.err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, domain.StoreUnavailable(op, err)
		}
		return zero, err
	}
	return out.(T), nil
}

// callerGoneError marks a failure observed after the caller's context ended.
// Such failures say nothing about the database.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }

func (e *callerGoneError) Unwrap() error { return e.err }

// abandoned reports whether err comes from a cancelled or expired caller
// rather than from the store itself.
func abandoned(err error) bool {
	var gone *callerGoneError
	return errors.As(err, &gone) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
