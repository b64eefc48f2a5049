package server

import (
	"context"
	"fmt"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// Pinger is implemented by every store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthService reports the store backend and, when one is installed,
// the circuit breaker in front of it.
type StoreHealthService struct {
	Store        Pinger
	BreakerState func() string
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(ctx context.Context) error {
	if s.BreakerState != nil {
		if state := s.BreakerState(); state == "open" {
			return fmt.Errorf("store circuit breaker is %s", state)
		}
	}
	if s.Store == nil {
		return nil
	}
	return s.Store.Ping(ctx)
}
