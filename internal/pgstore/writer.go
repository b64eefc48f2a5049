package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/netintel/internal/domain"
)

func (s *Store) UpsertOrganization(ctx context.Context, o domain.Organization) error {
	if o.ID == "" {
		return errors.New("organization id is required")
	}
	_, err := s.db.Exec(ctx, upsertOrganizationSQL,
		o.ID, o.Name, o.Type, nonNil(o.IndustrySectors), o.InfluenceScore, nonNil(o.Capabilities))
	if err != nil {
		return fmt.Errorf("upsert organization %s: %w", o.ID, err)
	}
	return nil
}

func (s *Store) UpsertPerson(ctx context.Context, p domain.Person) error {
	if p.ID == "" {
		return errors.New("person id is required")
	}
	_, err := s.db.Exec(ctx, upsertPersonSQL,
		p.ID, p.Name, p.Title, string(p.Seniority), p.Department, p.OrganizationID,
		p.InfluenceScore, p.ConnectionCount, p.Visible)
	if err != nil {
		return fmt.Errorf("upsert person %s: %w", p.ID, err)
	}
	return nil
}

// UpsertRelationship stores the pair ordered by id so each unordered pair has
// a single row.
func (s *Store) UpsertRelationship(ctx context.Context, r domain.Relationship) error {
	if r.PersonA == "" || r.PersonB == "" {
		return errors.New("relationship endpoints are required")
	}
	a, b := r.PersonA, r.PersonB
	if b < a {
		a, b = b, a
	}
	_, err := s.db.Exec(ctx, upsertRelationshipSQL,
		a, b, string(r.Strength), nonNil(r.Types), r.BusinessRelevance, r.Active)
	if err != nil {
		return fmt.Errorf("upsert relationship %s-%s: %w", a, b, err)
	}
	return nil
}

func (s *Store) UpsertOpportunity(ctx context.Context, op domain.Opportunity) error {
	if op.ID == "" {
		return errors.New("opportunity id is required")
	}
	_, err := s.db.Exec(ctx, upsertOpportunitySQL,
		op.ID, op.Title, nonNil(op.RequiredCapabilities), nonNil(op.PreferredCapabilities),
		op.EstimatedValue.Min, op.EstimatedValue.Max, op.EstimatedValue.Currency,
		op.PrimaryContactID, op.Status, op.Deadline)
	if err != nil {
		return fmt.Errorf("upsert opportunity %s: %w", op.ID, err)
	}
	return nil
}

func (s *Store) UpsertEvent(ctx context.Context, ev domain.Event) error {
	if ev.ID == "" {
		return errors.New("event id is required")
	}
	_, err := s.db.Exec(ctx, upsertEventSQL, ev.ID, ev.Name, ev.Location, ev.StartsAt, nonNil(ev.IndustrySectors))
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", ev.ID, err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
