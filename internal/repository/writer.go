package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/netintel/internal/domain"
)

// EnsureSchema creates the uniqueness constraints the upserts rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// UpsertOrganization creates or refreshes an organization node.
func (r *Repository) UpsertOrganization(ctx context.Context, org domain.Organization) error {
	if org.ID == "" {
		return errors.New("organization id is required")
	}
	_, err := r.client.ExecuteWrite(ctx, upsertOrganizationCypher, map[string]any{
		"id": org.ID,
		"props": map[string]any{
			"name":            org.Name,
			"type":            org.Type,
			"industrySectors": nonNil(org.IndustrySectors),
			"influenceScore":  org.InfluenceScore,
			"capabilities":    nonNil(org.Capabilities),
		},
	})
	if err != nil {
		return fmt.Errorf("upsert organization %s: %w", org.ID, err)
	}
	return nil
}

// UpsertPerson creates or refreshes a person node and its WORKS_AT edge.
func (r *Repository) UpsertPerson(ctx context.Context, p domain.Person) error {
	if p.ID == "" {
		return errors.New("person id is required")
	}
	_, err := r.client.ExecuteWrite(ctx, upsertPersonCypher, map[string]any{
		"id":             p.ID,
		"organizationId": p.OrganizationID,
		"props": map[string]any{
			"name":            p.Name,
			"title":           p.Title,
			"seniority":       string(p.Seniority),
			"department":      p.Department,
			"organizationId":  p.OrganizationID,
			"influenceScore":  p.InfluenceScore,
			"connectionCount": p.ConnectionCount,
			"visible":         p.Visible,
		},
	})
	if err != nil {
		return fmt.Errorf("upsert person %s: %w", p.ID, err)
	}
	return nil
}

// UpsertRelationship creates or refreshes the edge between two people. The
// pair is unordered so the edge is always written from the smaller id.
func (r *Repository) UpsertRelationship(ctx context.Context, rel domain.Relationship) error {
	if rel.PersonA == "" || rel.PersonB == "" {
		return errors.New("relationship endpoints are required")
	}
	a, b := rel.PersonA, rel.PersonB
	if b < a {
		a, b = b, a
	}
	_, err := r.client.ExecuteWrite(ctx, upsertRelationshipCypher, map[string]any{
		"personA": a,
		"personB": b,
		"props": map[string]any{
			"strength":          string(rel.Strength),
			"types":             nonNil(rel.Types),
			"businessRelevance": rel.BusinessRelevance,
			"active":            rel.Active,
		},
	})
	if err != nil {
		return fmt.Errorf("upsert relationship %s-%s: %w", a, b, err)
	}
	return nil
}

// UpsertOpportunity creates or refreshes an opportunity node.
func (r *Repository) UpsertOpportunity(ctx context.Context, opp domain.Opportunity) error {
	if opp.ID == "" {
		return errors.New("opportunity id is required")
	}
	_, err := r.client.ExecuteWrite(ctx, upsertOpportunityCypher, map[string]any{
		"id": opp.ID,
		"props": map[string]any{
			"title":                 opp.Title,
			"requiredCapabilities":  nonNil(opp.RequiredCapabilities),
			"preferredCapabilities": nonNil(opp.PreferredCapabilities),
			"valueMin":              opp.EstimatedValue.Min,
			"valueMax":              opp.EstimatedValue.Max,
			"currency":              opp.EstimatedValue.Currency,
			"primaryContactId":      opp.PrimaryContactID,
			"status":                opp.Status,
			"deadline":              datetimeParam(opp.Deadline),
		},
	})
	if err != nil {
		return fmt.Errorf("upsert opportunity %s: %w", opp.ID, err)
	}
	return nil
}

// UpsertEvent creates or refreshes an event node.
func (r *Repository) UpsertEvent(ctx context.Context, ev domain.Event) error {
	if ev.ID == "" {
		return errors.New("event id is required")
	}
	_, err := r.client.ExecuteWrite(ctx, upsertEventCypher, map[string]any{
		"id": ev.ID,
		"props": map[string]any{
			"name":            ev.Name,
			"location":        ev.Location,
			"startsAt":        ev.StartsAt.UTC(),
			"industrySectors": nonNil(ev.IndustrySectors),
		},
	})
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", ev.ID, err)
	}
	return nil
}

// datetimeParam passes a deadline as a native datetime. A nil deadline
// removes the property.
func datetimeParam(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// nonNil keeps list properties as empty lists rather than nulls.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
