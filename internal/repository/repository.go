// Package repository implements the graph store and event/opportunity catalog
// on top of a Cypher-speaking graph database.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/graph"
	"github.com/vanshika/netintel/internal/validation"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Repository reads and writes the relationship graph through a graph.Client.
type Repository struct {
	client graph.Client
	now    func() time.Time
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client, now: time.Now}
}

// Ping verifies the graph database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.client.VerifyConnectivity(ctx); err != nil {
		return domain.StoreUnavailable("ping graph", err)
	}
	return nil
}

// GetPerson loads one person by id.
func (r *Repository) GetPerson(ctx context.Context, id string) (domain.Person, error) {
	record, err := r.readOne(ctx, "get person", getPersonCypher, map[string]any{"id": id})
	if err != nil {
		return domain.Person{}, err
	}
	if record == nil {
		return domain.Person{}, domain.NotFound("person", id)
	}
	person, err := personFromRecord(record)
	if err != nil {
		return domain.Person{}, domain.StoreUnavailable("get person", err)
	}
	if err := validation.Row("person", person); err != nil {
		return domain.Person{}, err
	}
	return person, nil
}

// GetOrganization loads one organization by id.
func (r *Repository) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	record, err := r.readOne(ctx, "get organization", getOrganizationCypher, map[string]any{"id": id})
	if err != nil {
		return domain.Organization{}, err
	}
	if record == nil {
		return domain.Organization{}, domain.NotFound("organization", id)
	}
	d := decode(record)
	org := domain.Organization{
		ID:              d.str("organizationId"),
		Name:            d.str("name"),
		Type:            d.str("type"),
		IndustrySectors: d.list("industrySectors"),
		InfluenceScore:  d.number("influenceScore"),
		Capabilities:    d.list("capabilities"),
	}
	if d.err != nil {
		return domain.Organization{}, domain.StoreUnavailable("get organization", fmt.Errorf("organization %s: %w", id, d.err))
	}
	if err := validation.Row("organization", org); err != nil {
		return domain.Organization{}, err
	}
	return org, nil
}

// GetEdges returns every RELATED_TO edge touching the person. An unknown
// person yields ErrNotFound; a known person without edges yields none.
func (r *Repository) GetEdges(ctx context.Context, personID string) ([]domain.Relationship, error) {
	res, err := r.client.ExecuteRead(ctx, getEdgesCypher, map[string]any{"id": personID})
	if err != nil {
		return nil, domain.StoreUnavailable("get edges", err)
	}
	if len(res.Records) == 0 {
		return nil, domain.NotFound("person", personID)
	}

	edges := make([]domain.Relationship, 0, len(res.Records))
	for _, record := range res.Records {
		if record["personA"] == nil {
			// OPTIONAL MATCH row for a person without edges.
			continue
		}
		edge, err := edgeFromRecord(record)
		if err != nil {
			return nil, domain.StoreUnavailable("get edges", fmt.Errorf("edges of %s: %w", personID, err))
		}
		if err := validation.Row("relationship", edge); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// GetOpportunity loads one opportunity by id.
func (r *Repository) GetOpportunity(ctx context.Context, id string) (domain.Opportunity, error) {
	record, err := r.readOne(ctx, "get opportunity", getOpportunityCypher, map[string]any{"id": id})
	if err != nil {
		return domain.Opportunity{}, err
	}
	if record == nil {
		return domain.Opportunity{}, domain.NotFound("opportunity", id)
	}
	opp, err := opportunityFromRecord(record)
	if err != nil {
		return domain.Opportunity{}, domain.StoreUnavailable("get opportunity", err)
	}
	if err := validation.Row("opportunity", opp); err != nil {
		return domain.Opportunity{}, err
	}
	return opp, nil
}

// ListUpcomingEvents returns events starting at or after the filter's From
// time, soonest first.
func (r *Repository) ListUpcomingEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error) {
	from := filter.From
	if from.IsZero() {
		from = r.now()
	}
	sectors := make([]string, 0, len(filter.Sectors))
	for _, s := range filter.Sectors {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			sectors = append(sectors, s)
		}
	}

	res, err := r.client.ExecuteRead(ctx, listEventsCypher, map[string]any{
		"from":    from.UTC(),
		"sectors": sectors,
		"limit":   clampLimit(filter.Limit),
	})
	if err != nil {
		return nil, domain.StoreUnavailable("list events", err)
	}

	events := make([]domain.EventSummary, 0, len(res.Records))
	for _, record := range res.Records {
		d := decode(record)
		item := domain.EventSummary{
			ID:              d.str("eventId"),
			Name:            d.str("name"),
			Location:        d.str("location"),
			StartsAt:        d.datetime("startsAt"),
			IndustrySectors: d.list("industrySectors"),
		}
		if d.err != nil {
			return nil, domain.StoreUnavailable("list events", fmt.Errorf("event %s: %w", item.ID, d.err))
		}
		events = append(events, item)
	}
	return events, nil
}

// ListOpenOpportunities returns opportunities in the requested status,
// earliest deadline first.
func (r *Repository) ListOpenOpportunities(ctx context.Context, filter domain.OpportunityFilter) ([]domain.OpportunitySummary, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = domain.OpportunityStatusOpen
	}

	res, err := r.client.ExecuteRead(ctx, listOpportunitiesCypher, map[string]any{
		"status": status,
		"limit":  clampLimit(filter.Limit),
	})
	if err != nil {
		return nil, domain.StoreUnavailable("list opportunities", err)
	}

	out := make([]domain.OpportunitySummary, 0, len(res.Records))
	for _, record := range res.Records {
		opp, err := opportunityFromRecord(record)
		if err != nil {
			return nil, domain.StoreUnavailable("list opportunities", err)
		}
		out = append(out, opp.Summary())
	}
	return out, nil
}

func (r *Repository) readOne(ctx context.Context, op, cypher string, params map[string]any) (graph.Record, error) {
	res, err := r.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return nil, domain.StoreUnavailable(op, err)
	}
	record, ok := res.First()
	if !ok {
		return nil, nil
	}
	return record, nil
}

func personFromRecord(record graph.Record) (domain.Person, error) {
	d := decode(record)
	p := domain.Person{
		ID:              d.str("personId"),
		Name:            d.str("name"),
		Title:           d.str("title"),
		Seniority:       domain.ParseSeniority(d.str("seniority")),
		Department:      d.str("department"),
		OrganizationID:  d.str("organizationId"),
		InfluenceScore:  d.number("influenceScore"),
		ConnectionCount: d.integer("connectionCount"),
		Visible:         d.boolean("visible"),
	}
	if d.err != nil {
		return domain.Person{}, fmt.Errorf("person %s: %w", p.ID, d.err)
	}
	return p, nil
}

func edgeFromRecord(record graph.Record) (domain.Relationship, error) {
	d := decode(record)
	edge := domain.Relationship{
		PersonA:           d.str("personA"),
		PersonB:           d.str("personB"),
		Types:             d.list("types"),
		BusinessRelevance: d.number("businessRelevance"),
		Active:            d.boolean("active"),
	}
	label := d.str("strength")
	if d.err != nil {
		return domain.Relationship{}, d.err
	}
	strength, err := domain.ParseStrength(label)
	if err != nil {
		return domain.Relationship{}, err
	}
	edge.Strength = strength
	return edge, nil
}

func opportunityFromRecord(record graph.Record) (domain.Opportunity, error) {
	d := decode(record)
	opp := domain.Opportunity{
		ID:                    d.str("opportunityId"),
		Title:                 d.str("title"),
		RequiredCapabilities:  d.list("requiredCapabilities"),
		PreferredCapabilities: d.list("preferredCapabilities"),
		EstimatedValue: domain.ValueRange{
			Min:      d.number("valueMin"),
			Max:      d.number("valueMax"),
			Currency: d.str("currency"),
		},
		PrimaryContactID: d.str("primaryContactId"),
		Status:           d.str("status"),
		Deadline:         d.optDatetime("deadline"),
	}
	if d.err != nil {
		return domain.Opportunity{}, fmt.Errorf("opportunity %s: %w", opp.ID, d.err)
	}
	return opp, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
