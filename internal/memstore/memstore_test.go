package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/domain"
)

func sample() dataset.Dataset {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	soon, later := base.Add(24*time.Hour), base.Add(72*time.Hour)
	return dataset.Dataset{
		Organizations: []domain.Organization{{ID: "ORG-1", IndustrySectors: []string{"fintech"}}},
		People: []domain.Person{
			{ID: "P-1", OrganizationID: "ORG-1"},
			{ID: "P-2"},
			{ID: "P-3", InfluenceScore: 50},
		},
		Relationships: []domain.Relationship{
			{PersonA: "P-1", PersonB: "P-2", Strength: domain.StrengthStrong, Types: []string{"colleague"}, Active: true},
			{PersonA: "P-2", PersonB: "P-2", Strength: domain.StrengthWeak, Types: []string{"self"}, Active: true},
		},
		Opportunities: []domain.Opportunity{
			{ID: "OPP-late", Status: "open", Deadline: &later},
			{ID: "OPP-none", Status: "open"},
			{ID: "OPP-soon", Status: "OPEN", Deadline: &soon},
			{ID: "OPP-won", Status: "won"},
		},
		Events: []domain.Event{
			{ID: "EV-2", StartsAt: later, IndustrySectors: []string{"retail"}},
			{ID: "EV-past", StartsAt: base.Add(-time.Hour)},
			{ID: "EV-1", StartsAt: soon, IndustrySectors: []string{"Fintech"}},
		},
	}
}

func newStore() *Store {
	s := New(sample())
	s.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestStoreLookups(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	p, err := s.GetPerson(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, "ORG-1", p.OrganizationID)

	_, err = s.GetPerson(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetPerson(ctx, "P-3")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = s.GetOrganization(ctx, "ORG-1")
	require.NoError(t, err)
	_, err = s.GetOpportunity(ctx, "OPP-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreEdgesAreUndirected(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	edges, err := s.GetEdges(ctx, "P-1")
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	edges, err = s.GetEdges(ctx, "P-2")
	require.NoError(t, err)
	assert.Len(t, edges, 2, "self loop is listed once")

	edges, err = s.GetEdges(ctx, "P-3")
	require.NoError(t, err)
	assert.Empty(t, edges)

	_, err = s.GetEdges(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreCatalog(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	events, err := s.ListUpcomingEvents(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "EV-1", events[0].ID)

	events, err = s.ListUpcomingEvents(ctx, domain.EventFilter{Sectors: []string{"fintech"}})
	require.NoError(t, err)
	require.Len(t, events, 1)

	opps, err := s.ListOpenOpportunities(ctx, domain.OpportunityFilter{})
	require.NoError(t, err)
	ids := make([]string, 0, len(opps))
	for _, o := range opps {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"OPP-soon", "OPP-late", "OPP-none"}, ids)

	opps, err = s.ListOpenOpportunities(ctx, domain.OpportunityFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, opps, 1)
}
