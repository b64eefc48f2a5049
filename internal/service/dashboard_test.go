package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/domain"
)

func TestGetDashboard(t *testing.T) {
	svc, rec := newTestService(t, nil)

	dash, err := svc.GetDashboard(context.Background(), " alice ")
	require.NoError(t, err)

	assert.Equal(t, "alice", dash.PersonID)
	assert.Equal(t, 1, dash.Network.Stats.TotalConnections)

	require.Len(t, dash.OpportunityFits, 2, "closed opportunities are not evaluated")
	assert.Equal(t, "opp-platform", dash.OpportunityFits[0].OpportunityID)
	assert.InDelta(t, 50, dash.OpportunityFits[0].OverallScore, 0.001)
	assert.Equal(t, "opp-rust", dash.OpportunityFits[1].OpportunityID)
	assert.InDelta(t, 34, dash.OpportunityFits[1].OverallScore, 0.001)

	require.Len(t, dash.UpcomingEvents, 1)
	assert.Equal(t, "ev-fintech", dash.UpcomingEvents[0].ID)

	require.Len(t, dash.OpenOpportunities, 2)
	assert.Equal(t, "opp-rust", dash.OpenOpportunities[0].ID, "catalog order is passed through")

	require.NotEmpty(t, dash.Recommendations)
	assert.LessOrEqual(t, len(dash.Recommendations), 5)
	assert.Equal(t, domain.PriorityHigh, dash.Recommendations[0].Priority)
	for i := 1; i < len(dash.Recommendations); i++ {
		assert.LessOrEqual(t, dash.Recommendations[i-1].Priority.Rank(), dash.Recommendations[i].Priority.Rank())
	}

	assert.Equal(t, []recordedOp{{"get_dashboard", OutcomeOK}}, rec.ops)
}

func TestGetDashboardPersonWithoutOrganization(t *testing.T) {
	svc, _ := newTestService(t, nil)

	// bob's organization has no capabilities, so every required capability
	// is missing.
	dash, err := svc.GetDashboard(context.Background(), "bob")
	require.NoError(t, err)
	for _, fit := range dash.OpportunityFits {
		assert.Empty(t, fit.Capabilities.MatchedRequired)
	}
}

func TestGetDashboardErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.GetDashboard(context.Background(), "  ")
	var invalid *domain.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "personId", invalid.Field)

	_, err = svc.GetDashboard(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type failingCatalog struct {
	err error
}

func (c failingCatalog) ListUpcomingEvents(context.Context, domain.EventFilter) ([]domain.EventSummary, error) {
	return nil, c.err
}

func (c failingCatalog) ListOpenOpportunities(context.Context, domain.OpportunityFilter) ([]domain.OpportunitySummary, error) {
	return []domain.OpportunitySummary{}, nil
}

func TestGetDashboardFailsWhenCatalogFails(t *testing.T) {
	catalogErr := domain.StoreUnavailable("list events", errors.New("connection reset"))
	svc, rec := newTestService(t, failingCatalog{err: catalogErr})

	_, err := svc.GetDashboard(context.Background(), "alice")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, []recordedOp{{"get_dashboard", OutcomeStoreUnavailable}}, rec.ops)
}
