package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/engine"
	"github.com/vanshika/netintel/internal/memstore"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixtureDataset() dataset.Dataset {
	soon := testNow.Add(72 * time.Hour)
	later := testNow.Add(30 * 24 * time.Hour)
	return dataset.Dataset{
		Organizations: []domain.Organization{
			{ID: "org-1", Name: "Acme", IndustrySectors: []string{"fintech"}, InfluenceScore: 6, Capabilities: []string{"go", "kubernetes"}},
			{ID: "org-2", Name: "Globex", IndustrySectors: []string{"fintech"}, InfluenceScore: 5},
		},
		People: []domain.Person{
			{ID: "alice", Name: "Alice", Seniority: domain.SenioritySenior, OrganizationID: "org-1", InfluenceScore: 6},
			{ID: "bob", Name: "Bob", Seniority: domain.SeniorityJunior, OrganizationID: "org-2", InfluenceScore: 4},
			{ID: "carol", Name: "Carol", Seniority: domain.SeniorityCLevel, OrganizationID: "org-2", InfluenceScore: 9},
		},
		Relationships: []domain.Relationship{
			{PersonA: "alice", PersonB: "bob", Strength: domain.StrengthStrong, Types: []string{"colleague"}, BusinessRelevance: 8, Active: true},
			{PersonA: "bob", PersonB: "carol", Strength: domain.StrengthMedium, Types: []string{"client"}, BusinessRelevance: 6, Active: true},
		},
		Opportunities: []domain.Opportunity{
			{ID: "opp-platform", Title: "Platform rebuild", RequiredCapabilities: []string{"go", "kubernetes"}, PreferredCapabilities: []string{"terraform"}, PrimaryContactID: "carol", Status: "open", Deadline: &later},
			{ID: "opp-rust", Title: "Rust port", RequiredCapabilities: []string{"rust"}, PrimaryContactID: "bob", Status: "open", Deadline: &soon},
			{ID: "opp-closed", Title: "Closed deal", PrimaryContactID: "bob", Status: "closed"},
		},
		Events: []domain.Event{
			{ID: "ev-past", Name: "Last year", StartsAt: testNow.Add(-24 * time.Hour), IndustrySectors: []string{"fintech"}},
			{ID: "ev-fintech", Name: "Fintech summit", StartsAt: testNow.Add(48 * time.Hour), IndustrySectors: []string{"fintech"}},
			{ID: "ev-health", Name: "Health expo", StartsAt: testNow.Add(96 * time.Hour), IndustrySectors: []string{"healthcare"}},
		},
	}
}

type recordedOp struct {
	operation string
	outcome   string
}

type stubRecorder struct {
	mu       sync.Mutex
	ops      []recordedOp
	searches []int
}

func (r *stubRecorder) RecordOperation(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation, outcome})
}

func (r *stubRecorder) RecordPathSearch(paths int, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, paths)
}

func newTestService(t *testing.T, catalog Catalog) (*IntelligenceService, *stubRecorder) {
	t.Helper()
	store := memstore.New(fixtureDataset())
	if catalog == nil {
		catalog = store
	}
	rec := &stubRecorder{}
	svc := NewIntelligenceService(engine.New(store, nil, engine.DefaultOptions()), store, catalog, Options{PathTimeout: time.Second}).
		WithMetrics(rec).
		WithClock(func() time.Time { return testNow })
	return svc, rec
}

func intPtr(v int) *int { return &v }

func TestFindPathsAppliesDefaultDegree(t *testing.T) {
	svc, rec := newTestService(t, nil)

	result, err := svc.FindPaths(context.Background(), PathQuery{SourceID: "alice", TargetID: "carol"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.MaxDegree)
	require.Len(t, result.Paths, 1)
	assert.Equal(t, []string{"alice", "bob", "carol"}, result.Paths[0].PersonIDs)
	assert.Equal(t, domain.StrengthMedium, result.Paths[0].Strength)

	result, err = svc.FindPaths(context.Background(), PathQuery{SourceID: "alice", TargetID: "carol", MaxDegree: intPtr(1)})
	require.NoError(t, err)
	assert.Empty(t, result.Paths)

	assert.Equal(t, []recordedOp{{"find_paths", OutcomeOK}, {"find_paths", OutcomeOK}}, rec.ops)
	assert.Equal(t, []int{1, 0}, rec.searches)
}

func TestFindPathsRejectsExplicitZeroDegree(t *testing.T) {
	svc, rec := newTestService(t, nil)

	_, err := svc.FindPaths(context.Background(), PathQuery{SourceID: "alice", TargetID: "carol", MaxDegree: intPtr(0)})
	var invalid *domain.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "maxDegree", invalid.Field)
	assert.Equal(t, []recordedOp{{"find_paths", OutcomeInvalidArgument}}, rec.ops)
}

func TestAnalyzeNetworkRecordsNotFound(t *testing.T) {
	svc, rec := newTestService(t, nil)

	_, err := svc.AnalyzeNetwork(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []recordedOp{{"analyze_network", OutcomeNotFound}}, rec.ops)

	analysis, err := svc.AnalyzeNetwork(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, analysis.Stats.TotalConnections)
}

func TestEvaluateFitThroughService(t *testing.T) {
	svc, _ := newTestService(t, nil)

	fit, err := svc.EvaluateFit(context.Background(), FitQuery{
		OpportunityID: "opp-platform",
		PersonID:      "alice",
		Capabilities:  []string{"Go", "Kubernetes"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 70, fit.Capabilities.Strength, 0.001)
	assert.Equal(t, 2, fit.RelationshipAdvantage.Degree)
	assert.InDelta(t, 50, fit.OverallScore, 0.001)
}

func TestWithSearchDeadline(t *testing.T) {
	svc, _ := newTestService(t, nil)

	ctx, cancel := svc.withSearchDeadline(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok, "default deadline applied")

	want := time.Now().Add(time.Hour)
	parent, cancelParent := context.WithDeadline(context.Background(), want)
	defer cancelParent()
	ctx, cancel = svc.withSearchDeadline(parent)
	defer cancel()
	got, _ := ctx.Deadline()
	assert.Equal(t, want, got, "caller deadline kept")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeInvalidArgument, Outcome(domain.InvalidArgument("x", "bad")))
	assert.Equal(t, OutcomeNotFound, Outcome(domain.NotFound("person", "p")))
	assert.Equal(t, OutcomeStoreUnavailable, Outcome(domain.StoreUnavailable("read", errors.New("boom"))))
	assert.Equal(t, OutcomeError, Outcome(errors.New("boom")))
}
