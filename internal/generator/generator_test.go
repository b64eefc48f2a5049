package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/validation"
)

var fixedNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func smallConfig() Config {
	return Config{
		NumOrganizations:   5,
		NumPeople:          120,
		NumOpportunities:   10,
		NumEvents:          6,
		AvgConnections:     6,
		ColleagueChance:    0.5,
		OpenOpportunityPct: 0.5,
		Seed:               7,
	}
}

func TestGenerateProducesValidRows(t *testing.T) {
	d, err := New(smallConfig()).WithClock(fixedNow).Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, d.Organizations, 5)
	assert.Len(t, d.People, 120)
	assert.Len(t, d.Opportunities, 10)
	assert.Len(t, d.Events, 6)
	assert.NotEmpty(t, d.Relationships)

	people := make(map[string]int, len(d.People))
	for _, p := range d.People {
		require.NoError(t, validation.Row("person", p))
		people[p.ID] = 0
	}
	orgs := make(map[string]bool, len(d.Organizations))
	for _, o := range d.Organizations {
		require.NoError(t, validation.Row("organization", o))
		orgs[o.ID] = true
	}
	for _, p := range d.People {
		assert.True(t, orgs[p.OrganizationID], "person %s references unknown org", p.ID)
	}

	pairs := make(map[[2]string]bool)
	for _, r := range d.Relationships {
		require.NoError(t, validation.Row("relationship", r))
		assert.NotEqual(t, r.PersonA, r.PersonB)
		key := [2]string{min(r.PersonA, r.PersonB), max(r.PersonA, r.PersonB)}
		assert.False(t, pairs[key], "duplicate pair %v", key)
		pairs[key] = true
		people[r.PersonA]++
		people[r.PersonB]++
	}
	for _, p := range d.People {
		assert.Equal(t, people[p.ID], p.ConnectionCount)
	}

	for _, o := range d.Opportunities {
		require.NoError(t, validation.Row("opportunity", o))
		_, ok := people[o.PrimaryContactID]
		assert.True(t, ok)
		require.NotNil(t, o.Deadline)
		assert.True(t, o.Deadline.After(fixedNow))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := New(smallConfig()).WithClock(fixedNow).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(smallConfig()).WithClock(fixedNow).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg := smallConfig()
	cfg.Seed = 8
	c, err := New(cfg).WithClock(fixedNow).Generate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.People[0].ID, c.People[0].ID)
}

func TestGenerateRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(smallConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
