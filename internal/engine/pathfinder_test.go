package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/domain"
)

func TestFindPathsBottleneck(t *testing.T) {
	store := newFakeStore().
		addPerson("A", "", "").addPerson("B", "", "").addPerson("C", "", "").
		link("A", "B", domain.StrengthStrong, 9, "colleague").
		link("B", "C", domain.StrengthWeak, 4, "investor")

	eng := New(store, nil, Options{})
	got, err := eng.FindPaths(context.Background(), "A", "C", 3)
	require.NoError(t, err)
	require.Len(t, got.Paths, 1)

	path := got.Paths[0]
	assert.Equal(t, []string{"A", "B", "C"}, path.PersonIDs)
	assert.Equal(t, 2, path.Degree)
	assert.Equal(t, domain.StrengthWeak, path.Strength)
	assert.Equal(t, 4.0, path.BusinessRelevance)
	assert.Equal(t, []string{"colleague", "investor"}, path.RelationshipTypes)
	assert.False(t, got.Partial)
}

func TestFindPathsSelfIsEmpty(t *testing.T) {
	store := newFakeStore().addPerson("A", "", "").addPerson("B", "", "").
		link("A", "B", domain.StrengthStrong, 5)

	got, err := New(store, nil, Options{}).FindPaths(context.Background(), "A", "A", 3)
	require.NoError(t, err)
	assert.Empty(t, got.Paths)
	assert.Zero(t, store.edgeCalls)
}

func TestFindPathsUnknownEndpoints(t *testing.T) {
	store := newFakeStore().addPerson("A", "", "").addPerson("B", "", "").
		link("A", "B", domain.StrengthStrong, 5)
	eng := New(store, nil, Options{})

	got, err := eng.FindPaths(context.Background(), "ghost", "B", 3)
	require.NoError(t, err)
	assert.Empty(t, got.Paths)

	got, err = eng.FindPaths(context.Background(), "A", "ghost", 3)
	require.NoError(t, err)
	assert.Empty(t, got.Paths)
}

func TestFindPathsRejectsBadArguments(t *testing.T) {
	eng := New(newFakeStore(), nil, Options{})
	cases := []struct {
		name      string
		source    string
		target    string
		maxDegree int
		field     string
	}{
		{"zero degree", "A", "B", 0, "maxDegree"},
		{"negative degree", "A", "B", -2, "maxDegree"},
		{"degree above limit", "A", "B", 7, "maxDegree"},
		{"missing source", " ", "B", 2, "sourceId"},
		{"missing target", "A", "", 2, "targetId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.FindPaths(context.Background(), tc.source, tc.target, tc.maxDegree)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
			var invalid *domain.InvalidArgumentError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestFindPathsOrderingAndDegreeBound(t *testing.T) {
	// A-T direct, A-B-T and A-C-T two hops, A-D-E-T three hops.
	store := newFakeStore()
	for _, id := range []string{"A", "B", "C", "D", "E", "T"} {
		store.addPerson(id, "", "")
	}
	store.link("A", "B", domain.StrengthStrong, 3).
		link("B", "T", domain.StrengthStrong, 3).
		link("A", "C", domain.StrengthMedium, 8).
		link("C", "T", domain.StrengthStrong, 9).
		link("A", "T", domain.StrengthWeak, 1).
		link("A", "D", domain.StrengthStrong, 10).
		link("D", "E", domain.StrengthStrong, 10).
		link("E", "T", domain.StrengthStrong, 10)

	eng := New(store, nil, Options{})

	got, err := eng.FindPaths(context.Background(), "A", "T", 3)
	require.NoError(t, err)
	require.Len(t, got.Paths, 4)
	assert.Equal(t, []string{"A", "T"}, got.Paths[0].PersonIDs)
	assert.Equal(t, []string{"A", "C", "T"}, got.Paths[1].PersonIDs)
	assert.Equal(t, []string{"A", "B", "T"}, got.Paths[2].PersonIDs)
	assert.Equal(t, []string{"A", "D", "E", "T"}, got.Paths[3].PersonIDs)
	assert.Equal(t, domain.StrengthMedium, got.Paths[1].Strength)

	got, err = eng.FindPaths(context.Background(), "A", "T", 2)
	require.NoError(t, err)
	require.Len(t, got.Paths, 3)
	for _, p := range got.Paths {
		assert.LessOrEqual(t, p.Degree, 2)
	}
}

func TestFindPathsIgnoresInactiveSelfLoopsAndCycles(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"A", "B", "C"} {
		store.addPerson(id, "", "")
	}
	store.link("A", "B", domain.StrengthStrong, 5).
		link("B", "A", domain.StrengthMedium, 7, "advisor").
		link("B", "B", domain.StrengthStrong, 5).
		link("B", "C", domain.StrengthStrong, 5)
	store.edges = append(store.edges, domain.Relationship{
		PersonA: "A", PersonB: "C", Strength: domain.StrengthStrong,
		Types: []string{"board"}, BusinessRelevance: 10, Active: false,
	})

	got, err := New(store, nil, Options{}).FindPaths(context.Background(), "A", "C", 4)
	require.NoError(t, err)
	require.Len(t, got.Paths, 1)
	path := got.Paths[0]
	assert.Equal(t, []string{"A", "B", "C"}, path.PersonIDs)
	// Parallel A-B edges collapse onto the strong one with unioned tags.
	assert.Equal(t, domain.StrengthStrong, path.Strength)
	assert.Equal(t, []string{"colleague", "advisor"}, path.RelationshipTypes)
}

func TestFindPathsCapsResults(t *testing.T) {
	store := newFakeStore().addPerson("S", "", "").addPerson("T", "", "")
	for i := 0; i < 15; i++ {
		mid := string(rune('a' + i))
		store.addPerson(mid, "", "").
			link("S", mid, domain.StrengthStrong, float64(i%10)).
			link(mid, "T", domain.StrengthStrong, 10)
	}

	eng := New(store, nil, Options{MaxPaths: 4})
	got, err := eng.FindPaths(context.Background(), "S", "T", 3)
	require.NoError(t, err)
	require.Len(t, got.Paths, 4)
	for i := 1; i < len(got.Paths); i++ {
		assert.GreaterOrEqual(t, got.Paths[i-1].BusinessRelevance, got.Paths[i].BusinessRelevance)
	}
	assert.Equal(t, 9.0, got.Paths[0].BusinessRelevance)
}

func TestFindPathsCancelledReturnsPartial(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"A", "B", "C", "D"} {
		store.addPerson(id, "", "")
	}
	store.link("A", "D", domain.StrengthStrong, 5).
		link("A", "B", domain.StrengthStrong, 5).
		link("B", "C", domain.StrengthStrong, 5).
		link("C", "D", domain.StrengthStrong, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.onEdges = func(personID string) {
		if personID == "B" {
			cancel()
		}
	}

	got, err := New(store, nil, Options{}).FindPaths(ctx, "A", "D", 3)
	require.NoError(t, err)
	assert.True(t, got.Partial)
	require.Len(t, got.Paths, 1)
	assert.Equal(t, []string{"A", "D"}, got.Paths[0].PersonIDs)
}

func TestFindPathsStoreFailure(t *testing.T) {
	store := newFakeStore().addPerson("A", "", "")
	store.edgesErr = domain.StoreUnavailable("get edges", errors.New("connection refused"))

	_, err := New(store, nil, Options{}).FindPaths(context.Background(), "A", "B", 2)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
