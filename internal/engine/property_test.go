package engine

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vanshika/netintel/internal/domain"
)

var strengths = []domain.Strength{domain.StrengthWeak, domain.StrengthMedium, domain.StrengthStrong}

type edgeSpec struct {
	A, B      int
	Strength  int
	Relevance int
}

var reflectEdgeSpec = reflect.TypeOf(edgeSpec{})

// graphFrom builds a store over n people p0..p(n-1) from generated edges.
func graphFrom(n int, specs []edgeSpec) (*fakeStore, map[[2]string][]domain.Relationship) {
	store := newFakeStore()
	for i := 0; i < n; i++ {
		store.addPerson(fmt.Sprintf("p%d", i), "", domain.SeniorityOther)
	}
	byPair := map[[2]string][]domain.Relationship{}
	for _, s := range specs {
		a, b := fmt.Sprintf("p%d", s.A%n), fmt.Sprintf("p%d", s.B%n)
		store.link(a, b, strengths[s.Strength%3], float64(s.Relevance%11))
		e := store.edges[len(store.edges)-1]
		byPair[[2]string{a, b}] = append(byPair[[2]string{a, b}], e)
		byPair[[2]string{b, a}] = append(byPair[[2]string{b, a}], e)
	}
	return store, byPair
}

func genEdges() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflectEdgeSpec, map[string]gopter.Gen{
		"A":         gen.IntRange(0, 7),
		"B":         gen.IntRange(0, 7),
		"Strength":  gen.IntRange(0, 2),
		"Relevance": gen.IntRange(0, 10),
	}))
}

func TestPathSearchProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("paths are acyclic, bounded, ordered and capped", prop.ForAll(
		func(specs []edgeSpec, maxDegree int) bool {
			store, byPair := graphFrom(8, specs)
			eng := New(store, nil, Options{MaxPaths: 5})
			got, err := eng.FindPaths(context.Background(), "p0", "p7", maxDegree)
			if err != nil || got.Partial || len(got.Paths) > 5 {
				return false
			}
			for i, p := range got.Paths {
				if p.Source() != "p0" || p.Target() != "p7" {
					return false
				}
				if p.Degree < 1 || p.Degree > maxDegree || p.Degree != len(p.PersonIDs)-1 {
					return false
				}
				seen := map[string]bool{}
				for _, id := range p.PersonIDs {
					if seen[id] {
						return false
					}
					seen[id] = true
				}
				if i > 0 {
					prev := got.Paths[i-1]
					if prev.Degree > p.Degree {
						return false
					}
					if prev.Degree == p.Degree && prev.BusinessRelevance < p.BusinessRelevance {
						return false
					}
				}
				if !strengthWithinEdges(p, byPair) {
					return false
				}
			}
			return true
		},
		genEdges(),
		gen.IntRange(1, 4),
	))

	properties.Property("fit scores stay in range", prop.ForAll(
		func(required, preferred, have []string) bool {
			store := newFakeStore()
			store.opportunities["o"] = domain.Opportunity{ID: "o", RequiredCapabilities: required, PreferredCapabilities: preferred}
			got, err := New(store, nil, Options{}).EvaluateFit(context.Background(), "o", "", have)
			if err != nil {
				return false
			}
			s := got.Capabilities.Strength
			return s >= 0 && s <= 100 && got.OverallScore >= 0 && got.OverallScore <= 100
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// strengthWithinEdges checks that the aggregate strength is never stronger
// than the strongest edge available on any hop and the relevance never
// exceeds the best edge on any hop.
func strengthWithinEdges(p domain.ConnectionPath, byPair map[[2]string][]domain.Relationship) bool {
	for i := 1; i < len(p.PersonIDs); i++ {
		edges := byPair[[2]string{p.PersonIDs[i-1], p.PersonIDs[i]}]
		if len(edges) == 0 {
			return false
		}
		best := edges[0]
		for _, e := range edges[1:] {
			if stronger(e, best) {
				best = e
			}
		}
		if p.Strength.Rank() > best.Strength.Rank() {
			return false
		}
		maxRel := 0.0
		for _, e := range edges {
			if e.BusinessRelevance > maxRel {
				maxRel = e.BusinessRelevance
			}
		}
		if p.BusinessRelevance > maxRel {
			return false
		}
	}
	return true
}
