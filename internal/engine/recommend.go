package engine

import (
	"sort"

	"github.com/vanshika/netintel/internal/domain"
)

// MergeRecommendations concatenates the given lists, keeps the first
// occurrence of each (type, action) pair, orders the result by priority
// (high, medium, low) without disturbing the relative order of equal
// priorities and returns at most limit entries. A non-positive limit keeps
// everything.
func MergeRecommendations(limit int, lists ...[]domain.Recommendation) []domain.Recommendation {
	type key struct{ typ, action string }

	merged := []domain.Recommendation{}
	seen := make(map[key]struct{})
	for _, list := range lists {
		for _, rec := range list {
			k := key{rec.Type, rec.Action}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, rec)
		}
	}

	sortByPriority(merged)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// MergeRecommendations applies the engine's configured recommendation limit.
func (e *Engine) MergeRecommendations(lists ...[]domain.Recommendation) []domain.Recommendation {
	return MergeRecommendations(e.opts.RecommendationLimit, lists...)
}

func sortByPriority(recs []domain.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
}
