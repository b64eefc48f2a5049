package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/vanshika/netintel/internal/domain"
)

// FindPaths returns up to Options.MaxPaths connection paths from sourceID to
// targetID, ranked by degree ascending then business relevance descending.
//
// The search expands breadth-first from every direct edge of the source. Each
// frontier path is extended by one edge to a person it does not already
// contain; cycle avoidance is per path, so the same person may appear on
// several independent paths. Only paths ending exactly at the target are
// returned and the result is not exhaustive beyond the cap.
//
// When ctx is cancelled mid-search the paths confirmed so far are returned
// with Partial set and no error.
func (e *Engine) FindPaths(ctx context.Context, sourceID, targetID string, maxDegree int) (domain.PathSearch, error) {
	sourceID = strings.TrimSpace(sourceID)
	targetID = strings.TrimSpace(targetID)
	if sourceID == "" {
		return domain.PathSearch{}, domain.InvalidArgument("sourceId", "is required")
	}
	if targetID == "" {
		return domain.PathSearch{}, domain.InvalidArgument("targetId", "is required")
	}
	if maxDegree <= 0 {
		return domain.PathSearch{}, domain.InvalidArgument("maxDegree", "must be positive, got %d", maxDegree)
	}
	if maxDegree > e.opts.MaxDegreeLimit {
		return domain.PathSearch{}, domain.InvalidArgument("maxDegree", "must not exceed %d, got %d", e.opts.MaxDegreeLimit, maxDegree)
	}

	result := domain.PathSearch{
		SourceID:  sourceID,
		TargetID:  targetID,
		MaxDegree: maxDegree,
		Paths:     []domain.ConnectionPath{},
	}
	if sourceID == targetID {
		return result, nil
	}

	found, partial, err := e.expand(ctx, sourceID, targetID, maxDegree)
	if err != nil {
		return domain.PathSearch{}, err
	}

	rankPaths(found)
	if len(found) > e.opts.MaxPaths {
		found = found[:e.opts.MaxPaths]
	}
	result.Paths = append(result.Paths, found...)
	result.Partial = partial
	return result, nil
}

// expand runs the level-by-level traversal. Adjacency lists are memoised for
// the duration of one call only.
func (e *Engine) expand(ctx context.Context, sourceID, targetID string, maxDegree int) ([]domain.ConnectionPath, bool, error) {
	adjacency := make(map[string][]neighbor)
	frontier := []domain.ConnectionPath{{PersonIDs: []string{sourceID}}}
	var found []domain.ConnectionPath

	for depth := 0; depth < maxDegree && len(frontier) > 0; depth++ {
		var next []domain.ConnectionPath
		for _, path := range frontier {
			if ctx.Err() != nil {
				return found, true, nil
			}

			tail := path.Target()
			neighbors, ok := adjacency[tail]
			if !ok {
				var err error
				neighbors, err = e.fetchNeighbors(ctx, tail)
				if err != nil {
					if ctx.Err() != nil {
						return found, true, nil
					}
					return nil, false, err
				}
				adjacency[tail] = neighbors
			}

			for _, n := range neighbors {
				if path.Contains(n.personID) {
					continue
				}
				extended := path.Extend(n.personID, n.edge)
				if n.personID == targetID {
					found = append(found, extended)
					continue
				}
				if extended.Degree < maxDegree {
					next = append(next, extended)
				}
			}
		}
		frontier = next

		// Every deeper path ranks after the ones already confirmed.
		if len(found) >= e.opts.MaxPaths {
			break
		}
	}
	return found, false, nil
}

func rankPaths(paths []domain.ConnectionPath) {
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].Degree != paths[j].Degree {
			return paths[i].Degree < paths[j].Degree
		}
		return paths[i].BusinessRelevance > paths[j].BusinessRelevance
	})
}
