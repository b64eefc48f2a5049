package engine

import (
	"context"
	"errors"

	"github.com/vanshika/netintel/internal/domain"
)

// neighbor is one collapsed, active edge seen from a fixed endpoint.
type neighbor struct {
	personID string
	edge     domain.Relationship
}

// fetchNeighbors loads the active edges of personID. An unknown person simply
// has no edges.
func (e *Engine) fetchNeighbors(ctx context.Context, personID string) ([]neighbor, error) {
	edges, err := e.store.GetEdges(ctx, personID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return collapseEdges(personID, edges), nil
}

// collapseEdges drops inactive edges and self loops, and merges parallel edges
// to the same peer (a pair stored in both directions, for example) into the
// strongest one. Tags of merged edges are unioned. Order follows first
// appearance of each peer.
func collapseEdges(personID string, edges []domain.Relationship) []neighbor {
	out := make([]neighbor, 0, len(edges))
	index := make(map[string]int, len(edges))
	for _, edge := range edges {
		if !edge.Active {
			continue
		}
		peer := edge.Other(personID)
		if peer == "" || peer == personID {
			continue
		}
		pos, seen := index[peer]
		if !seen {
			edge.Types = domain.UnionTags(nil, edge.Types)
			index[peer] = len(out)
			out = append(out, neighbor{personID: peer, edge: edge})
			continue
		}
		kept := out[pos].edge
		tags := domain.UnionTags(kept.Types, edge.Types)
		if stronger(edge, kept) {
			kept = edge
		}
		kept.Types = tags
		out[pos].edge = kept
	}
	return out
}

func stronger(a, b domain.Relationship) bool {
	if a.Strength.Rank() != b.Strength.Rank() {
		return a.Strength.Rank() > b.Strength.Rank()
	}
	return a.BusinessRelevance > b.BusinessRelevance
}
