package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/netintel/internal/domain"
)

const (
	growthBaseline          = 5.0
	growthCLevelBonus       = 2.0
	growthSeniorBonus       = 1.0
	growthUntappedBonus     = 1.5
	growthQualityBonus      = 1.0
	untappedPenetration     = 0.3
	qualityImprovementBelow = 6.0
	scoreCeiling            = 10.0

	expansionThreshold      = 50
	strongRatioThreshold    = 0.3
	industryShareThreshold  = 0.4
	executiveEdgesThreshold = 100
)

// Recommendation types emitted by the network analyzer.
const (
	RecNetworkExpansion    = "network_expansion"
	RecRelationshipDeepen  = "relationship_deepening"
	RecIndustryFocus       = "industry_focus"
	RecExecutiveNetworking = "executive_networking"
)

// AnalyzeNetwork computes connection statistics, network quality, industry
// penetration and growth potential for one person. It fails with
// domain.ErrNotFound when the person does not exist.
func (e *Engine) AnalyzeNetwork(ctx context.Context, personID string) (domain.NetworkAnalysis, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return domain.NetworkAnalysis{}, domain.InvalidArgument("personId", "is required")
	}

	person, err := e.store.GetPerson(ctx, personID)
	if err != nil {
		return domain.NetworkAnalysis{}, err
	}

	neighbors, err := e.fetchNeighbors(ctx, personID)
	if err != nil {
		return domain.NetworkAnalysis{}, err
	}

	stats := edgeStats(neighbors)
	stats.IndustryConnections, err = e.countIndustryConnections(ctx, person, neighbors)
	if err != nil {
		return domain.NetworkAnalysis{}, err
	}

	penetration := 0.0
	if stats.TotalConnections > 0 {
		penetration = float64(stats.IndustryConnections) / float64(stats.TotalConnections)
	}
	quality := networkQuality(stats)
	growth, factors := growthPotential(person.Seniority, penetration, quality)
	recs := networkRecommendations(person.Seniority, stats)
	stats.AverageBusinessRelevance = round2(stats.AverageBusinessRelevance)

	return domain.NetworkAnalysis{
		PersonID:             person.ID,
		Seniority:            person.Seniority,
		Stats:                stats,
		IndustryPenetration:  round2(penetration),
		NetworkQualityScore:  round2(quality),
		GrowthPotentialScore: round2(growth),
		GrowthFactors:        factors,
		Recommendations:      recs,
	}, nil
}

func edgeStats(neighbors []neighbor) domain.NetworkStats {
	stats := domain.NetworkStats{
		TotalConnections:  len(neighbors),
		RelationshipTypes: []string{},
	}
	var relevance float64
	for _, n := range neighbors {
		switch n.edge.Strength {
		case domain.StrengthStrong:
			stats.StrongConnections++
		case domain.StrengthMedium:
			stats.MediumConnections++
		case domain.StrengthWeak:
			stats.WeakConnections++
		}
		relevance += n.edge.BusinessRelevance
		stats.RelationshipTypes = domain.UnionTags(stats.RelationshipTypes, n.edge.Types)
	}
	if stats.TotalConnections > 0 {
		stats.AverageBusinessRelevance = relevance / float64(stats.TotalConnections)
	}
	return stats
}

// networkQuality weights strong ×3, medium ×2, weak ×1 over the edge count and
// adds average relevance / 10, capped at 10.
func networkQuality(stats domain.NetworkStats) float64 {
	if stats.TotalConnections == 0 {
		return 0
	}
	weighted := float64(3*stats.StrongConnections+2*stats.MediumConnections+stats.WeakConnections) /
		float64(stats.TotalConnections)
	return math.Min(scoreCeiling, weighted+stats.AverageBusinessRelevance/10)
}

func growthPotential(seniority domain.Seniority, penetration, quality float64) (float64, []string) {
	score := growthBaseline
	factors := []string{}

	switch seniority {
	case domain.SeniorityCLevel:
		score += growthCLevelBonus
		factors = append(factors, fmt.Sprintf("c-level seniority (+%.1f)", growthCLevelBonus))
	case domain.SenioritySenior:
		score += growthSeniorBonus
		factors = append(factors, fmt.Sprintf("senior seniority (+%.1f)", growthSeniorBonus))
	}
	if penetration < untappedPenetration {
		score += growthUntappedBonus
		factors = append(factors, fmt.Sprintf("untapped industry network (+%.1f)", growthUntappedBonus))
	}
	if quality < qualityImprovementBelow {
		score += growthQualityBonus
		factors = append(factors, fmt.Sprintf("room to improve network quality (+%.1f)", growthQualityBonus))
	}
	return math.Min(scoreCeiling, score), factors
}

func networkRecommendations(seniority domain.Seniority, stats domain.NetworkStats) []domain.Recommendation {
	total := stats.TotalConnections
	recs := []domain.Recommendation{}

	if total < expansionThreshold {
		recs = append(recs, domain.Recommendation{
			Type:        RecNetworkExpansion,
			Priority:    domain.PriorityMedium,
			Action:      "Expand your professional network",
			Description: fmt.Sprintf("You have %d connections; aim for at least %d through industry events and former colleagues.", total, expansionThreshold),
		})
	}
	if ratio(stats.StrongConnections, total) < strongRatioThreshold {
		recs = append(recs, domain.Recommendation{
			Type:        RecRelationshipDeepen,
			Priority:    domain.PriorityHigh,
			Action:      "Deepen existing relationships",
			Description: fmt.Sprintf("%.0f%% of your connections are strong; schedule regular touchpoints with key contacts.", 100*ratio(stats.StrongConnections, total)),
		})
	}
	if ratio(stats.IndustryConnections, total) < industryShareThreshold {
		recs = append(recs, domain.Recommendation{
			Type:        RecIndustryFocus,
			Priority:    domain.PriorityMedium,
			Action:      "Focus on industry connections",
			Description: fmt.Sprintf("%.0f%% of your connections work in your industry sectors; target peers who share them.", 100*ratio(stats.IndustryConnections, total)),
		})
	}
	if seniority == domain.SeniorityCLevel && total < executiveEdgesThreshold {
		recs = append(recs, domain.Recommendation{
			Type:        RecExecutiveNetworking,
			Priority:    domain.PriorityHigh,
			Action:      "Join executive networking circles",
			Description: fmt.Sprintf("With %d connections, peer executive forums can extend your reach.", total),
		})
	}
	return recs
}

// countIndustryConnections counts neighbors whose organization shares at least
// one industry sector with the person's organization. Organization references
// are weak: a missing organization contributes no sectors. A neighbor that is
// not a known person means the edge set is inconsistent and fails the call.
func (e *Engine) countIndustryConnections(ctx context.Context, person domain.Person, neighbors []neighbor) (int, error) {
	if len(neighbors) == 0 {
		return 0, nil
	}

	peers := make([]domain.Person, len(neighbors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.LookupConcurrency)
	for i, n := range neighbors {
		i, n := i, n
		g.Go(func() error {
			peer, err := e.store.GetPerson(gctx, n.personID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.StoreUnavailable("resolve edge peer", fmt.Errorf("dangling edge to person %q", n.personID))
				}
				return err
			}
			peers[i] = peer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if person.OrganizationID == "" {
		return 0, nil
	}
	own, err := e.lookupOrganization(ctx, person.OrganizationID)
	if err != nil {
		return 0, err
	}
	if len(own.IndustrySectors) == 0 {
		return 0, nil
	}

	orgIDs := make([]string, 0, len(peers))
	seen := map[string]struct{}{own.ID: {}}
	for _, p := range peers {
		if p.OrganizationID == "" {
			continue
		}
		if _, ok := seen[p.OrganizationID]; ok {
			continue
		}
		seen[p.OrganizationID] = struct{}{}
		orgIDs = append(orgIDs, p.OrganizationID)
	}

	orgs := make([]domain.Organization, len(orgIDs))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.opts.LookupConcurrency)
	for i, id := range orgIDs {
		i, id := i, id
		g.Go(func() error {
			org, err := e.lookupOrganization(gctx, id)
			if err != nil {
				return err
			}
			orgs[i] = org
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	byID := make(map[string]domain.Organization, len(orgs)+1)
	byID[own.ID] = own
	for i, id := range orgIDs {
		byID[id] = orgs[i]
	}

	count := 0
	for _, p := range peers {
		org, ok := byID[p.OrganizationID]
		if ok && own.SharesSector(org) {
			count++
		}
	}
	return count, nil
}

// lookupOrganization resolves a weak organization reference; an unknown
// organization is returned as an empty one carrying only its ID.
func (e *Engine) lookupOrganization(ctx context.Context, id string) (domain.Organization, error) {
	org, err := e.store.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Organization{ID: id}, nil
		}
		return domain.Organization{}, err
	}
	return org, nil
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
