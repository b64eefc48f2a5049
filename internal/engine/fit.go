package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/vanshika/netintel/internal/domain"
)

const (
	requiredWeight     = 0.7
	preferredWeight    = 0.3
	capabilityWeight   = 0.6
	relationshipWeight = 0.4
	directAdvantage    = 40.0
	advantagePerDegree = 10.0
	alignmentThreshold = 80.0
	introductionDegree = 2
	directDegree       = 1
	percent            = 100.0
)

// Recommendation types emitted by the fit evaluator.
const (
	RecCapabilityGap        = "capability_gap"
	RecWarmIntroduction     = "warm_introduction"
	RecRequestIntroduction  = "request_introduction"
	RecRelationshipBuilding = "relationship_building"
	RecProposalAlignment    = "proposal_alignment"
)

// EvaluateFit scores how well a capability set, and optionally a person's
// proximity to the primary contact, fits an opportunity.
//
// An empty required or preferred capability list counts as fully matched. A
// path search cut short by ctx before reaching the contact fails the call;
// one that already confirmed a path keeps it, since levels are searched in
// order and the first confirmed path is the shortest.
func (e *Engine) EvaluateFit(ctx context.Context, opportunityID, personID string, capabilities []string) (domain.FitResult, error) {
	opportunityID = strings.TrimSpace(opportunityID)
	personID = strings.TrimSpace(personID)
	if opportunityID == "" {
		return domain.FitResult{}, domain.InvalidArgument("opportunityId", "is required")
	}

	opp, err := e.store.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return domain.FitResult{}, err
	}

	analysis := e.analyzeCapabilities(opp, capabilities)

	advantage := domain.RelationshipAdvantage{}
	if personID != "" && opp.PrimaryContactID != "" {
		advantage, err = e.relationshipAdvantage(ctx, personID, opp.PrimaryContactID)
		if err != nil {
			return domain.FitResult{}, err
		}
	}

	overall := capabilityWeight*analysis.Strength + relationshipWeight*advantage.Score
	recs := fitRecommendations(opp, analysis, advantage)

	analysis.Strength = round2(analysis.Strength)
	return domain.FitResult{
		OpportunityID:         opp.ID,
		PersonID:              personID,
		Capabilities:          analysis,
		RelationshipAdvantage: advantage,
		OverallScore:          round2(overall),
		Recommendations:       recs,
	}, nil
}

func (e *Engine) analyzeCapabilities(opp domain.Opportunity, capabilities []string) domain.CapabilityAnalysis {
	have := make(map[string]struct{})
	for _, c := range e.extractor.Extract(capabilities) {
		have[normalizeCapability(c)] = struct{}{}
	}

	required := e.extractor.Extract(opp.RequiredCapabilities)
	preferred := e.extractor.Extract(opp.PreferredCapabilities)

	analysis := domain.CapabilityAnalysis{
		MatchedRequired:  []string{},
		MatchedPreferred: []string{},
		MissingRequired:  []string{},
	}
	for _, c := range required {
		if _, ok := have[normalizeCapability(c)]; ok {
			analysis.MatchedRequired = append(analysis.MatchedRequired, c)
		} else {
			analysis.MissingRequired = append(analysis.MissingRequired, c)
		}
	}
	for _, c := range preferred {
		if _, ok := have[normalizeCapability(c)]; ok {
			analysis.MatchedPreferred = append(analysis.MatchedPreferred, c)
		}
	}

	reqRatio := coverage(len(analysis.MatchedRequired), len(required))
	prefRatio := coverage(len(analysis.MatchedPreferred), len(preferred))
	analysis.Strength = percent * (requiredWeight*reqRatio + preferredWeight*prefRatio)
	return analysis
}

// coverage is matched/total, with an empty set treated as fully covered.
func coverage(matched, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}

func (e *Engine) relationshipAdvantage(ctx context.Context, personID, contactID string) (domain.RelationshipAdvantage, error) {
	adv := domain.RelationshipAdvantage{Evaluated: true}
	if personID == contactID {
		// The candidate is the primary contact.
		adv.Connected = true
		adv.Score = directAdvantage
		return adv, nil
	}

	search, err := e.FindPaths(ctx, personID, contactID, e.opts.FitMaxDegree)
	if err != nil {
		return domain.RelationshipAdvantage{}, err
	}
	adv.Partial = search.Partial

	shortest, ok := search.Shortest()
	if !ok {
		if search.Partial {
			// Cut short before any path was confirmed: proximity is unknown.
			return domain.RelationshipAdvantage{}, domain.StoreUnavailable("relationship advantage",
				fmt.Errorf("search from %s to %s interrupted: %w", personID, contactID, interruption(ctx)))
		}
		return adv, nil
	}
	adv.Connected = true
	adv.Degree = shortest.Degree
	adv.ShortestPath = &shortest
	adv.Score = advantageForDegree(shortest.Degree)
	return adv, nil
}

func interruption(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// advantageForDegree gives a direct connection the full bonus and then drops
// by a fixed step per degree.
func advantageForDegree(degree int) float64 {
	if degree <= directDegree {
		return directAdvantage
	}
	return math.Max(0, directAdvantage-advantagePerDegree*float64(degree))
}

func fitRecommendations(opp domain.Opportunity, analysis domain.CapabilityAnalysis, adv domain.RelationshipAdvantage) []domain.Recommendation {
	recs := []domain.Recommendation{}

	if len(analysis.MissingRequired) > 0 {
		recs = append(recs, domain.Recommendation{
			Type:        RecCapabilityGap,
			Priority:    domain.PriorityHigh,
			Action:      "Address missing required capabilities",
			Description: fmt.Sprintf("Partner or upskill to cover: %s.", strings.Join(analysis.MissingRequired, ", ")),
		})
	}

	switch {
	case adv.Connected && adv.Degree <= directDegree:
		recs = append(recs, domain.Recommendation{
			Type:        RecWarmIntroduction,
			Priority:    domain.PriorityHigh,
			Action:      "Reach out to the primary contact directly",
			Description: fmt.Sprintf("You are directly connected to the primary contact for %q.", opp.Title),
		})
	case adv.Connected && adv.Degree == introductionDegree:
		recs = append(recs, domain.Recommendation{
			Type:        RecRequestIntroduction,
			Priority:    domain.PriorityMedium,
			Action:      "Request an introduction",
			Description: fmt.Sprintf("Ask %s to introduce you to the primary contact.", introducer(adv.ShortestPath)),
		})
	case !adv.Connected:
		recs = append(recs, domain.Recommendation{
			Type:        RecRelationshipBuilding,
			Priority:    domain.PriorityMedium,
			Action:      "Build a relationship with the primary contact",
			Description: "No connection path was found; look for shared events or mutual colleagues.",
		})
	}

	if analysis.Strength > alignmentThreshold {
		recs = append(recs, domain.Recommendation{
			Type:        RecProposalAlignment,
			Priority:    domain.PriorityHigh,
			Action:      "Prepare a tailored proposal",
			Description: fmt.Sprintf("Capability strength of %.0f%% makes you a strong candidate.", analysis.Strength),
		})
	}

	sortByPriority(recs)
	return recs
}

func introducer(path *domain.ConnectionPath) string {
	if path == nil || len(path.PersonIDs) < 3 {
		return "a mutual connection"
	}
	return path.PersonIDs[1]
}
