package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/netintel/internal/domain"
)

// GetDashboard composes a person's network analysis, the fit of their
// organization's capabilities against each open opportunity, the merged top
// recommendations, and the catalog listings. Any failed part fails the call.
func (s *IntelligenceService) GetDashboard(ctx context.Context, personID string) (domain.Dashboard, error) {
	var result domain.Dashboard
	err := s.observe(ctx, "get_dashboard", func(ctx context.Context, span trace.Span) error {
		personID = strings.TrimSpace(personID)
		span.SetAttributes(attribute.String("person_id", personID))
		if personID == "" {
			return domain.InvalidArgument("personId", "is required")
		}

		person, err := s.store.GetPerson(ctx, personID)
		if err != nil {
			return err
		}
		org, err := s.personOrganization(ctx, person)
		if err != nil {
			return err
		}

		ctx, cancel := s.withSearchDeadline(ctx)
		defer cancel()

		var (
			network       domain.NetworkAnalysis
			events        []domain.EventSummary
			opportunities []domain.OpportunitySummary
			fits          []domain.FitResult
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			network, err = s.engine.AnalyzeNetwork(gctx, person.ID)
			return err
		})
		g.Go(func() error {
			var err error
			events, err = s.catalog.ListUpcomingEvents(gctx, domain.EventFilter{
				From:    s.nowFn().UTC(),
				Sectors: org.IndustrySectors,
				Limit:   s.opts.DashboardEvents,
			})
			return err
		})
		g.Go(func() error {
			var err error
			opportunities, err = s.catalog.ListOpenOpportunities(gctx, domain.OpportunityFilter{
				Status: domain.OpportunityStatusOpen,
				Limit:  s.opts.DashboardOpportunities,
			})
			if err != nil {
				return err
			}
			fits, err = s.evaluateFits(gctx, person.ID, org.Capabilities, opportunities)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		lists := make([][]domain.Recommendation, 0, len(fits)+1)
		lists = append(lists, network.Recommendations)
		for _, fit := range fits {
			lists = append(lists, fit.Recommendations)
		}

		result = domain.Dashboard{
			PersonID:          person.ID,
			Network:           network,
			OpportunityFits:   fits,
			Recommendations:   s.engine.MergeRecommendations(lists...),
			UpcomingEvents:    nonNilEvents(events),
			OpenOpportunities: nonNilOpportunities(opportunities),
		}
		span.SetAttributes(attribute.Int("fits", len(fits)), attribute.Int("events", len(events)))
		return nil
	})
	return result, err
}

// personOrganization resolves the person's organization. The reference is
// weak: a missing organization yields an empty one.
func (s *IntelligenceService) personOrganization(ctx context.Context, person domain.Person) (domain.Organization, error) {
	if person.OrganizationID == "" {
		return domain.Organization{}, nil
	}
	org, err := s.store.GetOrganization(ctx, person.OrganizationID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Organization{ID: person.OrganizationID}, nil
	}
	return org, err
}

// evaluateFits runs one fit evaluation per opportunity and orders the
// results by overall score, highest first. Ties keep catalog order.
func (s *IntelligenceService) evaluateFits(ctx context.Context, personID string, capabilities []string, opportunities []domain.OpportunitySummary) ([]domain.FitResult, error) {
	fits := make([]domain.FitResult, len(opportunities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.engine.Options().LookupConcurrency)
	for i, opp := range opportunities {
		i, opp := i, opp
		g.Go(func() error {
			fit, err := s.engine.EvaluateFit(gctx, opp.ID, personID, capabilities)
			if err != nil {
				return err
			}
			fits[i] = fit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(fits, func(i, j int) bool {
		return fits[i].OverallScore > fits[j].OverallScore
	})
	return fits, nil
}

func nonNilEvents(v []domain.EventSummary) []domain.EventSummary {
	if v == nil {
		return []domain.EventSummary{}
	}
	return v
}

func nonNilOpportunities(v []domain.OpportunitySummary) []domain.OpportunitySummary {
	if v == nil {
		return []domain.OpportunitySummary{}
	}
	return v
}
