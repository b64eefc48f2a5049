// Package memstore serves a loaded dataset as a graph store and catalog.
package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/validation"
)

const defaultListLimit = 20

// Store is an immutable in-memory graph built from a dataset. Rows are
// validated when read, the same as the database-backed stores.
type Store struct {
	people        map[string]domain.Person
	orgs          map[string]domain.Organization
	opportunities map[string]domain.Opportunity
	edges         map[string][]domain.Relationship
	events        []domain.Event
	openOrder     []string
	now           func() time.Time
}

// New indexes the dataset. The dataset must not be modified afterwards.
func New(d dataset.Dataset) *Store {
	s := &Store{
		people:        make(map[string]domain.Person, len(d.People)),
		orgs:          make(map[string]domain.Organization, len(d.Organizations)),
		opportunities: make(map[string]domain.Opportunity, len(d.Opportunities)),
		edges:         make(map[string][]domain.Relationship, len(d.People)),
		now:           time.Now,
	}
	for _, p := range d.People {
		s.people[p.ID] = p
	}
	for _, o := range d.Organizations {
		s.orgs[o.ID] = o
	}
	for _, op := range d.Opportunities {
		s.opportunities[op.ID] = op
		s.openOrder = append(s.openOrder, op.ID)
	}
	for _, rel := range d.Relationships {
		s.edges[rel.PersonA] = append(s.edges[rel.PersonA], rel)
		if rel.PersonB != rel.PersonA {
			s.edges[rel.PersonB] = append(s.edges[rel.PersonB], rel)
		}
	}

	s.events = append([]domain.Event(nil), d.Events...)
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].StartsAt.Before(s.events[j].StartsAt)
	})
	sort.SliceStable(s.openOrder, func(i, j int) bool {
		return deadlineKey(s.opportunities[s.openOrder[i]]).Before(deadlineKey(s.opportunities[s.openOrder[j]]))
	})
	return s
}

// Load reads a dataset directory and indexes it.
func Load(dir string) (*Store, error) {
	d, err := dataset.Load(dir)
	if err != nil {
		return nil, err
	}
	return New(d), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) GetPerson(_ context.Context, id string) (domain.Person, error) {
	p, ok := s.people[id]
	if !ok {
		return domain.Person{}, domain.NotFound("person", id)
	}
	if err := validation.Row("person", p); err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

func (s *Store) GetOrganization(_ context.Context, id string) (domain.Organization, error) {
	o, ok := s.orgs[id]
	if !ok {
		return domain.Organization{}, domain.NotFound("organization", id)
	}
	if err := validation.Row("organization", o); err != nil {
		return domain.Organization{}, err
	}
	return o, nil
}

func (s *Store) GetEdges(_ context.Context, personID string) ([]domain.Relationship, error) {
	if _, ok := s.people[personID]; !ok {
		return nil, domain.NotFound("person", personID)
	}
	edges := s.edges[personID]
	out := make([]domain.Relationship, 0, len(edges))
	for _, e := range edges {
		if err := validation.Row("relationship", e); err != nil {
			return nil, err
		}
		e.Types = append([]string(nil), e.Types...)
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) GetOpportunity(_ context.Context, id string) (domain.Opportunity, error) {
	op, ok := s.opportunities[id]
	if !ok {
		return domain.Opportunity{}, domain.NotFound("opportunity", id)
	}
	if err := validation.Row("opportunity", op); err != nil {
		return domain.Opportunity{}, err
	}
	return op, nil
}

func (s *Store) ListUpcomingEvents(_ context.Context, filter domain.EventFilter) ([]domain.EventSummary, error) {
	from := filter.From
	if from.IsZero() {
		from = s.now()
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	out := []domain.EventSummary{}
	for _, ev := range s.events {
		if ev.StartsAt.Before(from) || !matchesSectors(ev.IndustrySectors, filter.Sectors) {
			continue
		}
		out = append(out, ev.Summary())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListOpenOpportunities(_ context.Context, filter domain.OpportunityFilter) ([]domain.OpportunitySummary, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = domain.OpportunityStatusOpen
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	out := []domain.OpportunitySummary{}
	for _, id := range s.openOrder {
		op := s.opportunities[id]
		if !strings.EqualFold(op.Status, status) {
			continue
		}
		out = append(out, op.Summary())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func matchesSectors(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(strings.TrimSpace(w), strings.TrimSpace(h)) {
				return true
			}
		}
	}
	return false
}

// deadlineKey sorts opportunities without a deadline last.
func deadlineKey(op domain.Opportunity) time.Time {
	if op.Deadline == nil {
		return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return *op.Deadline
}
