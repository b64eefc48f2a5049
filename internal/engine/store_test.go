package engine

import (
	"context"
	"sync"

	"github.com/vanshika/netintel/internal/domain"
)

// fakeStore is an in-memory GraphStore for engine tests.
type fakeStore struct {
	mu            sync.Mutex
	people        map[string]domain.Person
	orgs          map[string]domain.Organization
	opportunities map[string]domain.Opportunity
	edges         []domain.Relationship
	edgesErr      error
	edgeCalls     int
	onEdges       func(personID string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		people:        map[string]domain.Person{},
		orgs:          map[string]domain.Organization{},
		opportunities: map[string]domain.Opportunity{},
	}
}

func (s *fakeStore) addPerson(id, orgID string, seniority domain.Seniority) *fakeStore {
	s.people[id] = domain.Person{ID: id, Name: id, OrganizationID: orgID, Seniority: seniority}
	return s
}

func (s *fakeStore) addOrg(id string, sectors ...string) *fakeStore {
	s.orgs[id] = domain.Organization{ID: id, Name: id, IndustrySectors: sectors}
	return s
}

func (s *fakeStore) link(a, b string, strength domain.Strength, relevance float64, types ...string) *fakeStore {
	if len(types) == 0 {
		types = []string{"colleague"}
	}
	s.edges = append(s.edges, domain.Relationship{
		PersonA:           a,
		PersonB:           b,
		Strength:          strength,
		Types:             types,
		BusinessRelevance: relevance,
		Active:            true,
	})
	return s
}

func (s *fakeStore) GetOrganization(_ context.Context, id string) (domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.orgs[id]
	if !ok {
		return domain.Organization{}, domain.NotFound("organization", id)
	}
	return org, nil
}

func (s *fakeStore) GetPerson(_ context.Context, id string) (domain.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[id]
	if !ok {
		return domain.Person{}, domain.NotFound("person", id)
	}
	return p, nil
}

func (s *fakeStore) GetEdges(_ context.Context, personID string) ([]domain.Relationship, error) {
	s.mu.Lock()
	s.edgeCalls++
	hook := s.onEdges
	s.mu.Unlock()
	if hook != nil {
		hook(personID)
	}
	if s.edgesErr != nil {
		return nil, s.edgesErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[personID]; !ok {
		return nil, domain.NotFound("person", personID)
	}
	var out []domain.Relationship
	for _, e := range s.edges {
		if e.PersonA == personID || e.PersonB == personID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) GetOpportunity(_ context.Context, id string) (domain.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	opp, ok := s.opportunities[id]
	if !ok {
		return domain.Opportunity{}, domain.NotFound("opportunity", id)
	}
	return opp, nil
}
