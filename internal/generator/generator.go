package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/domain"
)

// Generator produces synthetic professional networks. Output is
// deterministic for a given seed and clock.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
	now       time.Time
}

// New returns a configured Generator instance. A zero seed picks one from
// the clock.
func New(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
		now:       time.Now().UTC().Truncate(time.Hour),
	}
}

// WithClock fixes the reference time used for deadlines and event dates.
func (g *Generator) WithClock(now time.Time) *Generator {
	g.now = now.UTC()
	return g
}

// Generate synthesises a dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (dataset.Dataset, error) {
	orgs := g.organizations()

	people := make([]domain.Person, g.cfg.NumPeople)
	byOrg := make(map[string][]int, len(orgs))
	for i := range people {
		if err := ctx.Err(); err != nil {
			return dataset.Dataset{}, err
		}
		org := orgs[g.rand.Intn(len(orgs))]
		people[i] = g.person(org.ID)
		byOrg[org.ID] = append(byOrg[org.ID], i)
	}

	rels, err := g.relationships(ctx, people, byOrg)
	if err != nil {
		return dataset.Dataset{}, err
	}
	degree := make(map[string]int, len(people))
	for _, r := range rels {
		degree[r.PersonA]++
		degree[r.PersonB]++
	}
	for i := range people {
		people[i].ConnectionCount = degree[people[i].ID]
	}

	opps := make([]domain.Opportunity, g.cfg.NumOpportunities)
	for i := range opps {
		opps[i] = g.opportunity(people[g.rand.Intn(len(people))].ID)
	}
	events := make([]domain.Event, g.cfg.NumEvents)
	for i := range events {
		events[i] = g.event()
	}

	return dataset.Dataset{
		Organizations: orgs,
		People:        people,
		Relationships: rels,
		Opportunities: opps,
		Events:        events,
	}, nil
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		// math/rand never fails to read.
		panic(err)
	}
	return id.String()
}

func (g *Generator) organizations() []domain.Organization {
	orgs := make([]domain.Organization, g.cfg.NumOrganizations)
	for i := range orgs {
		orgs[i] = domain.Organization{
			ID:              g.newID(),
			Name:            fmt.Sprintf("%s %s", g.pick(g.fragments.orgPrefixes), g.pick(g.fragments.orgSuffixes)),
			Type:            g.pick(g.fragments.orgTypes),
			IndustrySectors: g.sample(g.fragments.sectors, 1+g.rand.Intn(2)),
			InfluenceScore:  g.score(),
			Capabilities:    g.sample(g.fragments.capabilities, 3+g.rand.Intn(5)),
		}
	}
	return orgs
}

func (g *Generator) person(orgID string) domain.Person {
	seniority := g.seniority()
	return domain.Person{
		ID:             g.newID(),
		Name:           fmt.Sprintf("%s %s", g.pick(g.fragments.first), g.pick(g.fragments.last)),
		Title:          g.title(seniority),
		Seniority:      seniority,
		Department:     g.pick(g.fragments.departments),
		OrganizationID: orgID,
		InfluenceScore: g.score(),
		Visible:        g.rand.Float64() < 0.9,
	}
}

// relationships links each person to roughly AvgConnections peers, drawing
// colleagues from the same organization with ColleagueChance. Pairs are
// never repeated and never self-referencing.
func (g *Generator) relationships(ctx context.Context, people []domain.Person, byOrg map[string][]int) ([]domain.Relationship, error) {
	if len(people) < 2 {
		return []domain.Relationship{}, nil
	}
	type pair struct{ a, b int }
	seen := make(map[pair]struct{})
	rels := make([]domain.Relationship, 0, len(people)*g.cfg.AvgConnections/2)

	for i := range people {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		want := max(g.cfg.AvgConnections/2, 1)
		for attempt, budget := 0, want*3; attempt < budget && want > 0; attempt++ {
			colleague := g.rand.Float64() < g.cfg.ColleagueChance
			j := g.rand.Intn(len(people))
			if colleague {
				peers := byOrg[people[i].OrganizationID]
				j = peers[g.rand.Intn(len(peers))]
			}
			if j == i {
				continue
			}
			key := pair{min(i, j), max(i, j)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			rels = append(rels, g.relationship(people[i].ID, people[j].ID, colleague))
			want--
		}
	}
	return rels, nil
}

func (g *Generator) relationship(a, b string, colleague bool) domain.Relationship {
	types := g.sample(g.fragments.relationTypes, 1+g.rand.Intn(2))
	if colleague {
		types = append([]string{"colleague"}, types...)
		types = dedupe(types)
	}
	strengths := []domain.Strength{domain.StrengthWeak, domain.StrengthMedium, domain.StrengthStrong}
	return domain.Relationship{
		PersonA:           a,
		PersonB:           b,
		Strength:          strengths[g.rand.Intn(len(strengths))],
		Types:             types,
		BusinessRelevance: g.score(),
		Active:            g.rand.Float64() >= g.cfg.InactiveChance,
	}
}

func (g *Generator) opportunity(contactID string) domain.Opportunity {
	low := float64(10+g.rand.Intn(490)) * 1000
	deadline := g.now.Add(time.Duration(7+g.rand.Intn(120)) * 24 * time.Hour)
	status := "closed"
	if g.rand.Float64() < g.cfg.OpenOpportunityPct {
		status = domain.OpportunityStatusOpen
	}
	return domain.Opportunity{
		ID:                    g.newID(),
		Title:                 fmt.Sprintf("%s %s", g.pick(g.fragments.projectVerbs), g.pick(g.fragments.projectObjects)),
		RequiredCapabilities:  g.sample(g.fragments.capabilities, 1+g.rand.Intn(3)),
		PreferredCapabilities: g.sample(g.fragments.capabilities, g.rand.Intn(3)),
		EstimatedValue: domain.ValueRange{
			Min:      low,
			Max:      low * (1 + g.rand.Float64()),
			Currency: "USD",
		},
		PrimaryContactID: contactID,
		Status:           status,
		Deadline:         &deadline,
	}
}

func (g *Generator) event() domain.Event {
	return domain.Event{
		ID:              g.newID(),
		Name:            fmt.Sprintf("%s %s", g.pick(g.fragments.sectors), g.pick(g.fragments.eventKinds)),
		Location:        g.pick(g.fragments.cities),
		StartsAt:        g.now.Add(time.Duration(g.rand.Intn(180*24)-30*24) * time.Hour),
		IndustrySectors: g.sample(g.fragments.sectors, 1+g.rand.Intn(2)),
	}
}

func (g *Generator) seniority() domain.Seniority {
	switch r := g.rand.Float64(); {
	case r < 0.45:
		return domain.SeniorityJunior
	case r < 0.85:
		return domain.SenioritySenior
	case r < 0.95:
		return domain.SeniorityCLevel
	default:
		return domain.SeniorityOther
	}
}

func (g *Generator) title(s domain.Seniority) string {
	switch s {
	case domain.SeniorityCLevel:
		return g.pick([]string{"CEO", "CTO", "CFO", "COO", "CRO"})
	case domain.SenioritySenior:
		return "Senior " + g.pick(g.fragments.roles)
	case domain.SeniorityJunior:
		return "Associate " + g.pick(g.fragments.roles)
	default:
		return g.pick(g.fragments.roles)
	}
}

// score returns a value in [0, 10] with two decimals.
func (g *Generator) score() float64 {
	return math.Round(g.rand.Float64()*1000) / 100
}

func (g *Generator) pick(options []string) string {
	return options[g.rand.Intn(len(options))]
}

// sample draws n distinct entries in random order.
func (g *Generator) sample(options []string, n int) []string {
	if n > len(options) {
		n = len(options)
	}
	out := make([]string, 0, n)
	for _, idx := range g.rand.Perm(len(options))[:n] {
		out = append(out, options[idx])
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

type nameFragments struct {
	first          []string
	last           []string
	roles          []string
	departments    []string
	orgPrefixes    []string
	orgSuffixes    []string
	orgTypes       []string
	sectors        []string
	capabilities   []string
	relationTypes  []string
	projectVerbs   []string
	projectObjects []string
	eventKinds     []string
	cities         []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:          []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:           []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		roles:          []string{"Engineer", "Product Manager", "Account Executive", "Consultant", "Analyst", "Architect", "Designer"},
		departments:    []string{"Engineering", "Sales", "Operations", "Finance", "Marketing", "Strategy"},
		orgPrefixes:    []string{"Acme", "Northwind", "Globex", "Initech", "Umbrella", "Stark", "Wayne", "Cyberdyne", "Hooli", "Vandelay"},
		orgSuffixes:    []string{"Labs", "Systems", "Partners", "Group", "Holdings", "Digital", "Consulting"},
		orgTypes:       []string{"enterprise", "startup", "agency", "government", "nonprofit"},
		sectors:        []string{"fintech", "healthcare", "energy", "logistics", "retail", "public sector", "telecom", "insurance"},
		capabilities:   []string{"go", "kubernetes", "data engineering", "machine learning", "cloud migration", "security audit", "ux research", "payments", "compliance", "terraform", "mobile", "analytics"},
		relationTypes:  []string{"former colleague", "client", "vendor", "alumni", "board", "mentor", "conference"},
		projectVerbs:   []string{"Modernize", "Migrate", "Audit", "Build", "Scale", "Replatform"},
		projectObjects: []string{"payments platform", "claims pipeline", "data warehouse", "customer portal", "grid telemetry", "fleet tracking"},
		eventKinds:     []string{"Summit", "Expo", "Forum", "Meetup", "Roundtable"},
		cities:         []string{"San Francisco", "New York", "Seattle", "Austin", "Chicago", "Miami", "Denver", "Boston", "London", "Berlin"},
	}
}
