package pgstore

import (
	"github.com/vanshika/netintel/internal/domain"
)

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (domain.Person, error) {
	var (
		p         domain.Person
		seniority string
		orgID     *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Title, &seniority, &p.Department, &orgID,
		&p.InfluenceScore, &p.ConnectionCount, &p.Visible)
	if err != nil {
		return domain.Person{}, err
	}
	p.Seniority = domain.ParseSeniority(seniority)
	if orgID != nil {
		p.OrganizationID = *orgID
	}
	return p, nil
}

func scanOrganization(row scanner) (domain.Organization, error) {
	var o domain.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Type, &o.IndustrySectors, &o.InfluenceScore, &o.Capabilities)
	return o, err
}

func scanRelationship(row scanner) (domain.Relationship, error) {
	var (
		r        domain.Relationship
		strength string
	)
	if err := row.Scan(&r.PersonA, &r.PersonB, &strength, &r.Types, &r.BusinessRelevance, &r.Active); err != nil {
		return domain.Relationship{}, err
	}
	parsed, err := domain.ParseStrength(strength)
	if err != nil {
		return domain.Relationship{}, err
	}
	r.Strength = parsed
	return r, nil
}

func scanOpportunity(row scanner) (domain.Opportunity, error) {
	var (
		op      domain.Opportunity
		contact *string
	)
	err := row.Scan(&op.ID, &op.Title, &op.RequiredCapabilities, &op.PreferredCapabilities,
		&op.EstimatedValue.Min, &op.EstimatedValue.Max, &op.EstimatedValue.Currency,
		&contact, &op.Status, &op.Deadline)
	if err != nil {
		return domain.Opportunity{}, err
	}
	if contact != nil {
		op.PrimaryContactID = *contact
	}
	return op, nil
}
