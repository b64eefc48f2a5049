package domain

import "strings"

// Seniority is the coarse seniority tier of a person.
type Seniority string

const (
	SeniorityJunior Seniority = "junior"
	SenioritySenior Seniority = "senior"
	SeniorityCLevel Seniority = "c-level"
	SeniorityOther  Seniority = "other"
)

// ParseSeniority maps stored seniority labels onto the known tiers. Labels
// that name no known tier are reported as SeniorityOther.
func ParseSeniority(raw string) Seniority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "junior", "entry", "associate":
		return SeniorityJunior
	case "senior", "lead", "principal":
		return SenioritySenior
	case "c-level", "c_level", "clevel", "executive":
		return SeniorityCLevel
	default:
		return SeniorityOther
	}
}

// Person is a professional node in the relationship graph.
type Person struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Seniority       Seniority `json:"seniority" validate:"omitempty,oneof=junior senior c-level other"`
	Department      string    `json:"department"`
	OrganizationID  string    `json:"organizationId"`
	InfluenceScore  float64   `json:"influenceScore" validate:"gte=0,lte=10"`
	ConnectionCount int       `json:"connectionCount" validate:"gte=0"`
	Visible         bool      `json:"visible"`
}

// Organization groups people and carries the industry sectors used for
// penetration analysis.
type Organization struct {
	ID              string   `json:"id" validate:"required"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	IndustrySectors []string `json:"industrySectors"`
	InfluenceScore  float64  `json:"influenceScore" validate:"gte=0,lte=10"`
	Capabilities    []string `json:"capabilities"`
}

// SharesSector reports whether the two organizations have at least one
// industry sector in common. Comparison ignores case.
func (o Organization) SharesSector(other Organization) bool {
	if len(o.IndustrySectors) == 0 || len(other.IndustrySectors) == 0 {
		return false
	}
	own := make(map[string]struct{}, len(o.IndustrySectors))
	for _, s := range o.IndustrySectors {
		own[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, s := range other.IndustrySectors {
		if _, ok := own[strings.ToLower(strings.TrimSpace(s))]; ok {
			return true
		}
	}
	return false
}
