package domain

import (
	"fmt"
	"strings"
)

// Strength labels the closeness of a relationship edge.
type Strength string

const (
	StrengthStrong Strength = "strong"
	StrengthMedium Strength = "medium"
	StrengthWeak   Strength = "weak"
)

// ParseStrength converts a stored label into a Strength.
func ParseStrength(raw string) (Strength, error) {
	switch s := Strength(strings.ToLower(strings.TrimSpace(raw))); s {
	case StrengthStrong, StrengthMedium, StrengthWeak:
		return s, nil
	default:
		return "", fmt.Errorf("unknown relationship strength %q", raw)
	}
}

// Rank orders strengths so that weaker labels compare lower.
func (s Strength) Rank() int {
	switch s {
	case StrengthStrong:
		return 3
	case StrengthMedium:
		return 2
	case StrengthWeak:
		return 1
	default:
		return 0
	}
}

// Weaker returns the weaker of the two strengths. Folding it over a path
// yields strong only when every edge is strong, weak as soon as any edge is
// weak, and medium otherwise.
func (s Strength) Weaker(other Strength) Strength {
	if other.Rank() < s.Rank() {
		return other
	}
	return s
}

// Relationship is an undirected edge between two people.
type Relationship struct {
	PersonA           string   `json:"personA" validate:"required"`
	PersonB           string   `json:"personB" validate:"required"`
	Strength          Strength `json:"strength" validate:"required,oneof=strong medium weak"`
	Types             []string `json:"types" validate:"min=1,dive,required"`
	BusinessRelevance float64  `json:"businessRelevance" validate:"gte=0,lte=10"`
	Active            bool     `json:"active"`
}

// Other returns the endpoint opposite personID, or "" when personID is not an
// endpoint of the edge.
func (r Relationship) Other(personID string) string {
	switch personID {
	case r.PersonA:
		return r.PersonB
	case r.PersonB:
		return r.PersonA
	default:
		return ""
	}
}

// ConnectionPath is a derived, acyclic chain of people from a source to a
// target.
type ConnectionPath struct {
	PersonIDs         []string `json:"personIds"`
	Degree            int      `json:"degree"`
	Strength          Strength `json:"strength"`
	BusinessRelevance float64  `json:"businessRelevance"`
	RelationshipTypes []string `json:"relationshipTypes"`
}

// Source returns the first person on the path.
func (p ConnectionPath) Source() string {
	if len(p.PersonIDs) == 0 {
		return ""
	}
	return p.PersonIDs[0]
}

// Target returns the last person on the path.
func (p ConnectionPath) Target() string {
	if len(p.PersonIDs) == 0 {
		return ""
	}
	return p.PersonIDs[len(p.PersonIDs)-1]
}

// Contains reports whether personID already appears on the path.
func (p ConnectionPath) Contains(personID string) bool {
	for _, id := range p.PersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// Extend returns a new path one edge longer. The receiver is left untouched so
// sibling extensions never share backing arrays.
func (p ConnectionPath) Extend(next string, edge Relationship) ConnectionPath {
	ids := make([]string, len(p.PersonIDs), len(p.PersonIDs)+1)
	copy(ids, p.PersonIDs)
	ids = append(ids, next)

	extended := ConnectionPath{
		PersonIDs:         ids,
		Degree:            len(ids) - 1,
		Strength:          edge.Strength,
		BusinessRelevance: edge.BusinessRelevance,
		RelationshipTypes: UnionTags(p.RelationshipTypes, edge.Types),
	}
	if p.Degree > 0 {
		extended.Strength = p.Strength.Weaker(edge.Strength)
		if p.BusinessRelevance < edge.BusinessRelevance {
			extended.BusinessRelevance = p.BusinessRelevance
		}
	}
	return extended
}

// PathSearch is the ranked outcome of a path query. Partial is set when the
// caller's deadline cut the search short; the paths present are still valid.
type PathSearch struct {
	SourceID  string           `json:"sourceId"`
	TargetID  string           `json:"targetId"`
	MaxDegree int              `json:"maxDegree"`
	Paths     []ConnectionPath `json:"paths"`
	Partial   bool             `json:"partial"`
}

// Shortest returns the first (lowest degree) path, if any.
func (s PathSearch) Shortest() (ConnectionPath, bool) {
	if len(s.Paths) == 0 {
		return ConnectionPath{}, false
	}
	return s.Paths[0], true
}

// UnionTags appends tags from next that are not yet in base, keeping
// first-seen order. The result never aliases base.
func UnionTags(base, next []string) []string {
	out := make([]string, 0, len(base)+len(next))
	seen := make(map[string]struct{}, len(base)+len(next))
	for _, group := range [][]string{base, next} {
		for _, tag := range group {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
