package domain

// Priority ranks recommendations. Higher priorities sort first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns a sort key where high < medium < low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Recommendation is a single actionable next step.
type Recommendation struct {
	Type        string   `json:"type"`
	Priority    Priority `json:"priority"`
	Action      string   `json:"action"`
	Description string   `json:"description"`
}

// NetworkStats are the direct-edge aggregates of one person.
type NetworkStats struct {
	TotalConnections         int      `json:"totalConnections"`
	StrongConnections        int      `json:"strongConnections"`
	MediumConnections        int      `json:"mediumConnections"`
	WeakConnections          int      `json:"weakConnections"`
	AverageBusinessRelevance float64  `json:"averageBusinessRelevance"`
	RelationshipTypes        []string `json:"relationshipTypes"`
	IndustryConnections      int      `json:"industryConnections"`
}

// NetworkAnalysis is the per-call result of analysing a person's network.
type NetworkAnalysis struct {
	PersonID             string           `json:"personId"`
	Seniority            Seniority        `json:"seniority"`
	Stats                NetworkStats     `json:"stats"`
	IndustryPenetration  float64          `json:"industryPenetration"`
	NetworkQualityScore  float64          `json:"networkQualityScore"`
	GrowthPotentialScore float64          `json:"growthPotentialScore"`
	GrowthFactors        []string         `json:"growthFactors"`
	Recommendations      []Recommendation `json:"recommendations"`
}

// CapabilityAnalysis partitions a capability set against an opportunity.
type CapabilityAnalysis struct {
	MatchedRequired  []string `json:"matchedRequired"`
	MatchedPreferred []string `json:"matchedPreferred"`
	MissingRequired  []string `json:"missingRequired"`
	Strength         float64  `json:"strength"`
}

// RelationshipAdvantage describes how close the candidate is to the
// opportunity's primary contact.
type RelationshipAdvantage struct {
	Evaluated    bool            `json:"evaluated"`
	Connected    bool            `json:"connected"`
	Degree       int             `json:"degree,omitempty"`
	Score        float64         `json:"score"`
	ShortestPath *ConnectionPath `json:"shortestPath,omitempty"`
	Partial      bool            `json:"partial"`
}

// FitResult is the per-call opportunity fit evaluation.
type FitResult struct {
	OpportunityID         string                `json:"opportunityId"`
	PersonID              string                `json:"personId,omitempty"`
	Capabilities          CapabilityAnalysis    `json:"capabilities"`
	RelationshipAdvantage RelationshipAdvantage `json:"relationshipAdvantage"`
	OverallScore          float64               `json:"overallScore"`
	Recommendations       []Recommendation      `json:"recommendations"`
}

// Dashboard is the composite view returned for one person.
type Dashboard struct {
	PersonID          string               `json:"personId"`
	Network           NetworkAnalysis      `json:"network"`
	OpportunityFits   []FitResult          `json:"opportunityFits"`
	Recommendations   []Recommendation     `json:"recommendations"`
	UpcomingEvents    []EventSummary       `json:"upcomingEvents"`
	OpenOpportunities []OpportunitySummary `json:"openOpportunities"`
}
