package domain

import "time"

// ValueRange is the estimated value band of an opportunity.
type ValueRange struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gte=0,gtefield=Min"`
	Currency string  `json:"currency"`
}

// Opportunity is a business opportunity with the capabilities it asks for.
type Opportunity struct {
	ID                    string     `json:"id" validate:"required"`
	Title                 string     `json:"title"`
	RequiredCapabilities  []string   `json:"requiredCapabilities"`
	PreferredCapabilities []string   `json:"preferredCapabilities"`
	EstimatedValue        ValueRange `json:"estimatedValue"`
	PrimaryContactID      string     `json:"primaryContactId"`
	Status                string     `json:"status"`
	Deadline              *time.Time `json:"deadline,omitempty"`
}

// OpportunitySummary is the catalog listing view of an opportunity.
type OpportunitySummary struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	EstimatedValue   ValueRange `json:"estimatedValue"`
	PrimaryContactID string     `json:"primaryContactId"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

// Summary projects the opportunity onto its listing view.
func (o Opportunity) Summary() OpportunitySummary {
	return OpportunitySummary{
		ID:               o.ID,
		Title:            o.Title,
		Status:           o.Status,
		EstimatedValue:   o.EstimatedValue,
		PrimaryContactID: o.PrimaryContactID,
		Deadline:         o.Deadline,
	}
}

// Event is a networking or industry event held in the catalog.
type Event struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"startsAt"`
	IndustrySectors []string  `json:"industrySectors"`
}

// EventSummary is the catalog listing view of an event.
type EventSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"startsAt"`
	IndustrySectors []string  `json:"industrySectors"`
}

// Summary projects the event onto its listing view.
func (e Event) Summary() EventSummary {
	return EventSummary{
		ID:              e.ID,
		Name:            e.Name,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		IndustrySectors: e.IndustrySectors,
	}
}

// OpportunityStatusOpen is the status value the catalog lists as open.
const OpportunityStatusOpen = "open"

// EventFilter narrows catalog event listings. A zero From means now.
type EventFilter struct {
	From    time.Time
	Sectors []string
	Limit   int
}

// OpportunityFilter narrows catalog opportunity listings. An empty Status
// means OpportunityStatusOpen.
type OpportunityFilter struct {
	Status string
	Limit  int
}
