package generator

// Config drives the synthetic data generator.
type Config struct {
	NumOrganizations   int
	NumPeople          int
	NumOpportunities   int
	NumEvents          int
	AvgConnections     int
	ColleagueChance    float64
	InactiveChance     float64
	OpenOpportunityPct float64
	Seed               int64
}

// DefaultConfig returns settings sized for local exploration of the API.
func DefaultConfig() Config {
	return Config{
		NumOrganizations:   50,
		NumPeople:          2000,
		NumOpportunities:   100,
		NumEvents:          40,
		AvgConnections:     8,
		ColleagueChance:    0.4,
		InactiveChance:     0.05,
		OpenOpportunityPct: 0.7,
		Seed:               42,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.NumOrganizations <= 0 {
		c.NumOrganizations = def.NumOrganizations
	}
	if c.NumPeople <= 0 {
		c.NumPeople = def.NumPeople
	}
	if c.NumOpportunities < 0 {
		c.NumOpportunities = 0
	}
	if c.NumEvents < 0 {
		c.NumEvents = 0
	}
	if c.AvgConnections <= 0 {
		c.AvgConnections = def.AvgConnections
	}
	if c.ColleagueChance <= 0 {
		c.ColleagueChance = def.ColleagueChance
	}
	if c.InactiveChance < 0 {
		c.InactiveChance = 0
	}
	if c.OpenOpportunityPct <= 0 {
		c.OpenOpportunityPct = def.OpenOpportunityPct
	}
	return c
}
