package pgstore

const schemaSQL = `
CREATE TABLE IF NOT EXISTS organizations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	industry_sectors TEXT[] NOT NULL DEFAULT '{}',
	influence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	capabilities TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS people (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	seniority TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	organization_id TEXT,
	influence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	connection_count INTEGER NOT NULL DEFAULT 0,
	visible BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS relationships (
	person_a TEXT NOT NULL,
	person_b TEXT NOT NULL,
	strength TEXT NOT NULL,
	types TEXT[] NOT NULL DEFAULT '{}',
	business_relevance DOUBLE PRECISION NOT NULL DEFAULT 0,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	PRIMARY KEY (person_a, person_b)
);

CREATE INDEX IF NOT EXISTS idx_relationships_person_b ON relationships(person_b);

CREATE TABLE IF NOT EXISTS opportunities (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	required_capabilities TEXT[] NOT NULL DEFAULT '{}',
	preferred_capabilities TEXT[] NOT NULL DEFAULT '{}',
	value_min DOUBLE PRECISION NOT NULL DEFAULT 0,
	value_max DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT '',
	primary_contact_id TEXT,
	status TEXT NOT NULL DEFAULT 'open',
	deadline TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_opportunities_status ON opportunities(lower(status));

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	starts_at TIMESTAMPTZ NOT NULL,
	industry_sectors TEXT[] NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at);
`

const selectPersonSQL = `
	SELECT id, name, title, seniority, department, organization_id,
	       influence_score, connection_count, visible
	FROM people
	WHERE id = $1
`

const selectOrganizationSQL = `
	SELECT id, name, type, industry_sectors, influence_score, capabilities
	FROM organizations
	WHERE id = $1
`

const personExistsSQL = `SELECT EXISTS (SELECT 1 FROM people WHERE id = $1)`

const selectEdgesSQL = `
	SELECT person_a, person_b, strength, types, business_relevance, active
	FROM relationships
	WHERE person_a = $1 OR person_b = $1
	ORDER BY person_a, person_b
`

const opportunityColumns = `
	id, title, required_capabilities, preferred_capabilities,
	value_min, value_max, currency, primary_contact_id, status, deadline
`

const selectOpportunitySQL = `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`

const listOpportunitiesSQL = `
	SELECT ` + opportunityColumns + `
	FROM opportunities
	WHERE lower(status) = $1
	ORDER BY deadline ASC NULLS LAST, id ASC
	LIMIT $2
`

const listEventsSQL = `
	SELECT id, name, location, starts_at, industry_sectors
	FROM events
	WHERE starts_at >= $1
	  AND (cardinality($2::text[]) = 0
	       OR EXISTS (SELECT 1 FROM unnest(industry_sectors) s WHERE lower(s) = ANY($2::text[])))
	ORDER BY starts_at ASC
	LIMIT $3
`

const upsertOrganizationSQL = `
	INSERT INTO organizations (id, name, type, industry_sectors, influence_score, capabilities)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, type = EXCLUDED.type, industry_sectors = EXCLUDED.industry_sectors,
		influence_score = EXCLUDED.influence_score, capabilities = EXCLUDED.capabilities
`

const upsertPersonSQL = `
	INSERT INTO people (id, name, title, seniority, department, organization_id, influence_score, connection_count, visible)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, title = EXCLUDED.title, seniority = EXCLUDED.seniority,
		department = EXCLUDED.department, organization_id = EXCLUDED.organization_id,
		influence_score = EXCLUDED.influence_score, connection_count = EXCLUDED.connection_count,
		visible = EXCLUDED.visible
`

const upsertRelationshipSQL = `
	INSERT INTO relationships (person_a, person_b, strength, types, business_relevance, active)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (person_a, person_b) DO UPDATE SET
		strength = EXCLUDED.strength, types = EXCLUDED.types,
		business_relevance = EXCLUDED.business_relevance, active = EXCLUDED.active
`

const upsertOpportunitySQL = `
	INSERT INTO opportunities (id, title, required_capabilities, preferred_capabilities, value_min, value_max, currency, primary_contact_id, status, deadline)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title, required_capabilities = EXCLUDED.required_capabilities,
		preferred_capabilities = EXCLUDED.preferred_capabilities, value_min = EXCLUDED.value_min,
		value_max = EXCLUDED.value_max, currency = EXCLUDED.currency,
		primary_contact_id = EXCLUDED.primary_contact_id, status = EXCLUDED.status, deadline = EXCLUDED.deadline
`

const upsertEventSQL = `
	INSERT INTO events (id, name, location, starts_at, industry_sectors)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, location = EXCLUDED.location,
		starts_at = EXCLUDED.starts_at, industry_sectors = EXCLUDED.industry_sectors
`
