package repository

const getPersonCypher = `
MATCH (p:Person {personId: $id})
OPTIONAL MATCH (p)-[:WORKS_AT]->(o:Organization)
RETURN p.personId AS personId,
       p.name AS name,
       p.title AS title,
       p.seniority AS seniority,
       p.department AS department,
       coalesce(o.organizationId, p.organizationId) AS organizationId,
       p.influenceScore AS influenceScore,
       p.connectionCount AS connectionCount,
       p.visible AS visible
LIMIT 1
`

const getOrganizationCypher = `
MATCH (o:Organization {organizationId: $id})
RETURN o.organizationId AS organizationId,
       o.name AS name,
       o.type AS type,
       o.industrySectors AS industrySectors,
       o.influenceScore AS influenceScore,
       o.capabilities AS capabilities
LIMIT 1
`

const getEdgesCypher = `
MATCH (p:Person {personId: $id})
OPTIONAL MATCH (p)-[r:RELATED_TO]-(:Person)
RETURN startNode(r).personId AS personA,
       endNode(r).personId AS personB,
       r.strength AS strength,
       r.types AS types,
       r.businessRelevance AS businessRelevance,
       r.active AS active
`

const getOpportunityCypher = `
MATCH (op:Opportunity {opportunityId: $id})
RETURN op.opportunityId AS opportunityId,
       op.title AS title,
       op.requiredCapabilities AS requiredCapabilities,
       op.preferredCapabilities AS preferredCapabilities,
       op.valueMin AS valueMin,
       op.valueMax AS valueMax,
       op.currency AS currency,
       op.primaryContactId AS primaryContactId,
       op.status AS status,
       op.deadline AS deadline
LIMIT 1
`

const listEventsCypher = `
MATCH (e:Event)
WHERE e.startsAt >= $from
  AND (size($sectors) = 0 OR any(s IN coalesce(e.industrySectors, []) WHERE toLower(s) IN $sectors))
RETURN e.eventId AS eventId,
       e.name AS name,
       e.location AS location,
       e.startsAt AS startsAt,
       e.industrySectors AS industrySectors
ORDER BY e.startsAt ASC
LIMIT $limit
`

const listOpportunitiesCypher = `
MATCH (op:Opportunity)
WHERE toLower(op.status) = $status
RETURN op.opportunityId AS opportunityId,
       op.title AS title,
       op.requiredCapabilities AS requiredCapabilities,
       op.preferredCapabilities AS preferredCapabilities,
       op.valueMin AS valueMin,
       op.valueMax AS valueMax,
       op.currency AS currency,
       op.primaryContactId AS primaryContactId,
       op.status AS status,
       op.deadline AS deadline
ORDER BY op.deadline ASC, op.opportunityId ASC
LIMIT $limit
`

const upsertOrganizationCypher = `
MERGE (o:Organization {organizationId: $id})
SET o += $props
RETURN o.organizationId AS organizationId
`

const upsertPersonCypher = `
MERGE (p:Person {personId: $id})
SET p += $props
WITH p
OPTIONAL MATCH (p)-[old:WORKS_AT]->(:Organization)
DELETE old
WITH p
OPTIONAL MATCH (o:Organization {organizationId: $organizationId})
FOREACH (_ IN CASE WHEN o IS NULL THEN [] ELSE [1] END |
	MERGE (p)-[:WORKS_AT]->(o)
)
RETURN p.personId AS personId
`

// Edges are stored once per unordered pair, oriented from the smaller id.
const upsertRelationshipCypher = `
MATCH (a:Person {personId: $personA})
MATCH (b:Person {personId: $personB})
MERGE (a)-[r:RELATED_TO]->(b)
SET r += $props
RETURN type(r) AS relType
`

const upsertOpportunityCypher = `
MERGE (op:Opportunity {opportunityId: $id})
SET op += $props
RETURN op.opportunityId AS opportunityId
`

const upsertEventCypher = `
MERGE (e:Event {eventId: $id})
SET e += $props
RETURN e.eventId AS eventId
`

// schemaStatements are applied by EnsureSchema before bulk ingest.
var schemaStatements = []string{
	`CREATE CONSTRAINT person_id IF NOT EXISTS FOR (p:Person) REQUIRE p.personId IS UNIQUE`,
	`CREATE CONSTRAINT organization_id IF NOT EXISTS FOR (o:Organization) REQUIRE o.organizationId IS UNIQUE`,
	`CREATE CONSTRAINT opportunity_id IF NOT EXISTS FOR (op:Opportunity) REQUIRE op.opportunityId IS UNIQUE`,
	`CREATE CONSTRAINT event_id IF NOT EXISTS FOR (e:Event) REQUIRE e.eventId IS UNIQUE`,
}
