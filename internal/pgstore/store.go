// Package pgstore implements the graph store and catalog on PostgreSQL, with
// relationships kept in an adjacency table.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/validation"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Options configures the connection pool.
type Options struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// db is the subset of *pgxpool.Pool the store uses.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads the relationship graph from PostgreSQL.
type Store struct {
	db   db
	pool *pgxpool.Pool
	now  func() time.Time
}

// Open connects a pool and verifies the database is reachable.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.URL == "" {
		return nil, errors.New("postgres url is required")
	}
	config, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnLifetime > 0 {
		config.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &Store{db: pool, pool: pool, now: time.Now}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	if err := s.pool.Ping(ctx); err != nil {
		return domain.StoreUnavailable("ping postgres", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (domain.Person, error) {
	p, err := scanPerson(s.db.QueryRow(ctx, selectPersonSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Person{}, domain.NotFound("person", id)
	}
	if err != nil {
		return domain.Person{}, domain.StoreUnavailable("get person", err)
	}
	if err := validation.Row("person", p); err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

func (s *Store) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	o, err := scanOrganization(s.db.QueryRow(ctx, selectOrganizationSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Organization{}, domain.NotFound("organization", id)
	}
	if err != nil {
		return domain.Organization{}, domain.StoreUnavailable("get organization", err)
	}
	if err := validation.Row("organization", o); err != nil {
		return domain.Organization{}, err
	}
	return o, nil
}

func (s *Store) GetEdges(ctx context.Context, personID string) ([]domain.Relationship, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, personExistsSQL, personID).Scan(&exists); err != nil {
		return nil, domain.StoreUnavailable("get edges", err)
	}
	if !exists {
		return nil, domain.NotFound("person", personID)
	}

	rows, err := s.db.Query(ctx, selectEdgesSQL, personID)
	if err != nil {
		return nil, domain.StoreUnavailable("get edges", err)
	}
	defer rows.Close()

	var edges []domain.Relationship
	for rows.Next() {
		edge, err := scanRelationship(rows)
		if err != nil {
			return nil, domain.StoreUnavailable("get edges", err)
		}
		if err := validation.Row("relationship", edge); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreUnavailable("get edges", err)
	}
	return edges, nil
}

func (s *Store) GetOpportunity(ctx context.Context, id string) (domain.Opportunity, error) {
	op, err := scanOpportunity(s.db.QueryRow(ctx, selectOpportunitySQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Opportunity{}, domain.NotFound("opportunity", id)
	}
	if err != nil {
		return domain.Opportunity{}, domain.StoreUnavailable("get opportunity", err)
	}
	if err := validation.Row("opportunity", op); err != nil {
		return domain.Opportunity{}, err
	}
	return op, nil
}

func (s *Store) ListUpcomingEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error) {
	from := filter.From
	if from.IsZero() {
		from = s.now()
	}
	sectors := make([]string, 0, len(filter.Sectors))
	for _, sec := range filter.Sectors {
		if sec = strings.ToLower(strings.TrimSpace(sec)); sec != "" {
			sectors = append(sectors, sec)
		}
	}

	rows, err := s.db.Query(ctx, listEventsSQL, from, sectors, clampLimit(filter.Limit))
	if err != nil {
		return nil, domain.StoreUnavailable("list events", err)
	}
	defer rows.Close()

	out := []domain.EventSummary{}
	for rows.Next() {
		var ev domain.EventSummary
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Location, &ev.StartsAt, &ev.IndustrySectors); err != nil {
			return nil, domain.StoreUnavailable("list events", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreUnavailable("list events", err)
	}
	return out, nil
}

func (s *Store) ListOpenOpportunities(ctx context.Context, filter domain.OpportunityFilter) ([]domain.OpportunitySummary, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = domain.OpportunityStatusOpen
	}

	rows, err := s.db.Query(ctx, listOpportunitiesSQL, status, clampLimit(filter.Limit))
	if err != nil {
		return nil, domain.StoreUnavailable("list opportunities", err)
	}
	defer rows.Close()

	out := []domain.OpportunitySummary{}
	for rows.Next() {
		op, err := scanOpportunity(rows)
		if err != nil {
			return nil, domain.StoreUnavailable("list opportunities", err)
		}
		out = append(out, op.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreUnavailable("list opportunities", err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
