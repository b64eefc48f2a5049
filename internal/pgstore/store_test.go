package pgstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netintel/internal/domain"
)

// fakeRow assigns canned values into Scan destinations.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type fakeRows struct {
	rows []fakeRow
	pos  int
	err  error
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos-1].values, nil }
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return r.rows[r.pos-1].Scan(dest...)
}

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	rowFor  map[string]fakeRow
	rowsFor map[string]*fakeRows
	execs   []execCall
	err     error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, f.err
}

func (f *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	if rows, ok := f.rowsFor[sql]; ok {
		return rows, nil
	}
	return &fakeRows{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	if row, ok := f.rowFor[sql]; ok {
		return row
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func newTestStore(db *fakeDB) *Store {
	return &Store{db: db, now: time.Now}
}

func strPtr(s string) *string { return &s }

func TestGetPerson(t *testing.T) {
	db := &fakeDB{rowFor: map[string]fakeRow{
		selectPersonSQL: {values: []any{"P-1", "Ada", "CTO", "executive", "eng", strPtr("ORG-1"), 6.5, 42, true}},
	}}
	p, err := newTestStore(db).GetPerson(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SeniorityCLevel, p.Seniority)
	assert.Equal(t, "ORG-1", p.OrganizationID)
	assert.Equal(t, 42, p.ConnectionCount)
}

func TestGetPersonErrors(t *testing.T) {
	_, err := newTestStore(&fakeDB{}).GetPerson(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = newTestStore(&fakeDB{err: errors.New("conn refused")}).GetPerson(context.Background(), "P-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	db := &fakeDB{rowFor: map[string]fakeRow{
		selectPersonSQL: {values: []any{"P-1", "", "", "", "", nil, 99.0, 0, true}},
	}}
	_, err = newTestStore(db).GetPerson(context.Background(), "P-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestGetEdges(t *testing.T) {
	db := &fakeDB{
		rowFor: map[string]fakeRow{personExistsSQL: {values: []any{true}}},
		rowsFor: map[string]*fakeRows{selectEdgesSQL: {rows: []fakeRow{
			{values: []any{"P-1", "P-2", "strong", []string{"colleague"}, 7.0, true}},
			{values: []any{"P-0", "P-1", "weak", []string{"alumni"}, 1.0, false}},
		}}},
	}
	edges, err := newTestStore(db).GetEdges(context.Background(), "P-1")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, domain.StrengthStrong, edges[0].Strength)
	assert.False(t, edges[1].Active)
}

func TestGetEdgesUnknownPersonAndBadStrength(t *testing.T) {
	db := &fakeDB{rowFor: map[string]fakeRow{personExistsSQL: {values: []any{false}}}}
	_, err := newTestStore(db).GetEdges(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	db = &fakeDB{
		rowFor: map[string]fakeRow{personExistsSQL: {values: []any{true}}},
		rowsFor: map[string]*fakeRows{selectEdgesSQL: {rows: []fakeRow{
			{values: []any{"P-1", "P-2", "besties", []string{"x"}, 1.0, true}},
		}}},
	}
	_, err = newTestStore(db).GetEdges(context.Background(), "P-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestListOpenOpportunities(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{rowsFor: map[string]*fakeRows{listOpportunitiesSQL: {rows: []fakeRow{
		{values: []any{"OPP-1", "Ledger", []string{"go"}, []string{}, 10.0, 20.0, "EUR", strPtr("P-1"), "open", &deadline}},
		{values: []any{"OPP-2", "Risk", []string{}, []string{}, 0.0, 0.0, "", nil, "open", nil}},
	}}}}

	items, err := newTestStore(db).ListOpenOpportunities(context.Background(), domain.OpportunityFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "P-1", items[0].PrimaryContactID)
	assert.Nil(t, items[1].Deadline)
}

func TestUpsertRelationshipOrdersPair(t *testing.T) {
	db := &fakeDB{}
	err := newTestStore(db).UpsertRelationship(context.Background(), domain.Relationship{
		PersonA: "P-9", PersonB: "P-1", Strength: domain.StrengthMedium, Active: true,
	})
	require.NoError(t, err)
	require.Len(t, db.execs, 1)
	args := db.execs[0].args
	assert.Equal(t, "P-1", args[0])
	assert.Equal(t, "P-9", args[1])
	assert.Equal(t, []string{}, args[3])
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, newTestStore(db).EnsureSchema(context.Background()))
	assert.Equal(t, schemaSQL, db.execs[0].sql)

	db.err = errors.New("permission denied")
	assert.Error(t, newTestStore(db).EnsureSchema(context.Background()))
}
