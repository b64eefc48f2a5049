package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vanshika/netintel/internal/dataset"
	"github.com/vanshika/netintel/internal/domain"
)

// Sink is the write contract bulk ingest needs. Both the Neo4j repository
// and the PostgreSQL store implement it.
type Sink interface {
	EnsureSchema(ctx context.Context) error
	UpsertOrganization(ctx context.Context, org domain.Organization) error
	UpsertPerson(ctx context.Context, person domain.Person) error
	UpsertRelationship(ctx context.Context, rel domain.Relationship) error
	UpsertOpportunity(ctx context.Context, opp domain.Opportunity) error
	UpsertEvent(ctx context.Context, ev domain.Event) error
}

// IngestRecorder counts ingested records. *metrics.Registry satisfies it.
type IngestRecorder interface {
	RecordIngest(kind string, err error)
}

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString(" ")
		b.WriteString(err.Error())
		b.WriteString(";")
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkIngestor writes a dataset into a Sink using a worker pool.
type BulkIngestor struct {
	sink     Sink
	workers  int
	recorder IngestRecorder
	logger   *slog.Logger
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(sink Sink, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		sink:    sink,
		workers: workers,
		logger:  slog.Default(),
	}
}

// WithRecorder sets the per-record metrics recorder.
func (bi *BulkIngestor) WithRecorder(rec IngestRecorder) *BulkIngestor {
	bi.recorder = rec
	return bi
}

// WithLogger sets the ingest logger.
func (bi *BulkIngestor) WithLogger(logger *slog.Logger) *BulkIngestor {
	if logger != nil {
		bi.logger = logger.With(slog.String("component", "ingest"))
	}
	return bi
}

// Ingest writes every record of d. Kinds are written in dependency order
// (organizations, people, relationships, opportunities, events) and a kind
// with failures stops the run before the next kind starts.
func (bi *BulkIngestor) Ingest(ctx context.Context, d dataset.Dataset) error {
	if err := bi.sink.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	steps := []struct {
		kind string
		run  func(context.Context, dataset.Dataset) error
	}{
		{"organizations", bi.ingestOrganizations},
		{"people", bi.ingestPeople},
		{"relationships", bi.ingestRelationships},
		{"opportunities", bi.ingestOpportunities},
		{"events", bi.ingestEvents},
	}
	counts := d.Counts()
	for _, step := range steps {
		if err := step.run(ctx, d); err != nil {
			return fmt.Errorf("ingest %s: %w", step.kind, err)
		}
		bi.logger.InfoContext(ctx, "ingested records",
			slog.String("kind", step.kind),
			slog.Int("count", counts[step.kind]),
		)
	}
	return nil
}

func (bi *BulkIngestor) ingestOrganizations(ctx context.Context, d dataset.Dataset) error {
	return bi.run(ctx, "organization", len(d.Organizations), func(idx int) error {
		return bi.sink.UpsertOrganization(ctx, normalizeOrganization(d.Organizations[idx]))
	})
}

func (bi *BulkIngestor) ingestPeople(ctx context.Context, d dataset.Dataset) error {
	return bi.run(ctx, "person", len(d.People), func(idx int) error {
		return bi.sink.UpsertPerson(ctx, normalizePerson(d.People[idx]))
	})
}

func (bi *BulkIngestor) ingestRelationships(ctx context.Context, d dataset.Dataset) error {
	return bi.run(ctx, "relationship", len(d.Relationships), func(idx int) error {
		rel := normalizeRelationship(d.Relationships[idx])
		if rel.PersonA == "" || rel.PersonB == "" {
			return fmt.Errorf("relationship %d: both endpoints are required", idx)
		}
		return bi.sink.UpsertRelationship(ctx, rel)
	})
}

func (bi *BulkIngestor) ingestOpportunities(ctx context.Context, d dataset.Dataset) error {
	return bi.run(ctx, "opportunity", len(d.Opportunities), func(idx int) error {
		return bi.sink.UpsertOpportunity(ctx, normalizeOpportunity(d.Opportunities[idx]))
	})
}

func (bi *BulkIngestor) ingestEvents(ctx context.Context, d dataset.Dataset) error {
	return bi.run(ctx, "event", len(d.Events), func(idx int) error {
		ev := d.Events[idx]
		ev.Name = sanitizeString(ev.Name)
		ev.IndustrySectors = normalizeTags(ev.IndustrySectors)
		return bi.sink.UpsertEvent(ctx, ev)
	})
}

func (bi *BulkIngestor) run(ctx context.Context, kind string, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			err := workerFn(idx)
			if bi.recorder != nil {
				bi.recorder.RecordIngest(kind, err)
			}
			if err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}
	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

func normalizeOrganization(o domain.Organization) domain.Organization {
	o.ID = strings.TrimSpace(o.ID)
	o.Name = sanitizeString(o.Name)
	o.IndustrySectors = normalizeTags(o.IndustrySectors)
	o.Capabilities = normalizeTags(o.Capabilities)
	return o
}

func normalizePerson(p domain.Person) domain.Person {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = sanitizeString(p.Name)
	p.Title = sanitizeString(p.Title)
	p.OrganizationID = strings.TrimSpace(p.OrganizationID)
	p.Seniority = domain.ParseSeniority(string(p.Seniority))
	return p
}

func normalizeRelationship(r domain.Relationship) domain.Relationship {
	r.PersonA = strings.TrimSpace(r.PersonA)
	r.PersonB = strings.TrimSpace(r.PersonB)
	r.Types = normalizeTags(r.Types)
	return r
}

func normalizeOpportunity(o domain.Opportunity) domain.Opportunity {
	o.ID = strings.TrimSpace(o.ID)
	o.Title = sanitizeString(o.Title)
	o.Status = strings.ToLower(strings.TrimSpace(o.Status))
	o.RequiredCapabilities = normalizeTags(o.RequiredCapabilities)
	o.PreferredCapabilities = normalizeTags(o.PreferredCapabilities)
	return o
}

// normalizeTags lower-cases, collapses whitespace and drops empty and
// duplicate entries, keeping first-seen order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(sanitizeString(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
