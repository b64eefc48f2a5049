// Package cache decorates a graph store with a bounded TTL cache. The cache is
// owned by whoever constructs it; nothing in the engine holds global state.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vanshika/netintel/internal/domain"
	"github.com/vanshika/netintel/internal/engine"
)

// Entry kinds accepted by Invalidate.
const (
	KindPerson       = "person"
	KindOrganization = "organization"
	KindEdges        = "edges"
	KindOpportunity  = "opportunity"
)

// Observer receives hit and miss notifications, per entry kind.
type Observer interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

// Options configures the cache.
type Options struct {
	TTL      time.Duration
	MaxItems int
	Observer Observer

	// FetchTimeout bounds a shared miss, which runs detached from the
	// callers waiting on it.
	FetchTimeout time.Duration
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry struct {
	key     string
	value   any
	expires time.Time
	element *list.Element
}

// Store caches successful reads of the wrapped GraphStore for TTL. Failed
// reads are never cached. Concurrent misses on the same key share one
// underlying call.
type Store struct {
	next         engine.GraphStore
	ttl          time.Duration
	maxItems     int
	observer     Observer
	fetchTimeout time.Duration
	now          func() time.Time

	mu        sync.Mutex
	items     map[string]*entry
	lru       *list.List
	hits      int64
	misses    int64
	evictions int64

	group singleflight.Group
}

// New wraps next. A zero TTL defaults to 30 seconds, a zero MaxItems to
// 10000 entries and a zero FetchTimeout to 10 seconds.
func New(next engine.GraphStore, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = 10000
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Store{
		next:         next,
		ttl:          opts.TTL,
		maxItems:     opts.MaxItems,
		observer:     opts.Observer,
		fetchTimeout: opts.FetchTimeout,
		now:          time.Now,
		items:        make(map[string]*entry),
		lru:          list.New(),
	}
}

func (s *Store) GetPerson(ctx context.Context, id string) (domain.Person, error) {
	return load(ctx, s, KindPerson, id, func(ctx context.Context) (domain.Person, error) {
		return s.next.GetPerson(ctx, id)
	})
}

func (s *Store) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	return load(ctx, s, KindOrganization, id, func(ctx context.Context) (domain.Organization, error) {
		return s.next.GetOrganization(ctx, id)
	})
}

func (s *Store) GetEdges(ctx context.Context, personID string) ([]domain.Relationship, error) {
	edges, err := load(ctx, s, KindEdges, personID, func(ctx context.Context) ([]domain.Relationship, error) {
		return s.next.GetEdges(ctx, personID)
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Relationship(nil), edges...), nil
}

func (s *Store) GetOpportunity(ctx context.Context, id string) (domain.Opportunity, error) {
	return load(ctx, s, KindOpportunity, id, func(ctx context.Context) (domain.Opportunity, error) {
		return s.next.GetOpportunity(ctx, id)
	})
}

// Invalidate drops one cached entry.
func (s *Store) Invalidate(kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[cacheKey(kind, id)]; ok {
		s.remove(e)
	}
}

// Purge drops every cached entry.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*entry)
	s.lru.Init()
}

// Stats returns the current counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Items: len(s.items), Hits: s.hits, Misses: s.misses, Evictions: s.evictions}
}

// load serves key from the cache or joins a shared fetch. The fetch runs on a
// context detached from the caller that started it; each caller waits only
// as long as its own context allows.
func load[T any](ctx context.Context, s *Store, kind, id string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	key := cacheKey(kind, id)
	if v, ok := s.get(kind, key); ok {
		return v.(T), nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.peek(key); ok {
			return v, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		out, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.set(key, out)
		return out, nil
	})

	select {
	case <-ctx.Done():
		return zero, domain.StoreUnavailable("cached "+kind+" read", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (s *Store) get(kind, key string) (any, bool) {
	s.mu.Lock()
	e, ok := s.items[key]
	if ok && s.now().After(e.expires) {
		s.remove(e)
		ok = false
	}
	if ok {
		s.lru.MoveToFront(e.element)
		s.hits++
	} else {
		s.misses++
	}
	s.mu.Unlock()

	if s.observer != nil {
		if ok {
			s.observer.CacheHit(kind)
		} else {
			s.observer.CacheMiss(kind)
		}
	}
	if !ok {
		return nil, false
	}
	return e.value, true
}

// peek reads a live entry without touching counters or recency.
func (s *Store) peek(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok || s.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (s *Store) set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[key]; ok {
		s.remove(old)
	}
	for len(s.items) >= s.maxItems && s.lru.Len() > 0 {
		s.remove(s.lru.Back().Value.(*entry))
		s.evictions++
	}
	e := &entry{key: key, value: value, expires: s.now().Add(s.ttl)}
	e.element = s.lru.PushFront(e)
	s.items[key] = e
}

func (s *Store) remove(e *entry) {
	s.lru.Remove(e.element)
	delete(s.items, e.key)
}

func cacheKey(kind, id string) string {
	return kind + "\x00" + id
}
