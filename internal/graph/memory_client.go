package graph

import (
	"context"
	"maps"
	"strings"
	"sync"
)

// MemoryClient is an in-memory Client for repository tests. Read results are
// routed by a fragment of the Cypher text so concurrent callers get the
// answer meant for their statement; writes are only recorded.
type MemoryClient struct {
	mu           sync.Mutex
	routes       []route
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	err          error
	connectivity error
}

type route struct {
	fragment string
	handler  func(params map[string]any) (Result, error)
}

// ExecutedQuery captures a statement and its parameters.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient returns an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent statement fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// OnRead registers a handler for reads whose Cypher contains fragment. The
// first matching registration wins.
func (m *MemoryClient) OnRead(fragment string, handler func(params map[string]any) (Result, error)) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route{fragment: fragment, handler: handler})
	return m
}

// OnReadResult registers a fixed result for reads containing fragment.
func (m *MemoryClient) OnReadResult(fragment string, res Result) *MemoryClient {
	return m.OnRead(fragment, func(map[string]any) (Result, error) { return res, nil })
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Result{}, m.err
	}
	m.writeCalls = append(m.writeCalls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})
	return Result{}, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return Result{}, m.err
	}
	m.readCalls = append(m.readCalls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})
	var handler func(map[string]any) (Result, error)
	for _, r := range m.routes {
		if strings.Contains(cypher, r.fragment) {
			handler = r.handler
			break
		}
	}
	m.mu.Unlock()

	if handler == nil {
		return Result{}, nil
	}
	return handler(params)
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// WriteCalls returns a snapshot of executed writes.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed reads.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}
