// Package graph wraps the Bolt driver behind a small query interface so the
// Cypher store can be tested without a running database.
package graph

import (
	"context"
	"errors"
	"time"
)

// Client runs Cypher statements against the graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the fully consumed records of one statement.
type Result struct {
	Records []Record
}

// Record maps return-clause keys to driver values.
type Record map[string]any

// First returns the first record, if any.
func (r Result) First() (Record, bool) {
	if len(r.Records) == 0 {
		return nil, false
	}
	return r.Records[0], true
}

// Options configures the Bolt client.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	AcquireTimeout time.Duration
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
