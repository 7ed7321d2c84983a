// Package db defines the storage contract of the query layer: JSON documents
// addressed by key, FT indexes over them, and a small key-value cache.
package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

// Store is everything the Redis implementation provides. Repositories and use
// cases depend on the narrow interfaces below.
type Store interface {
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()

	Documents
	Finder
	IndexManager
	KVStore
}

// Documents reads JSON documents by key.
type Documents interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// JSONGetMulti returns one entry per key in key order; nil marks a missing key.
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Finder queries documents through FT indexes.
type Finder interface {
	Find(ctx context.Context, q *FindQuery) (*SearchResult, error)
	Count(ctx context.Context, index string, filters filter.Expression) (int, error)
	// Distinct returns the values of field over the matching documents.
	Distinct(ctx context.Context, index, field string, filters filter.Expression) ([]string, error)
	// CountDistinct returns how many distinct values field takes over the
	// matching documents.
	CountDistinct(ctx context.Context, index, field string, filters filter.Expression) (int, error)
}

// IndexManager creates and inspects FT indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// KVStore holds opaque cache entries.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
