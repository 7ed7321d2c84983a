// Package equivalence holds the value types of the taxonomic-distance
// equivalence search.
package equivalence

import (
	"math"

	"github.com/kailas-cloud/bioquery/internal/domain"
)

// Unbounded disables the depth limit.
const Unbounded = math.MaxInt

// Status is the business outcome of a search.
type Status int

const (
	// StatusOK means buckets were computed.
	StatusOK Status = iota
	// StatusReferenceNotFound means the reference entity does not exist.
	StatusReferenceNotFound
	// StatusNoGroupKey means the reference has no group key to compare by.
	StatusNoGroupKey
)

// Distance sentinels reported for non-OK outcomes.
const (
	DistanceReferenceNotFound = -1
	DistanceNoGroupKey        = -2
)

// String returns a stable name for logs and responses.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusReferenceNotFound:
		return "reference_not_found"
	case StatusNoGroupKey:
		return "no_group_key"
	default:
		return "unknown"
	}
}

// Options bound a search.
type Options struct {
	MaxDistance int
	MaxDepth    int
	IncludeSelf bool
}

// NewOptions returns options with the given distance and no depth limit.
func NewOptions(maxDistance int) Options {
	return Options{MaxDistance: maxDistance, MaxDepth: Unbounded}
}

// Validate rejects non-positive bounds.
func (o Options) Validate() error {
	if o.MaxDistance < 1 {
		return domain.InvalidArgument("max distance must be at least 1, got %d", o.MaxDistance)
	}
	if o.MaxDepth < 1 {
		return domain.InvalidArgument("max depth must be at least 1, got %d", o.MaxDepth)
	}
	return nil
}

// LevelQuery selects candidates for one widening step.
type LevelQuery struct {
	GroupKey           string // empty for ungrouped searches
	CommonPrefix       []int  // candidates' ancestor chains must contain all of these
	Excluded           []int  // neither a candidate's taxon nor any of its ancestors may be listed
	RequireObservation bool
}

// Match is a candidate placed in a bucket with its depth below the common prefix.
type Match[T any] struct {
	Item  T
	Depth int
}

// Bucket holds the matches found at one taxonomic distance.
type Bucket[T any] struct {
	Distance  int
	Documents []Match[T]
}

// Result is the outcome of a search. Buckets are ordered by distance.
type Result[T any] struct {
	Status  Status
	Buckets []Bucket[T]
}

// Sentinel returns the single-bucket form used to report a non-OK status.
func (r Result[T]) Sentinel() []Bucket[T] {
	switch r.Status {
	case StatusReferenceNotFound:
		return []Bucket[T]{{Distance: DistanceReferenceNotFound, Documents: []Match[T]{}}}
	case StatusNoGroupKey:
		return []Bucket[T]{{Distance: DistanceNoGroupKey, Documents: []Match[T]{}}}
	default:
		return r.Buckets
	}
}

// Items flattens all buckets in distance order.
func (r Result[T]) Items() []T {
	var out []T
	for _, b := range r.Buckets {
		for _, m := range b.Documents {
			out = append(out, m.Item)
		}
	}
	return out
}
