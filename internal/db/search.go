package db

import (
	"context"

	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

// DocumentField is the return field holding the whole JSON document.
const DocumentField = "$"

// FindQuery is the input for a filtered document query.
type FindQuery struct {
	IndexName    string
	Filters      filter.Expression
	ReturnFields []string // empty returns the whole document under DocumentField
	SortBy       string   // must be a SORTABLE field
	SortDesc     bool
	Offset       int
	Limit        int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// Document returns the whole JSON document of the hit, if returned.
func (e SearchEntry) Document() ([]byte, bool) {
	v, ok := e.Fields[DocumentField]
	if !ok {
		return nil, false
	}
	return []byte(v), true
}

// FindOne returns the first document matching q, or ErrKeyNotFound.
func FindOne(ctx context.Context, f Finder, q FindQuery) (SearchEntry, error) {
	q.Offset = 0
	q.Limit = 1
	res, err := f.Find(ctx, &q)
	if err != nil {
		return SearchEntry{}, err
	}
	if len(res.Entries) == 0 {
		return SearchEntry{}, ErrKeyNotFound
	}
	return res.Entries[0], nil
}
