package db

import (
	"context"
	"fmt"
)

// DefaultBatchSize is the page size used when a cursor is created without one.
const DefaultBatchSize = 100

// Cursor lazily pages through a FindQuery in retrieval order.
// Offset and Limit of the query bound the whole sequence; zero Limit means
// no bound. A Cursor is not safe for concurrent use.
type Cursor struct {
	finder Finder
	query  FindQuery
	batch  int

	page    []SearchEntry
	pos     int
	fetched int
	total   int
	done    bool
	err     error
}

// NewCursor creates a cursor over q fetching batchSize documents per round trip.
func NewCursor(f Finder, q FindQuery, batchSize int) *Cursor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Cursor{finder: f, query: q, batch: batchSize, total: -1}
}

// Next advances to the next entry, fetching a page when needed.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if c.pos+1 < len(c.page) {
		c.pos++
		return true
	}
	if c.done {
		return false
	}
	if err := c.fetch(ctx); err != nil {
		c.err = err
		return false
	}
	if len(c.page) == 0 {
		return false
	}
	c.pos = 0
	return true
}

func (c *Cursor) fetch(ctx context.Context) error {
	size := c.batch
	if c.query.Limit > 0 {
		size = min(size, c.query.Limit-c.fetched)
	}
	if size <= 0 {
		c.page, c.done = nil, true
		return nil
	}

	q := c.query
	q.Offset = c.query.Offset + c.fetched
	q.Limit = size

	res, err := c.finder.Find(ctx, &q)
	if err != nil {
		return fmt.Errorf("fetch page at offset %d: %w", q.Offset, err)
	}

	c.page = res.Entries
	c.fetched += len(res.Entries)
	c.total = res.Total
	if len(res.Entries) < size || c.query.Offset+c.fetched >= res.Total {
		c.done = true
	}
	return nil
}

// Entry returns the current entry. Valid only after Next returned true.
func (c *Cursor) Entry() SearchEntry {
	return c.page[c.pos]
}

// Total returns the match count reported by the store, -1 before the first fetch.
func (c *Cursor) Total() int { return c.total }

// Err returns the error that stopped iteration, if any.
func (c *Cursor) Err() error { return c.err }

// Collect drains the cursor into a slice.
func Collect(ctx context.Context, c *Cursor) ([]SearchEntry, error) {
	var out []SearchEntry
	for c.Next(ctx) {
		out = append(out, c.Entry())
	}
	return out, c.Err()
}
