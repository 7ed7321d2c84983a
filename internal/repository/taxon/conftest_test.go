package taxon

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonGetMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	findFn         func(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	countFn        func(ctx context.Context, index string, f filter.Expression) (int, error)
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, index string, f filter.Expression) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index, f)
	}
	return 0, nil
}

func (m *mockStore) Distinct(context.Context, string, string, filter.Expression) ([]string, error) {
	return nil, nil
}

func (m *mockStore) CountDistinct(context.Context, string, string, filter.Expression) (int, error) {
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 10), ms
}

func nodeJSON(t *testing.T, d nodeDoc) []byte {
	t.Helper()
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal node: %v", err)
	}
	return raw
}

// entries wraps documents as search hits carrying the whole document.
func entries(t *testing.T, docs ...nodeDoc) []db.SearchEntry {
	t.Helper()
	out := make([]db.SearchEntry, len(docs))
	for i, d := range docs {
		out[i] = db.SearchEntry{
			Key:    docKey(d.TaxID),
			Fields: map[string]string{db.DocumentField: string(nodeJSON(t, d))},
		}
	}
	return out
}

var ecoli = nodeDoc{
	TaxID:         562,
	TaxName:       "Escherichia coli",
	Rank:          "species",
	AncestorIDs:   []int{131567, 2, 1224, 1236, 91347, 543, 561},
	AncestorNames: []string{"cellular organisms", "Bacteria", "Proteobacteria", "Gammaproteobacteria", "Enterobacterales", "Enterobacteriaceae", "Escherichia"},
}
