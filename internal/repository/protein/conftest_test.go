package protein

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn          func(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	countFn         func(ctx context.Context, index string, f filter.Expression) (int, error)
	distinctFn      func(ctx context.Context, index, field string, f filter.Expression) ([]string, error)
	countDistinctFn func(ctx context.Context, index, field string, f filter.Expression) (int, error)
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

func (m *mockStore) Distinct(ctx context.Context, index, field string, f filter.Expression) ([]string, error) {
	if m.distinctFn != nil {
		return m.distinctFn(ctx, index, field, f)
	}
	return []string{}, nil
}

func (m *mockStore) CountDistinct(ctx context.Context, index, field string, f filter.Expression) (int, error) {
	if m.countDistinctFn != nil {
		return m.countDistinctFn(ctx, index, field, f)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 50), ms
}

func hits(t *testing.T, docs ...map[string]any) *db.SearchResult {
	t.Helper()
	res := &db.SearchResult{Total: len(docs)}
	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		res.Entries = append(res.Entries, db.SearchEntry{
			Key:    "bioquery:protein:" + d["uniprot_id"].(string),
			Fields: map[string]string{db.DocumentField: string(raw)},
		})
	}
	return res
}

func proteinDoc(id, ko string, abundances any) map[string]any {
	d := map[string]any{
		"uniprot_id":        id,
		"protein_name":      "Aldehyde dehydrogenase",
		"ko_number":         ko,
		"ko_name":           []string{"aldehyde dehydrogenase (NAD+)"},
		"ncbi_taxonomy_id":  562,
		"species_name":      "Escherichia coli",
		"ancestor_taxon_id": []int{2, 1224, 561},
		"ancestor_name":     []string{"Bacteria", "Proteobacteria", "Escherichia"},
	}
	if abundances != nil {
		d["abundances"] = abundances
		d["abu_exist"] = true
	}
	return d
}

func findCondition(conds []filter.Condition, key string) (filter.Condition, bool) {
	for _, c := range conds {
		if c.Key() == key {
			return c, true
		}
	}
	return filter.Condition{}, false
}
