package taxon

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	"github.com/kailas-cloud/bioquery/internal/domain/search/filter"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// --- Get ---

func TestGet_Found(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != "bioquery:taxon:562" {
			t.Errorf("unexpected key: %s", key)
		}
		return nodeJSON(t, ecoli), nil
	}

	n, err := repo.Get(context.Background(), 562)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Name() != "Escherichia coli" || n.Rank() != domtaxon.RankSpecies {
		t.Errorf("node = %s/%s", n.Name(), n.Rank())
	}
	if got := n.AncestorIDs()[len(n.AncestorIDs())-1]; got != 561 {
		t.Errorf("parent = %d, want 561", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Key != "7" {
		t.Errorf("not found error = %#v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	boom := errors.New("connection refused")
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) { return nil, boom }

	_, err := repo.Get(context.Background(), 562)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("store failure must not look like a missing node")
	}
}

func TestGet_CorruptChain(t *testing.T) {
	repo, ms := newTestRepo(t)
	bad := ecoli
	bad.AncestorNames = bad.AncestorNames[:2]
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) { return nodeJSON(t, bad), nil }

	_, err := repo.Get(context.Background(), 562)
	if !errors.Is(err, domain.ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestGet_UnlistedRank(t *testing.T) {
	repo, ms := newTestRepo(t)
	strain := nodeDoc{TaxID: 83333, TaxName: "Escherichia coli K-12", Rank: "strain",
		AncestorIDs: []int{562}, AncestorNames: []string{"Escherichia coli"}}
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) { return nodeJSON(t, strain), nil }

	n, err := repo.Get(context.Background(), 83333)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Rank() != domtaxon.RankOther {
		t.Errorf("rank = %q, want +", n.Rank())
	}
}

// --- GetMany ---

func TestGetMany_PreservesOrder(t *testing.T) {
	repo, ms := newTestRepo(t)
	genus := nodeDoc{TaxID: 561, TaxName: "Escherichia", Rank: "genus",
		AncestorIDs: []int{543}, AncestorNames: []string{"Enterobacteriaceae"}}
	ms.jsonGetMultiFn = func(_ context.Context, keys []string) ([][]byte, error) {
		want := []string{"bioquery:taxon:561", "bioquery:taxon:562"}
		if !slices.Equal(keys, want) {
			t.Errorf("keys = %v, want %v", keys, want)
		}
		return [][]byte{nodeJSON(t, genus), nodeJSON(t, ecoli)}, nil
	}

	nodes, err := repo.GetMany(context.Background(), []int{561, 562})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nodes[0].ID() != 561 || nodes[1].ID() != 562 {
		t.Errorf("order = %d, %d", nodes[0].ID(), nodes[1].ID())
	}
}

func TestGetMany_MissingID(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetMultiFn = func(context.Context, []string) ([][]byte, error) {
		return [][]byte{nodeJSON(t, ecoli), nil}, nil
	}

	_, err := repo.GetMany(context.Background(), []int{562, 99999999})
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Key != "99999999" {
		t.Fatalf("expected not found for 99999999, got %v", err)
	}
}

func TestGetMany_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.jsonGetMultiFn = func(context.Context, []string) ([][]byte, error) {
		t.Fatal("store must not be called")
		return nil, nil
	}
	nodes, err := repo.GetMany(context.Background(), nil)
	if err != nil || len(nodes) != 0 {
		t.Fatalf("got %v, %v", nodes, err)
	}
}

// --- GetByName ---

func TestGetByName(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, q *db.FindQuery) (*db.SearchResult, error) {
		if q.IndexName != "bioquery:taxon:idx" {
			t.Errorf("index = %s", q.IndexName)
		}
		if q.Limit != 1 {
			t.Errorf("limit = %d, want 1", q.Limit)
		}
		must := q.Filters.Must()
		if len(must) != 1 || must[0].Key() != "name" || must[0].Match() != "escherichia COLI" {
			t.Errorf("unexpected filter: %+v", must)
		}
		return &db.SearchResult{Total: 1, Entries: entries(t, ecoli)}, nil
	}

	n, err := repo.GetByName(context.Background(), "escherichia COLI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID() != 562 {
		t.Errorf("id = %d", n.ID())
	}
}

func TestGetByName_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.GetByName(context.Background(), "Nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByName_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.GetByName(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

// --- SearchIDs ---

func TestSearchIDs(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, q *db.FindQuery) (*db.SearchResult, error) {
		if !slices.Equal(q.ReturnFields, []string{"tax_id"}) {
			t.Errorf("return fields = %v", q.ReturnFields)
		}
		c := q.Filters.Must()[0]
		if c.Kind() != filter.KindText || c.Match() != `"escherichia coli"` {
			t.Errorf("unexpected condition %+v", c)
		}
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			{Key: "bioquery:taxon:562", Fields: map[string]string{"tax_id": "562"}},
			{Key: "bioquery:taxon:83333", Fields: map[string]string{"tax_id": "83333"}},
		}}, nil
	}

	ids, err := repo.SearchIDs(context.Background(), `"escherichia coli"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ids, []int{562, 83333}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestSearchIDs_NoMatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ids, err := repo.SearchIDs(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("ids = %#v, want empty slice", ids)
	}
}

// --- EachAtLevel ---

func TestEachAtLevel_Filters(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, q *db.FindQuery) (*db.SearchResult, error) {
		must := q.Filters.Must()
		if len(must) != 1 || must[0].Kind() != filter.KindAllNumbers || must[0].Key() != "anc_id" {
			t.Fatalf("must = %+v", must)
		}
		if !slices.Equal(must[0].Numbers(), []float64{5, 4, 3, 2}) {
			t.Errorf("prefix = %v", must[0].Numbers())
		}
		not := q.Filters.MustNot()
		if len(not) != 2 || not[0].Key() != "tax_id" || not[1].Key() != "anc_id" {
			t.Fatalf("must not = %+v", not)
		}
		if !slices.Equal(not[1].Numbers(), []float64{0, 1}) {
			t.Errorf("excluded = %v", not[1].Numbers())
		}
		return &db.SearchResult{Total: 1, Entries: entries(t, nodeDoc{
			TaxID: 8, TaxName: "eight",
			AncestorIDs: []int{5, 4, 3, 2, 6, 7}, AncestorNames: []string{"5", "4", "3", "2", "6", "7"},
		})}, nil
	}

	var got []int
	err := repo.EachAtLevel(context.Background(), equivalence.LevelQuery{
		CommonPrefix: []int{5, 4, 3, 2},
		Excluded:     []int{0, 1},
	}, func(n domtaxon.Node) error {
		got = append(got, n.ID())
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []int{8}) {
		t.Errorf("got %v", got)
	}
}

func TestEachAtLevel_CallbackErrorStops(t *testing.T) {
	repo, ms := newTestRepo(t)
	calls := 0
	ms.findFn = func(context.Context, *db.FindQuery) (*db.SearchResult, error) {
		calls++
		return &db.SearchResult{Total: 2, Entries: entries(t, ecoli, ecoli)}, nil
	}
	stop := errors.New("stop")
	seen := 0
	err := repo.EachAtLevel(context.Background(), equivalence.LevelQuery{
		CommonPrefix: []int{1}, Excluded: []int{2},
	}, func(domtaxon.Node) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v", err)
	}
	if seen != 1 || calls != 1 {
		t.Errorf("seen=%d calls=%d", seen, calls)
	}
}

func TestEachAtLevel_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	boom := errors.New("timeout")
	ms.findFn = func(context.Context, *db.FindQuery) (*db.SearchResult, error) { return nil, boom }

	err := repo.EachAtLevel(context.Background(), equivalence.LevelQuery{
		CommonPrefix: []int{1}, Excluded: []int{2},
	}, func(domtaxon.Node) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

// --- EachSpeciesName ---

func TestEachSpeciesName(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, q *db.FindQuery) (*db.SearchResult, error) {
		if c := q.Filters.Must()[0]; c.Key() != "rank" || c.Match() != "species" {
			t.Errorf("condition = %+v", c)
		}
		return &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
			{Fields: map[string]string{"tax_name": "Escherichia coli"}},
			{Fields: map[string]string{}},
			{Fields: map[string]string{"tax_name": "Homo sapiens"}},
		}}, nil
	}

	var names []string
	err := repo.EachSpeciesName(context.Background(), func(s string) error {
		names = append(names, s)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(names, []string{"Escherichia coli", "Homo sapiens"}) {
		t.Errorf("names = %v", names)
	}
}

func TestIndex(t *testing.T) {
	def := Index()
	if err := def.Validate(); err != nil {
		t.Fatalf("invalid index: %v", err)
	}
	if def.Prefix != "bioquery:taxon:" {
		t.Errorf("prefix = %q", def.Prefix)
	}
	names := make([]string, len(def.Fields))
	for i := range def.Fields {
		names[i] = def.Fields[i].Alias
	}
	for _, want := range []string{fieldID, fieldName, fieldNameTag, fieldRank, fieldAncestor} {
		if !slices.Contains(names, want) {
			t.Errorf("index lacks %s", want)
		}
	}
}
