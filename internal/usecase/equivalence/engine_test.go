package equivalence

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
)

type entity struct {
	id       string
	taxon    int
	anc      []int
	key      string
	observed bool
}

// memSource evaluates level queries over an in-memory collection.
type memSource struct {
	docs    []entity
	queries []equivalence.LevelQuery
	err     error
}

func (m *memSource) EachAtLevel(_ context.Context, q equivalence.LevelQuery, fn func(entity) error) error {
	m.queries = append(m.queries, q)
	if m.err != nil {
		return m.err
	}
	for _, d := range m.docs {
		if q.GroupKey != "" && d.key != q.GroupKey {
			continue
		}
		if q.RequireObservation && !d.observed {
			continue
		}
		if !containsAll(d.anc, q.CommonPrefix) {
			continue
		}
		if slices.Contains(q.Excluded, d.taxon) || slices.ContainsFunc(d.anc, func(a int) bool {
			return slices.Contains(q.Excluded, a)
		}) {
			continue
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func containsAll(have, want []int) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

type recordingObserver struct {
	levels []int
	runs   []string
}

func (o *recordingObserver) ObserveLevel(_ string, matches int, _ time.Duration) {
	o.levels = append(o.levels, matches)
}

func (o *recordingObserver) ObserveRun(_, status string) { o.runs = append(o.runs, status) }

func taxonVariant() Variant[entity] {
	return Variant[entity]{Name: "taxon", Ancestors: func(e entity) []int { return e.anc }}
}

func proteinVariant() Variant[entity] {
	return Variant[entity]{
		Name:               "protein",
		Grouped:            true,
		RequireObservation: true,
		Ancestors:          func(e entity) []int { return e.anc },
	}
}

func ref(e entity) Reference[entity] {
	return Reference[entity]{Item: e, TaxonID: e.taxon, Ancestors: e.anc, GroupKey: e.key, Observed: e.observed}
}

func bucketIDs(res equivalence.Result[entity]) [][]string {
	out := make([][]string, len(res.Buckets))
	for i, b := range res.Buckets {
		out[i] = []string{}
		for _, m := range b.Documents {
			out[i] = append(out[i], m.Item.id)
		}
	}
	return out
}

func itemIDs(res equivalence.Result[entity]) []string {
	var ids []string
	for _, e := range res.Items() {
		ids = append(ids, e.id)
	}
	slices.Sort(ids)
	return ids
}

// exampleTree is node 0 under [5,4,3,2,1], node 8 under [5,4,3,2,6,7], node 9 under [5,4,3].
func exampleTree() []entity {
	return []entity{
		{id: "0", taxon: 0, anc: []int{5, 4, 3, 2, 1}},
		{id: "8", taxon: 8, anc: []int{5, 4, 3, 2, 6, 7}},
		{id: "9", taxon: 9, anc: []int{5, 4, 3}},
	}
}

func TestRun_Example(t *testing.T) {
	docs := exampleTree()
	e := New[entity](&memSource{docs: docs}, taxonVariant(), nil, zap.NewNop())

	tests := []struct {
		maxDistance int
		want        []string
	}{
		{1, nil},
		{2, []string{"8"}},
		{3, []string{"8", "9"}},
		{10, []string{"8", "9"}},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.maxDistance), func(t *testing.T) {
			res, err := e.Run(context.Background(), ref(docs[0]), equivalence.NewOptions(tt.maxDistance))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != equivalence.StatusOK {
				t.Fatalf("status = %v", res.Status)
			}
			if len(res.Buckets) != tt.maxDistance {
				t.Errorf("buckets = %d, want %d", len(res.Buckets), tt.maxDistance)
			}
			if got := itemIDs(res); !slices.Equal(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_ExampleBucketsAndDepth(t *testing.T) {
	docs := exampleTree()
	src := &memSource{docs: docs}
	e := New[entity](src, taxonVariant(), nil, zap.NewNop())

	res, err := e.Run(context.Background(), ref(docs[0]), equivalence.NewOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{}, {"8"}, {"9"}}
	got := bucketIDs(res)
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
		if res.Buckets[i].Distance != i+1 {
			t.Errorf("bucket %d distance = %d", i, res.Buckets[i].Distance)
		}
	}
	// 8 sits two nodes below the common prefix [5,4,3,2]; 9 sits at [5,4,3] itself.
	if d := res.Buckets[1].Documents[0].Depth; d != 3 {
		t.Errorf("depth of 8 = %d, want 3", d)
	}
	if d := res.Buckets[2].Documents[0].Depth; d != 1 {
		t.Errorf("depth of 9 = %d, want 1", d)
	}

	if !slices.Equal(src.queries[0].CommonPrefix, []int{5, 4, 3, 2, 1}) {
		t.Errorf("level 0 prefix = %v", src.queries[0].CommonPrefix)
	}
	if !slices.Equal(src.queries[2].Excluded, []int{0, 1, 2}) {
		t.Errorf("level 2 excluded = %v", src.queries[2].Excluded)
	}
}

func TestRun_MaxDepth(t *testing.T) {
	docs := exampleTree()
	e := New[entity](&memSource{docs: docs}, taxonVariant(), nil, zap.NewNop())

	res, err := e.Run(context.Background(), ref(docs[0]), equivalence.Options{MaxDistance: 3, MaxDepth: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := itemIDs(res); !slices.Equal(got, []string{"9"}) {
		t.Errorf("items = %v, want [9]", got)
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	e := New[entity](&memSource{}, taxonVariant(), nil, nil)
	for _, opts := range []equivalence.Options{
		{MaxDistance: 0, MaxDepth: 1},
		{MaxDistance: -3, MaxDepth: 1},
		{MaxDistance: 2, MaxDepth: 0},
		{MaxDistance: 2, MaxDepth: -1},
	} {
		_, err := e.Run(context.Background(), ref(exampleTree()[0]), opts)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("Run(%+v) err = %v, want ErrInvalidArgument", opts, err)
		}
	}
}

func TestRun_NoGroupKey(t *testing.T) {
	obs := &recordingObserver{}
	src := &memSource{}
	e := New[entity](src, proteinVariant(), obs, nil)

	r := ref(entity{id: "P1", taxon: 562, anc: []int{2, 561}, observed: true})
	res, err := e.Run(context.Background(), r, equivalence.NewOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != equivalence.StatusNoGroupKey {
		t.Errorf("status = %v", res.Status)
	}
	if len(src.queries) != 0 {
		t.Error("no level may run without a group key")
	}
	if !slices.Equal(obs.runs, []string{"no_group_key"}) {
		t.Errorf("runs = %v", obs.runs)
	}
	if b := res.Sentinel(); len(b) != 1 || b[0].Distance != equivalence.DistanceNoGroupKey {
		t.Errorf("sentinel = %+v", b)
	}
}

func TestNotFound(t *testing.T) {
	obs := &recordingObserver{}
	e := New[entity](&memSource{}, proteinVariant(), obs, nil)
	res := e.NotFound()
	if res.Status != equivalence.StatusReferenceNotFound {
		t.Errorf("status = %v", res.Status)
	}
	if b := res.Sentinel(); len(b) != 1 || b[0].Distance != equivalence.DistanceReferenceNotFound {
		t.Errorf("sentinel = %+v", b)
	}
	if !slices.Equal(obs.runs, []string{"reference_not_found"}) {
		t.Errorf("runs = %v", obs.runs)
	}
}

func TestRun_GroupedObserved(t *testing.T) {
	docs := []entity{
		{id: "P0", taxon: 0, anc: []int{5, 4, 3, 2, 1}, key: "K1", observed: true},
		{id: "P8", taxon: 8, anc: []int{5, 4, 3, 2, 6, 7}, key: "K1", observed: true},
		{id: "P8b", taxon: 8, anc: []int{5, 4, 3, 2, 6, 7}, key: "K2", observed: true},
		{id: "P9", taxon: 9, anc: []int{5, 4, 3}, key: "K1", observed: false},
		{id: "P10", taxon: 10, anc: []int{5, 4, 3}, key: "K1", observed: true},
		{id: "P0b", taxon: 0, anc: []int{5, 4, 3, 2, 1}, key: "K1", observed: true},
	}
	src := &memSource{docs: docs}
	e := New[entity](src, proteinVariant(), nil, nil)

	res, err := e.Run(context.Background(), ref(docs[0]), equivalence.NewOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := bucketIDs(res)
	want := [][]string{{}, {"P8"}, {"P10"}}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
	for _, q := range src.queries {
		if q.GroupKey != "K1" || !q.RequireObservation {
			t.Errorf("query = %+v", q)
		}
	}
}

func TestRun_WithAnchor(t *testing.T) {
	docs := []entity{
		{id: "P0", taxon: 0, anc: []int{5, 4, 3, 2, 1}, key: "K1", observed: true},
		{id: "P8", taxon: 8, anc: []int{5, 4, 3, 2, 6, 7}, key: "K1", observed: true},
		{id: "P9", taxon: 9, anc: []int{5, 4, 3}, key: "K1", observed: true},
	}
	e := New[entity](&memSource{docs: docs}, proteinVariant(), nil, nil)

	res, err := e.Run(context.Background(), ref(docs[0]), equivalence.Options{MaxDistance: 3, MaxDepth: equivalence.Unbounded, IncludeSelf: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Buckets) != 3 {
		t.Fatalf("buckets = %d", len(res.Buckets))
	}
	for i, b := range res.Buckets {
		if b.Distance != i {
			t.Errorf("bucket %d distance = %d", i, b.Distance)
		}
	}
	got := bucketIDs(res)
	want := [][]string{{"P0"}, {}, {"P8"}}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
	if d := res.Buckets[0].Documents[0].Depth; d != 0 {
		t.Errorf("self depth = %d", d)
	}
}

func TestRun_WithAnchorUnobservedReference(t *testing.T) {
	r := ref(entity{id: "P0", taxon: 0, anc: []int{5, 4}, key: "K1", observed: false})
	e := New[entity](&memSource{}, proteinVariant(), nil, nil)

	res, err := e.Run(context.Background(), r, equivalence.Options{MaxDistance: 1, MaxDepth: equivalence.Unbounded, IncludeSelf: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Buckets) != 1 || len(res.Buckets[0].Documents) != 0 {
		t.Errorf("buckets = %+v", res.Buckets)
	}
}

func TestRun_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("i/o timeout")
	e := New[entity](&memSource{err: boom}, taxonVariant(), nil, nil)

	_, err := e.Run(context.Background(), ref(exampleTree()[0]), equivalence.NewOptions(2))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRun_ObserverPerLevel(t *testing.T) {
	obs := &recordingObserver{}
	docs := exampleTree()
	e := New[entity](&memSource{docs: docs}, taxonVariant(), obs, nil)

	if _, err := e.Run(context.Background(), ref(docs[0]), equivalence.NewOptions(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(obs.levels, []int{0, 1, 1}) {
		t.Errorf("levels = %v", obs.levels)
	}
	if !slices.Equal(obs.runs, []string{"ok"}) {
		t.Errorf("runs = %v", obs.runs)
	}
}

func TestRun_ShortChain(t *testing.T) {
	docs := []entity{
		{id: "root-child", taxon: 2, anc: []int{1}},
		{id: "sibling", taxon: 3, anc: []int{1}},
	}
	src := &memSource{docs: docs}
	e := New[entity](src, taxonVariant(), nil, nil)

	res, err := e.Run(context.Background(), ref(docs[0]), equivalence.NewOptions(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.queries) != 1 {
		t.Errorf("levels run = %d, want 1", len(src.queries))
	}
	if len(res.Buckets) != 4 || !slices.Equal(bucketIDs(res)[0], []string{"sibling"}) {
		t.Errorf("buckets = %v", bucketIDs(res))
	}
}

// ternaryTree numbers a complete ternary tree breadth first from root 1 and
// places one entity on every non-root node.
func ternaryTree(depth int) []entity {
	size := 1
	for level, width := 1, 1; level <= depth; level++ {
		width *= 3
		size += width
	}
	chains := map[int][]int{1: {}}
	var docs []entity
	for n := 2; n <= size; n++ {
		parent := (n-2)/3 + 1
		chain := append(slices.Clone(chains[parent]), parent)
		chains[n] = chain
		docs = append(docs, entity{
			id:       "e" + strconv.Itoa(n),
			taxon:    n,
			anc:      chain,
			key:      "K" + strconv.Itoa(n%2),
			observed: n%4 != 0,
		})
	}
	return docs
}

func TestRun_BucketsAreDisjointAndDepthBounded(t *testing.T) {
	docs := ternaryTree(5)
	variants := []Variant[entity]{taxonVariant(), proteinVariant()}

	for _, v := range variants {
		e := New[entity](&memSource{docs: docs}, v, nil, nil)
		for _, idx := range []int{len(docs) - 1, len(docs) / 2, 10} {
			r := ref(docs[idx])
			for maxDistance := 1; maxDistance <= 6; maxDistance++ {
				for _, maxDepth := range []int{1, 2, 3, equivalence.Unbounded} {
					opts := equivalence.Options{MaxDistance: maxDistance, MaxDepth: maxDepth}
					res, err := e.Run(context.Background(), r, opts)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					seen := map[string]bool{}
					for _, b := range res.Buckets {
						for _, m := range b.Documents {
							if seen[m.Item.id] {
								t.Fatalf("%s %s d=%d: %s in two buckets", v.Name, r.Item.id, maxDistance, m.Item.id)
							}
							seen[m.Item.id] = true
							if m.Depth < 1 || m.Depth > maxDepth {
								t.Errorf("depth %d outside [1,%d]", m.Depth, maxDepth)
							}
						}
					}
				}
			}
		}
	}
}

func TestRun_Monotone(t *testing.T) {
	docs := ternaryTree(5)
	e := New[entity](&memSource{docs: docs}, taxonVariant(), nil, nil)
	r := ref(docs[len(docs)-1])

	prev, err := e.Run(context.Background(), r, equivalence.NewOptions(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for d := 2; d <= 6; d++ {
		next, err := e.Run(context.Background(), r, equivalence.NewOptions(d))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, n := bucketIDs(prev), bucketIDs(next)
		for i := range p {
			if !slices.Equal(p[i], n[i]) {
				t.Errorf("d=%d changed bucket %d: %v -> %v", d, i, p[i], n[i])
			}
		}
		prev = next
	}
}
