package protein

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/bioquery/internal/domain"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// --- Mocks ---

// memRepo evaluates protein queries over an in-memory collection.
type memRepo struct {
	mu       sync.Mutex
	proteins []domprotein.Protein
	queries  []domprotein.Query
	eachErr  error
	getErr   error
}

func (m *memRepo) Get(_ context.Context, id string) (domprotein.Protein, error) {
	if m.getErr != nil {
		return domprotein.Protein{}, m.getErr
	}
	for _, p := range m.proteins {
		if strings.EqualFold(p.UniprotID, id) {
			return p, nil
		}
	}
	return domprotein.Protein{}, domain.NewNotFound("protein", id)
}

func (m *memRepo) Each(_ context.Context, q domprotein.Query, fn func(domprotein.Protein) error) error {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.eachErr != nil {
		return m.eachErr
	}
	q, err := q.Normalized()
	if err != nil {
		return domain.InvalidArgument("%v", err)
	}
	for _, p := range m.proteins {
		if !matches(p, q) {
			continue
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *memRepo) List(ctx context.Context, q domprotein.Query) ([]domprotein.Protein, error) {
	out := []domprotein.Protein{}
	err := m.Each(ctx, q, func(p domprotein.Protein) error {
		out = append(out, p)
		return nil
	})
	return out, err
}

func (m *memRepo) Count(ctx context.Context, q domprotein.Query) (int, error) {
	out, err := m.List(ctx, q)
	return len(out), err
}

func (m *memRepo) UniqueProteins(context.Context) (int, error) { return len(m.proteins), nil }

func (m *memRepo) UniqueOrganisms(context.Context) (int, error) {
	seen := map[int]bool{}
	for _, p := range m.proteins {
		seen[p.TaxonID] = true
	}
	return len(seen), nil
}

func (m *memRepo) lastQuery() domprotein.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[len(m.queries)-1]
}

func matches(p domprotein.Protein, q domprotein.Query) bool {
	if len(q.UniprotIDs) > 0 && !slices.ContainsFunc(q.UniprotIDs, func(id string) bool {
		return strings.EqualFold(id, p.UniprotID)
	}) {
		return false
	}
	if len(q.TaxonIDs) > 0 && !slices.Contains(q.TaxonIDs, p.TaxonID) {
		return false
	}
	if q.Namespace != "" && p.GroupKey(q.Namespace) != q.GroupKey {
		return false
	}
	if q.Text != "" {
		text := strings.ToLower(strings.Trim(q.Text, `"`))
		if !strings.Contains(strings.ToLower(p.ProteinName), text) {
			return false
		}
	}
	for _, a := range q.WithinLineage {
		if !slices.Contains(p.AncestorIDs, a) {
			return false
		}
	}
	for _, x := range q.OutsideLineage {
		if p.TaxonID == x || slices.Contains(p.AncestorIDs, x) {
			return false
		}
	}
	if q.Observed && !p.HasAbundances() {
		return false
	}
	return true
}

type mockTaxonomy struct {
	nodes     map[int]domtaxon.Node
	nameIDs   []int
	nodeCalls int
}

func (m *mockTaxonomy) IDsByName(context.Context, string) ([]int, error) { return m.nameIDs, nil }

func (m *mockTaxonomy) Node(_ context.Context, id int) (domtaxon.Node, error) {
	m.nodeCalls++
	n, ok := m.nodes[id]
	if !ok {
		return domtaxon.Node{}, domain.NewNotFound("taxon", strconv.Itoa(id))
	}
	return n, nil
}

func (m *mockTaxonomy) NodeByName(_ context.Context, name string) (domtaxon.Node, error) {
	for _, n := range m.nodes {
		if strings.EqualFold(n.Name(), name) {
			return n, nil
		}
	}
	return domtaxon.Node{}, domain.NewNotFound("taxon", name)
}

// --- Fixtures ---

func observed(values ...float64) []domprotein.Abundance {
	out := make([]domprotein.Abundance, len(values))
	for i, v := range values {
		out[i] = domprotein.Abundance{Organ: "WHOLE_ORGANISM", Abundance: v}
	}
	return out
}

func prot(id, ko string, taxon int, anc []int, abundances []domprotein.Abundance) domprotein.Protein {
	names := make([]string, len(anc))
	for i, a := range anc {
		names[i] = "n" + strconv.Itoa(a)
	}
	p := domprotein.Protein{
		UniprotID:     id,
		ProteinName:   "protein " + id,
		KONumber:      ko,
		TaxonID:       taxon,
		SpeciesName:   "n" + strconv.Itoa(taxon),
		AncestorIDs:   anc,
		AncestorNames: names,
		Abundances:    abundances,
		AbuExist:      abundances != nil,
	}
	if ko != "" {
		p.KONames = []string{"name of " + ko}
	}
	return p
}

// exampleProteins places K1 proteins at taxa 0, 8 and 9 of the tree
// 0 under [5,4,3,2,1], 8 under [5,4,3,2,6,7], 9 under [5,4,3].
func exampleProteins() []domprotein.Protein {
	return []domprotein.Protein{
		prot("P0", "K1", 0, []int{5, 4, 3, 2, 1}, observed(1.5)),
		prot("P8", "K1", 8, []int{5, 4, 3, 2, 6, 7}, observed(2)),
		prot("P8x", "K2", 8, []int{5, 4, 3, 2, 6, 7}, observed(3)),
		prot("P9", "K1", 9, []int{5, 4, 3}, observed(4)),
		prot("P9u", "K1", 9, []int{5, 4, 3}, nil),
		prot("PN", "", 9, []int{5, 4, 3}, observed(5)),
	}
}

func newTestService(t *testing.T, proteins []domprotein.Protein) (*Service, *memRepo, *mockTaxonomy) {
	t.Helper()
	repo := &memRepo{proteins: proteins}
	taxa := &mockTaxonomy{nodes: map[int]domtaxon.Node{}}
	return New(repo, taxa, nil, nil), repo, taxa
}

func ids(ps []domprotein.Protein) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.UniprotID
	}
	return out
}
