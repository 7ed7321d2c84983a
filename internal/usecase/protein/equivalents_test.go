package protein

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

func bucketIDs(res equivalence.Result[domprotein.Protein]) [][]string {
	out := make([][]string, len(res.Buckets))
	for i, b := range res.Buckets {
		out[i] = []string{}
		for _, m := range b.Documents {
			out[i] = append(out[i], m.Item.UniprotID)
		}
	}
	return out
}

func assertBuckets(t *testing.T, got, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("buckets = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEquivalents(t *testing.T) {
	svc, repo, _ := newTestService(t, exampleProteins())

	res, err := svc.Equivalents(context.Background(), domprotein.NamespaceKEGG, "p0", equivalence.NewOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != equivalence.StatusOK {
		t.Fatalf("status = %v", res.Status)
	}
	assertBuckets(t, bucketIDs(res), [][]string{{}, {"P8"}, {"P9"}})
	if res.Buckets[1].Documents[0].Depth != 3 || res.Buckets[2].Documents[0].Depth != 1 {
		t.Errorf("depths = %d, %d", res.Buckets[1].Documents[0].Depth, res.Buckets[2].Documents[0].Depth)
	}

	q := repo.lastQuery()
	if q.GroupKey != "K1" || !q.Observed || !slices.Equal(q.WithinLineage, []int{5, 4, 3}) ||
		!slices.Equal(q.OutsideLineage, []int{0, 1, 2}) {
		t.Errorf("last level query = %+v", q)
	}
}

func TestEquivalents_WithAnchor(t *testing.T) {
	svc, _, _ := newTestService(t, exampleProteins())

	res, err := svc.EquivalentsWithAnchor(context.Background(), domprotein.NamespaceKEGG, "P0", equivalence.NewOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBuckets(t, bucketIDs(res), [][]string{{"P0"}, {}, {"P8"}})
	if res.Buckets[0].Distance != 0 || res.Buckets[0].Documents[0].Depth != 0 {
		t.Errorf("anchor bucket = %+v", res.Buckets[0])
	}
}

func TestEquivalents_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want equivalence.Status
	}{
		{"missing reference", "PX", equivalence.StatusReferenceNotFound},
		{"no group key", "PN", equivalence.StatusNoGroupKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t, exampleProteins())
			res, err := svc.Equivalents(context.Background(), domprotein.NamespaceKEGG, tt.id, equivalence.NewOptions(2))
			if err != nil {
				t.Fatalf("business outcomes are not errors: %v", err)
			}
			if res.Status != tt.want {
				t.Errorf("status = %v, want %v", res.Status, tt.want)
			}
		})
	}
}

func TestEquivalents_Errors(t *testing.T) {
	svc, repo, _ := newTestService(t, exampleProteins())
	ctx := context.Background()

	if _, err := svc.Equivalents(ctx, "interpro", "P0", equivalence.NewOptions(2)); !errors.Is(err, domain.ErrUnknownNamespace) {
		t.Errorf("err = %v, want ErrUnknownNamespace", err)
	}
	if _, err := svc.Equivalents(ctx, domprotein.NamespaceKEGG, "P0", equivalence.NewOptions(0)); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}

	repo.getErr = errors.New("connection reset")
	if _, err := svc.Equivalents(ctx, domprotein.NamespaceKEGG, "P0", equivalence.NewOptions(2)); !errors.Is(err, repo.getErr) {
		t.Errorf("err = %v, want store error", err)
	}
}

func TestEquivalents_OrthoDB(t *testing.T) {
	proteins := exampleProteins()
	proteins[0].OrthoDBID = "1at2"
	proteins[1].OrthoDBID = "1at2"
	proteins[3].OrthoDBID = "2at2"
	svc, repo, _ := newTestService(t, proteins)

	res, err := svc.Equivalents(context.Background(), "orthodb", "P0", equivalence.NewOptions(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBuckets(t, bucketIDs(res), [][]string{{}, {"P8"}, {}})
	if q := repo.lastQuery(); q.Namespace != domprotein.NamespaceOrthoDB || q.GroupKey != "1at2" {
		t.Errorf("query = %+v", q)
	}
}

func TestEquivalentsMany(t *testing.T) {
	svc, _, _ := newTestService(t, exampleProteins())

	results, err := svc.EquivalentsMany(context.Background(), domprotein.NamespaceKEGG,
		[]string{"P0", "PX", "PN", "P9"}, equivalence.NewOptions(3), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []equivalence.Status{
		equivalence.StatusOK, equivalence.StatusReferenceNotFound,
		equivalence.StatusNoGroupKey, equivalence.StatusOK,
	}
	for i, res := range results {
		if res.Status != want[i] {
			t.Errorf("results[%d].Status = %v, want %v", i, res.Status, want[i])
		}
	}
	assertBuckets(t, bucketIDs(results[0]), [][]string{{}, {"P8"}, {"P9"}})
}

func TestEquivalentsMany_Error(t *testing.T) {
	svc, repo, _ := newTestService(t, exampleProteins())
	repo.eachErr = errors.New("timeout")

	_, err := svc.EquivalentsMany(context.Background(), domprotein.NamespaceKEGG,
		[]string{"P0", "P8"}, equivalence.NewOptions(2), 4)
	if !errors.Is(err, repo.eachErr) {
		t.Errorf("err = %v, want store error", err)
	}
}

var enterobacteria = []string{"Bacteria", "Proteobacteria", "Enterobacterales", "Enterobacteriaceae", "Escherichia"}

func canonProtein(id string, taxon int, species string, canon []string, abundances []domprotein.Abundance) domprotein.Protein {
	return domprotein.Protein{
		UniprotID:      id,
		OrthoDBID:      "1at2",
		TaxonID:        taxon,
		SpeciesName:    species,
		CanonAncestors: canon,
		Abundances:     abundances,
		AbuExist:       abundances != nil,
	}
}

func canonTaxonomy(t *testing.T, taxa *mockTaxonomy) {
	t.Helper()
	for id, name := range map[int]string{562: "Escherichia coli", 565: "Escherichia hermannii"} {
		n, err := domtaxon.New(id, name, domtaxon.RankSpecies, []int{2, 561}, []string{"Bacteria", "Escherichia"})
		if err != nil {
			t.Fatalf("domtaxon.New: %v", err)
		}
		taxa.nodes[id] = n.WithCanonical([]int{2, 1224, 91347, 543, 561}, enterobacteria)
	}
}

func canonIDs(buckets []CanonicalBucket) [][]string {
	out := make([][]string, len(buckets))
	for i, b := range buckets {
		out[i] = []string{}
		for _, d := range b.Documents {
			out[i] = append(out[i], d.UniprotID)
		}
	}
	return out
}

func TestCanonicalDistances(t *testing.T) {
	salmonella := []string{"Bacteria", "Proteobacteria", "Enterobacterales", "Enterobacteriaceae", "Salmonella"}
	proteins := []domprotein.Protein{
		canonProtein("A", 562, "Escherichia coli", enterobacteria, observed(1)),
		canonProtein("B", 564, "Escherichia fergusonii", enterobacteria, observed(1)),
		canonProtein("C", 28901, "Salmonella enterica", salmonella, observed(1)),
		canonProtein("D", 9606, "Homo sapiens", []string{"Eukaryota", "Homo"}, observed(1)),
		canonProtein("E", 565, "", nil, observed(1)),
		canonProtein("F", 562, "Escherichia coli", enterobacteria, nil),
		canonProtein("G", 564, "Escherichia fergusonii", enterobacteria, observed(2)),
	}

	tests := []struct {
		maxDistance int
		want        [][]string
	}{
		{1, [][]string{{"A"}, {"B", "E", "G"}}},
		{3, [][]string{{"A"}, {"B", "E", "G"}, {"C"}, {}}},
	}
	for _, tt := range tests {
		svc, _, taxa := newTestService(t, proteins)
		canonTaxonomy(t, taxa)

		buckets, err := svc.CanonicalDistances(context.Background(), domprotein.NamespaceOrthoDB, "1AT2", "escherichia coli", tt.maxDistance)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertBuckets(t, canonIDs(buckets), tt.want)
		for i, b := range buckets {
			if b.Distance != i {
				t.Errorf("bucket %d distance = %d", i, b.Distance)
			}
		}
		if got := buckets[1].Documents[1].CanonicalAncestors; !slices.Equal(got, enterobacteria) {
			t.Errorf("resolved canonical chain = %v", got)
		}
		if taxa.nodeCalls != 1 {
			t.Errorf("taxonomy lookups = %d, want 1", taxa.nodeCalls)
		}
	}
}

func TestCanonicalDistances_Errors(t *testing.T) {
	svc, _, taxa := newTestService(t, nil)
	canonTaxonomy(t, taxa)
	ctx := context.Background()

	if _, err := svc.CanonicalDistances(ctx, domprotein.NamespaceKEGG, "K1", "Escherichia coli", 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.CanonicalDistances(ctx, domprotein.NamespaceKEGG, "nan", "Escherichia coli", 2); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument for blank key", err)
	}
	if _, err := svc.CanonicalDistances(ctx, domprotein.NamespaceKEGG, "K1", "Homo sapiens", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for unknown anchor", err)
	}
}

func TestProximity(t *testing.T) {
	proteins := []domprotein.Protein{
		prot("P0", "K1", 0, []int{5, 4, 3, 2, 1}, observed(1)),
		prot("Q1", "K1", 1, []int{5, 4, 3, 2}, observed(1)),
		prot("Q2", "K2", 2, []int{5, 4, 3}, observed(1)),
		prot("Q3", "K1", 3, []int{5, 4}, nil),
		prot("Q4", "K1", 4, []int{5}, observed(1)),
	}
	svc, repo, _ := newTestService(t, proteins)

	buckets, err := svc.Proximity(context.Background(), "P0", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([][]string, len(buckets))
	for i, b := range buckets {
		got[i] = ids(b.Documents)
		if b.Distance != i+1 {
			t.Errorf("bucket %d distance = %d", i, b.Distance)
		}
		if !slices.Equal(b.AncestorNames, []string{"n3", "n2", "n1"}) {
			t.Errorf("ancestor names = %v", b.AncestorNames)
		}
	}
	assertBuckets(t, got, [][]string{{"Q1"}, {}, {"Q3"}})

	if q := repo.lastQuery(); !slices.Equal(q.TaxonIDs, []int{3, 2, 1}) || q.GroupKey != "K1" {
		t.Errorf("query = %+v", q)
	}
}

func TestProximity_Errors(t *testing.T) {
	svc, _, _ := newTestService(t, exampleProteins())
	ctx := context.Background()

	if _, err := svc.Proximity(ctx, "PN", 2); !errors.Is(err, domain.ErrNoGroupKey) {
		t.Errorf("err = %v, want ErrNoGroupKey", err)
	}
	if _, err := svc.Proximity(ctx, "PX", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Proximity(ctx, "P0", 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}
