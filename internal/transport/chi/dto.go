package chi

import (
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// TaxonResponse is the wire form of a taxon node.
type TaxonResponse struct {
	ID            int      `json:"tax_id"`
	Name          string   `json:"tax_name"`
	Rank          string   `json:"rank,omitempty"`
	AncestorIDs   []int    `json:"ancestor_taxon_ids"`
	AncestorNames []string `json:"ancestor_names"`
}

func taxonToResponse(n domtaxon.Node) TaxonResponse {
	return TaxonResponse{
		ID:            n.ID(),
		Name:          n.Name(),
		Rank:          string(n.Rank()),
		AncestorIDs:   nonNil(n.AncestorIDs()),
		AncestorNames: nonNil(n.AncestorNames()),
	}
}

func proteinToResponse(p domprotein.Protein) domprotein.Protein { return p }

// MatchResponse is one document in an equivalence bucket. Depth is the
// number of levels below the bucket's common ancestor, 0 for the reference.
type MatchResponse[T any] struct {
	Document T   `json:"document"`
	Depth    int `json:"depth"`
}

// BucketResponse holds the documents at one distance.
type BucketResponse[T any] struct {
	Distance  int                `json:"distance"`
	Documents []MatchResponse[T] `json:"documents"`
}

// EquivalenceResponse is the body of the equivalents endpoints. Non-OK
// outcomes keep status 200 and report a single sentinel bucket with a
// negative distance.
type EquivalenceResponse[T any] struct {
	Status  string              `json:"status"`
	Buckets []BucketResponse[T] `json:"buckets"`
}

func equivalenceToResponse[T, R any](res equivalence.Result[T], conv func(T) R) EquivalenceResponse[R] {
	buckets := res.Sentinel()
	out := EquivalenceResponse[R]{
		Status:  res.Status.String(),
		Buckets: make([]BucketResponse[R], len(buckets)),
	}
	for i, b := range buckets {
		docs := make([]MatchResponse[R], len(b.Documents))
		for j, m := range b.Documents {
			docs[j] = MatchResponse[R]{Document: conv(m.Item), Depth: m.Depth}
		}
		out.Buckets[i] = BucketResponse[R]{Distance: b.Distance, Documents: docs}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
