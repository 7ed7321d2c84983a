package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

type taxonOut struct {
	TaxID int    `json:"tax_id"`
	Name  string `json:"tax_name"`
	Rank  string `json:"rank"`
	Depth int    `json:"depth"`
}

type proteinOut struct {
	domprotein.Protein
	Depth int `json:"depth"`
}

type bucketOut[O any] struct {
	Distance  int `json:"distance"`
	Documents []O `json:"documents"`
}

type resultOut[O any] struct {
	Status  string         `json:"status"`
	Buckets []bucketOut[O] `json:"buckets"`
}

// toResultOut renders a search result. Non-OK outcomes keep their sentinel bucket.
func toResultOut[T, O any](res equivalence.Result[T], conv func(equivalence.Match[T]) O) resultOut[O] {
	src := res.Sentinel()
	out := resultOut[O]{Status: res.Status.String(), Buckets: make([]bucketOut[O], len(src))}
	for i, b := range src {
		docs := make([]O, len(b.Documents))
		for j, m := range b.Documents {
			docs[j] = conv(m)
		}
		out.Buckets[i] = bucketOut[O]{Distance: b.Distance, Documents: docs}
	}
	return out
}

func taxonMatch(m equivalence.Match[domtaxon.Node]) taxonOut {
	return taxonOut{TaxID: m.Item.ID(), Name: m.Item.Name(), Rank: string(m.Item.Rank()), Depth: m.Depth}
}

func proteinMatch(m equivalence.Match[domprotein.Protein]) proteinOut {
	return proteinOut{Protein: m.Item, Depth: m.Depth}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
