package taxon

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bioquery/internal/domain"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// nodeDoc is the stored JSON shape of a taxonomic node.
type nodeDoc struct {
	TaxID         int      `json:"tax_id"`
	TaxName       string   `json:"tax_name"`
	Rank          string   `json:"rank"`
	AncestorIDs   []int    `json:"anc_id"`
	AncestorNames []string `json:"anc_name"`
	CanonIDs      []int    `json:"canon_anc_ids"`
	CanonNames    []string `json:"canon_anc_names"`
}

// decodeNode hydrates a domain node from a stored document.
func decodeNode(raw []byte) (domtaxon.Node, error) {
	var d nodeDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domtaxon.Node{}, fmt.Errorf("%w: decode taxon: %w", domain.ErrCorruptDocument, err)
	}
	return d.toDomain()
}

func (d nodeDoc) toDomain() (domtaxon.Node, error) {
	n, err := domtaxon.New(d.TaxID, d.TaxName, domtaxon.ParseRank(d.Rank), d.AncestorIDs, d.AncestorNames)
	if err != nil {
		return domtaxon.Node{}, fmt.Errorf("%w: %w", domain.ErrCorruptDocument, err)
	}
	if len(d.CanonIDs) > 0 || len(d.CanonNames) > 0 {
		n = n.WithCanonical(d.CanonIDs, d.CanonNames)
	}
	return n, nil
}
