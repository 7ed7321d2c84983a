package rna

import "encoding/json"

// HalfLife is one RNA half-life measurement.
type HalfLife struct {
	OrderedLocusName string          `json:"ordered_locus_name,omitempty"`
	Value            float64         `json:"halflife,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	TaxonID          int             `json:"ncbi_taxonomy_id,omitempty"`
	SpeciesName      string          `json:"species_name,omitempty"`
	Reference        json.RawMessage `json:"reference,omitempty"`
}

// Record is an RNA half-life document keyed by its protein product.
type Record struct {
	UniprotID    string     `json:"uniprot_id"`
	ProteinNames []string   `json:"protein_names,omitempty"`
	GeneName     string     `json:"gene_name,omitempty"`
	KONumber     string     `json:"ko_number,omitempty"`
	OrthoDBID    string     `json:"orthodb_id,omitempty"`
	HalfLives    []HalfLife `json:"halflives"`
}

// OrderedLocusNames returns the locus names referenced by the record's measurements.
func (r *Record) OrderedLocusNames() []string {
	names := make([]string, 0, len(r.HalfLives))
	for _, h := range r.HalfLives {
		if h.OrderedLocusName != "" {
			names = append(names, h.OrderedLocusName)
		}
	}
	return names
}

// Field names a lookup key of RNA records.
type Field string

// Lookup fields.
const (
	FieldOrderedLocusName Field = "ordered_locus_name"
	FieldProteinName      Field = "protein_name"
	FieldKONumber         Field = "ko_number"
	FieldOrthoDBID        Field = "orthodb_id"
)

// Lookup selects one page of records whose Field equals Value, ignoring case.
// Size zero returns every record from From on.
type Lookup struct {
	Field Field
	Value string
	From  int
	Size  int
}

// Page is a window of records with the total match count.
type Page struct {
	Items []Record `json:"items"`
	Total int      `json:"total"`
}
