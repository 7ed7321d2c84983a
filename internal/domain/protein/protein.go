package protein

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Namespace identifies an orthology group key namespace.
type Namespace string

// Supported group namespaces.
const (
	// NamespaceKEGG keys are KEGG orthology ids, stored upper case (K00001).
	NamespaceKEGG Namespace = "kegg"
	// NamespaceOrthoDB keys are OrthoDB group ids, stored lower case.
	NamespaceOrthoDB Namespace = "orthodb"
)

// ParseNamespace validates a namespace name.
func ParseNamespace(s string) (Namespace, error) {
	switch ns := Namespace(strings.ToLower(strings.TrimSpace(s))); ns {
	case NamespaceKEGG, NamespaceOrthoDB:
		return ns, nil
	case "ko":
		return NamespaceKEGG, nil
	default:
		return "", fmt.Errorf("unknown group namespace %q", s)
	}
}

// Normalize returns the stored form of a group key in this namespace.
// Blank keys and the literal "nan" left by upstream loaders normalize to "".
func (ns Namespace) Normalize(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || strings.EqualFold(key, "nan") {
		return ""
	}
	if ns == NamespaceOrthoDB {
		return strings.ToLower(key)
	}
	return strings.ToUpper(key)
}

// Abundance is a single protein abundance measurement.
type Abundance struct {
	Organ     string  `json:"organ,omitempty"`
	Abundance float64 `json:"abundance"`
}

// Protein is a protein record with its taxonomic placement.
// AbuExist marks observational data; an observed protein may still carry an
// empty Abundances list.
type Protein struct {
	UniprotID        string          `json:"uniprot_id"`
	EntryName        string          `json:"entry_name,omitempty"`
	ProteinName      string          `json:"protein_name,omitempty"`
	GeneName         string          `json:"gene_name,omitempty"`
	KONumber         string          `json:"ko_number,omitempty"`
	KONames          []string        `json:"ko_name,omitempty"`
	OrthoDBID        string          `json:"orthodb_id,omitempty"`
	OrthoDBName      string          `json:"orthodb_name,omitempty"`
	TaxonID          int             `json:"ncbi_taxonomy_id"`
	SpeciesName      string          `json:"species_name,omitempty"`
	AncestorIDs      []int           `json:"ancestor_taxon_id,omitempty"`
	AncestorNames    []string        `json:"ancestor_name,omitempty"`
	CanonAncestorIDs []int           `json:"canon_anc_ids,omitempty"`
	CanonAncestors   []string        `json:"canon_anc_names,omitempty"`
	Length           int             `json:"length,omitempty"`
	Mass             float64         `json:"mass,omitempty"`
	Abundances       []Abundance     `json:"abundances"`
	AbuExist         bool            `json:"abu_exist,omitempty"`
	Modifications    json.RawMessage `json:"modifications,omitempty"`
	Kinetics         json.RawMessage `json:"kinetics,omitempty"`
}

// HasAbundances reports whether the protein carries observational data.
// The abu_exist marker is set whenever the abundances key is present, an
// empty list included, and is the same flag the store filters on.
func (p *Protein) HasAbundances() bool { return p.AbuExist }

// GroupKey returns the protein's key in the namespace, "" when absent.
func (p *Protein) GroupKey(ns Namespace) string {
	if ns == NamespaceOrthoDB {
		return p.OrthoDBID
	}
	return p.KONumber
}

// GroupNames returns the group description in the namespace.
func (p *Protein) GroupNames(ns Namespace) []string {
	if ns == NamespaceOrthoDB {
		if p.OrthoDBName == "" {
			return nil
		}
		return []string{p.OrthoDBName}
	}
	return p.KONames
}

// Kinetics is the kinetic law summary of a protein.
type Kinetics struct {
	UniprotID        string          `json:"uniprot_id"`
	TaxonID          int             `json:"ncbi_taxonomy_id"`
	SimilarFunctions json.RawMessage `json:"similar_functions,omitempty"`
}

// NameHit is a protein matched by name search.
type NameHit struct {
	UniprotID   string `json:"uniprot_id"`
	ProteinName string `json:"protein_name"`
}

// Query selects proteins. Zero-valued fields do not constrain the result.
type Query struct {
	UniprotIDs []string
	TaxonIDs   []int
	Namespace  Namespace
	GroupKey   string // compared after Namespace.Normalize
	Text       string // full-text over names; quote for a phrase
	// WithinLineage requires every id to appear in the ancestor chain.
	WithinLineage []int
	// OutsideLineage rejects proteins whose taxon or any ancestor is listed.
	OutsideLineage []int
	Observed       bool
	Offset         int
	Limit          int // zero streams every match
}

// Normalized returns a copy with the group key in stored form.
// A namespace without a usable key is rejected.
func (q Query) Normalized() (Query, error) {
	if q.Namespace == "" {
		if q.GroupKey != "" {
			return q, fmt.Errorf("group key %q given without a namespace", q.GroupKey)
		}
		return q, nil
	}
	key := q.Namespace.Normalize(q.GroupKey)
	if key == "" {
		return q, fmt.Errorf("empty %s group key", q.Namespace)
	}
	q.GroupKey = key
	return q, nil
}
