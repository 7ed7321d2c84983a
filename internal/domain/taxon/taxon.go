package taxon

import (
	"fmt"
	"slices"
)

// Rank is a taxonomic rank.
type Rank string

// Ranks reported by the query layer. Everything else collapses to RankOther.
const (
	RankSpecies Rank = "species"
	RankGenus   Rank = "genus"
	RankFamily  Rank = "family"
	RankOrder   Rank = "order"
	RankClass   Rank = "class"
	RankPhylum  Rank = "phylum"
	RankKingdom Rank = "kingdom"
	RankOther   Rank = "+"
)

var knownRanks = map[Rank]bool{
	RankSpecies: true, RankGenus: true, RankFamily: true, RankOrder: true,
	RankClass: true, RankPhylum: true, RankKingdom: true,
}

// ParseRank maps a stored rank to a Rank, collapsing unlisted ranks to RankOther.
func ParseRank(s string) Rank {
	r := Rank(s)
	if knownRanks[r] {
		return r
	}
	return RankOther
}

// Node is a taxonomic node with its ancestor chain (immutable value object).
// Chains are ordered root first, parent last.
type Node struct {
	id            int
	name          string
	rank          Rank
	ancestorIDs   []int
	ancestorNames []string
	canonIDs      []int
	canonNames    []string
}

// New validates and creates a Node.
func New(id int, name string, rank Rank, ancestorIDs []int, ancestorNames []string) (Node, error) {
	if len(ancestorIDs) != len(ancestorNames) {
		return Node{}, fmt.Errorf(
			"taxon %d: %d ancestor ids but %d ancestor names", id, len(ancestorIDs), len(ancestorNames))
	}
	if slices.Contains(ancestorIDs, id) {
		return Node{}, fmt.Errorf("taxon %d appears in its own ancestor chain", id)
	}
	return Node{
		id:            id,
		name:          name,
		rank:          rank,
		ancestorIDs:   ancestorIDs,
		ancestorNames: ancestorNames,
	}, nil
}

// WithCanonical returns a copy carrying the canonical-rank ancestor chain.
func (n Node) WithCanonical(ids []int, names []string) Node {
	n.canonIDs = ids
	n.canonNames = names
	return n
}

// ID returns the taxonomy identifier.
func (n Node) ID() int { return n.id }

// Name returns the scientific name.
func (n Node) Name() string { return n.name }

// Rank returns the rank.
func (n Node) Rank() Rank { return n.rank }

// AncestorIDs returns the ancestor ids, root first.
func (n Node) AncestorIDs() []int { return n.ancestorIDs }

// AncestorNames returns the ancestor names, parallel to AncestorIDs.
func (n Node) AncestorNames() []string { return n.ancestorNames }

// CanonicalAncestorIDs returns ancestors restricted to canonical ranks.
func (n Node) CanonicalAncestorIDs() []int { return n.canonIDs }

// CanonicalAncestorNames returns names parallel to CanonicalAncestorIDs.
func (n Node) CanonicalAncestorNames() []string { return n.canonNames }

// Path returns the ancestor ids followed by the node's own id.
func (n Node) Path() []int {
	return append(slices.Clone(n.ancestorIDs), n.id)
}

// NamePath returns the ancestor names followed by the node's own name.
func (n Node) NamePath() []string {
	return append(slices.Clone(n.ancestorNames), n.name)
}

// NameOf returns the name of the node or one of its ancestors.
func (n Node) NameOf(id int) (string, bool) {
	if id == n.id {
		return n.name, true
	}
	i := slices.Index(n.ancestorIDs, id)
	if i < 0 {
		return "", false
	}
	return n.ancestorNames[i], true
}
