package observation

import "encoding/json"

// Entity and value types used by half-life queries.
const (
	EntityProtein = "protein"
	ValueHalfLife = "half-life"
)

// Identifier names an entity in an external namespace.
type Identifier struct {
	Namespace string `json:"namespace"`
	Value     string `json:"value"`
}

// Entity is the observed entity.
type Entity struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Value is a single observed quantity.
type Value struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Units string  `json:"units,omitempty"`
}

// Observation is a measurement of an entity under a genotype.
type Observation struct {
	ID         string          `json:"id"`
	Identifier Identifier      `json:"identifier"`
	Entity     Entity          `json:"entity"`
	Values     []Value         `json:"values"`
	Genotype   json.RawMessage `json:"genotype,omitempty"`
	Source     json.RawMessage `json:"source,omitempty"`
}

// Query selects observations of one identified entity.
type Query struct {
	Identifier Identifier
	EntityType string
	ValueType  string
	Skip       int
	Limit      int
}
