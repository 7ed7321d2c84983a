// Package grouping folds protein rows into orthology groups.
package grouping

import "encoding/json"

// Sentinels for rows that carry no group key or description.
const (
	NoNumber = "no number"
	NoName   = "no name"
)

// Shape selects how group members are represented.
type Shape int

const (
	// Members lists member ids in first-seen order.
	Members Shape = iota
	// Presence maps each member id to whether it carries observational data.
	Presence
)

// Row is one document feeding a group.
type Row struct {
	Key      string
	Names    []string
	MemberID string
	Observed bool
}

// Group is one orthology group.
type Group struct {
	Key      string
	Names    []string
	Members  []string
	Presence map[string]bool
	shape    Shape
}

// Shape returns the member representation of the group.
func (g Group) Shape() Shape { return g.shape }

// MarshalJSON renders members as a list or as an id to flag map.
func (g Group) MarshalJSON() ([]byte, error) {
	out := struct {
		Key     string   `json:"key"`
		Names   []string `json:"names"`
		Members any      `json:"members"`
	}{Key: g.Key, Names: g.Names, Members: g.Members}
	if g.shape == Presence {
		out.Members = g.Presence
	}
	return json.Marshal(out)
}

// ByKey folds rows into groups in first-seen order. Rows without a key join
// the NoNumber group, rows without names take []string{NoName}. The first
// row of a group fixes its names.
func ByKey(rows []Row, shape Shape) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range rows {
		key := r.Key
		if key == "" {
			key = NoNumber
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, newGroup(key, r.Names, shape))
		}
		groups[i].add(r)
	}
	return groups
}

// Single folds rows into one group with the given key. The last row with
// names sets the group names, NoName otherwise.
func Single(key string, rows []Row, shape Shape) Group {
	g := newGroup(key, nil, shape)
	for _, r := range rows {
		if len(r.Names) > 0 {
			g.Names = r.Names
		}
		g.add(r)
	}
	return g
}

func newGroup(key string, names []string, shape Shape) Group {
	if len(names) == 0 {
		names = []string{NoName}
	}
	g := Group{Key: key, Names: names, shape: shape}
	if shape == Presence {
		g.Presence = make(map[string]bool)
	} else {
		g.Members = []string{}
	}
	return g
}

func (g *Group) add(r Row) {
	if g.shape == Presence {
		g.Presence[r.MemberID] = r.Observed
		return
	}
	g.Members = append(g.Members, r.MemberID)
}
