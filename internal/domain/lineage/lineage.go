// Package lineage locates the nearest shared node of two hierarchical paths.
//
// A path is ordered root first, nearest last. Paths passed to Between include
// the node itself as the final element, so a node's distance to itself is 0.
package lineage

// Relation is the nearest common node of two paths and the edge count from
// each path's last element up to it.
type Relation[T comparable] struct {
	Common    T
	Distances [2]int
}

// Common returns the element of a nearest to its end that also occurs in b.
// Reports false when the sequences share nothing or either is empty.
func Common[T comparable](a, b []T) (T, bool) {
	_, _, v, ok := locate(a, b)
	return v, ok
}

// Between returns the nearest common node of two full paths along with each
// path's distance to it.
func Between[T comparable](a, b []T) (Relation[T], bool) {
	ia, ib, v, ok := locate(a, b)
	if !ok {
		return Relation[T]{}, false
	}
	return Relation[T]{
		Common:    v,
		Distances: [2]int{len(a) - 1 - ia, len(b) - 1 - ib},
	}, true
}

// Distance returns the edge count between the end of path and the element
// at idx.
func Distance[T any](path []T, idx int) int {
	return len(path) - 1 - idx
}

func locate[T comparable](a, b []T) (int, int, T, bool) {
	var zero T
	if len(a) == 0 || len(b) == 0 {
		return -1, -1, zero, false
	}

	pos := make(map[T]int, len(b))
	for i, v := range b {
		pos[v] = i
	}

	for i := len(a) - 1; i >= 0; i-- {
		if j, ok := pos[a[i]]; ok {
			return i, j, a[i], true
		}
	}
	return -1, -1, zero, false
}

// Extend returns chain followed by self in a fresh slice.
func Extend[T any](chain []T, self T) []T {
	path := make([]T, 0, len(chain)+1)
	path = append(path, chain...)
	return append(path, self)
}
