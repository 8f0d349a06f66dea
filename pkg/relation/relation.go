package relation

// Pair is a directed connection between two locations, identified by their
// integer indices. A Pair (u, v) means v is reachable from u, either directly
// (base pairs built from the adjacency matrix) or transitively (pairs derived
// during closure computation).
type Pair struct {
	Src int
	Dst int
}

// List is an ordered sequence of pairs. Insertion order carries no meaning
// beyond being stable: duplicate checks and path reconstruction rely on it
// to make results reproducible across runs on identical input.
//
// A List produced by this package never contains the same pair twice.
type List []Pair

// Contains reports whether p is present in the list.
// Lookup is a linear scan; lists stay small at the intended graph sizes.
func (l List) Contains(p Pair) bool {
	for _, q := range l {
		if q == p {
			return true
		}
	}
	return false
}

// Reaches reports whether the list records a connection src → dst.
func (l List) Reaches(src, dst int) bool {
	return l.Contains(Pair{Src: src, Dst: dst})
}

// Matrix is the read-only adjacency matrix view the builder consumes.
// Cell (i, j) == 1 means a direct connection i → j. The matrix is owned by
// the caller and is never mutated here.
type Matrix interface {
	// Size returns the dimension N of the N×N matrix.
	Size() int
	// At returns the cell value at row i, column j, either 0 or 1.
	At(i, j int) int
}

// FromMatrix converts a dense adjacency matrix into the list of its direct
// pairs, scanning cells in row-major order. Every 1-cell contributes exactly
// one pair, so no duplicate suppression is needed. An all-zero matrix yields
// an empty list, which is a valid (edgeless) relation.
func FromMatrix(m Matrix) List {
	n := m.Size()
	var pairs List
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) == 1 {
				pairs = append(pairs, Pair{Src: i, Dst: j})
			}
		}
	}
	return pairs
}
