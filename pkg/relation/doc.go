// Package relation implements the reachability core: building a pair list
// from a dense adjacency matrix, expanding it to its transitive closure by
// fixed-point composition, and reconstructing one concrete path for a
// single-pair query.
//
// Data flows strictly forward: matrix → pair list → closure → path. The
// package has no I/O; matrix parsing, console output, and serialization are
// collaborators (pkg/matrix, pkg/render, pkg/graph).
//
// # Usage
//
//	m, _ := matrix.ReadFile("cities.txt")
//	base := relation.FromMatrix(m)
//	closure := relation.Close(base)
//	path, err := relation.FindPath(closure, base, 0, 2)
//	if errors.Is(err, relation.ErrNoRoute) {
//	    // normal outcome: the two locations are not connected
//	}
//
// # Invariants
//
// Lists produced here never contain a duplicate pair. A closure is a
// superset of its base list with the base as prefix, is closed under
// transitivity, and gains no self-loops from composition. Paths use base
// pairs only and never revisit a location.
//
// All operations are synchronous and single-threaded; the intended graphs
// are small enough that the naive fixed-point algorithm completes quickly.
package relation
