package relation

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoRoute is returned by FindPath when the closure holds no connection
// from start to target. It is a normal query outcome, not a fault: callers
// report "no route" and continue.
var ErrNoRoute = errors.New("no route exists")

// Path is an ordered sequence of location indices. Consecutive elements are
// always joined by a direct (base) pair, the first element is the query's
// start, the last is its target, and no location repeats.
type Path []int

// contains reports whether the path already visits node.
func (p Path) contains(node int) bool {
	for _, n := range p {
		if n == node {
			return true
		}
	}
	return false
}

// String renders the path in the legacy arrow form, e.g. "0 => 1 => 2".
func (p Path) String() string {
	var b strings.Builder
	for i, n := range p {
		if i > 0 {
			b.WriteString(" => ")
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// FindPath reconstructs one concrete path from start to target.
//
// The closure acts purely as an existence oracle: if it lacks the pair
// (start, target), FindPath returns ErrNoRoute without walking anything.
// The walk itself uses only base pairs, since only those represent real
// direct connections rather than transitive shortcuts.
//
// The walk is greedy with no backtracking: from the path's last node it
// takes the first base pair in list order whose destination is not already
// on the path. List order makes the result deterministic but not shortest.
// When the greedy choice strands the walk at a node with no viable next
// pair, FindPath gives up with ErrNoRoute rather than trying alternatives;
// a route the closure promises can therefore occasionally go unreconstructed.
func FindPath(closure, base List, start, target int) (Path, error) {
	if !closure.Reaches(start, target) {
		return nil, ErrNoRoute
	}

	path := Path{start}
	for cur := start; cur != target; {
		advanced := false
		for _, p := range base {
			if p.Src != cur || path.contains(p.Dst) {
				continue
			}
			path = append(path, p.Dst)
			cur = p.Dst
			advanced = true
			break
		}
		if !advanced {
			// Greedy dead end: no unvisited destination leaves cur.
			return nil, ErrNoRoute
		}
	}
	return path, nil
}
