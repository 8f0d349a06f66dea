package relation

// Close expands base into its transitive closure by iterated composition.
//
// The algorithm runs full passes over a snapshot of the list taken at the
// start of each pass: two pairs (u, v) and (y, w) compose into (u, w) when
// v == y, the result is not a self-loop (u != w), and the two operands are
// not literally the same pair. Pairs appended during a pass only become
// composition operands in the next pass, which affects how fast the fixed
// point is reached but not what it is. Duplicate suppression checks the full
// current list, so the result never holds the same pair twice.
//
// The loop terminates once a pass adds nothing: the list is bounded by N²
// distinct pairs and every pass either grows it or is the last. The naive
// O(passes · |R|² · |R|) cost is deliberate; graphs are small and the
// straightforward form keeps the fixed-point structure obvious.
//
// The returned list is a superset of base with base forming its prefix, so
// callers can recover the original pairs as closure[:len(base)]. base itself
// is not modified.
func Close(base List) List {
	out := make(List, len(base), len(base)*2)
	copy(out, base)

	for changed := true; changed; {
		changed = false
		snapshot := len(out)

		for i := 0; i < snapshot; i++ {
			u, v := out[i].Src, out[i].Dst
			for j := 0; j < snapshot; j++ {
				y, w := out[j].Src, out[j].Dst
				if v != y || u == w {
					continue
				}
				if u == y && v == w {
					// Composing a pair with itself only re-derives it.
					continue
				}
				if p := (Pair{Src: u, Dst: w}); !out.Contains(p) {
					out = append(out, p)
					changed = true
				}
			}
		}
	}
	return out
}

// IsClosed reports whether the list is already transitively closed, i.e.
// running Close on it would add no pairs.
func IsClosed(l List) bool {
	for _, a := range l {
		for _, b := range l {
			if a.Dst != b.Src || a.Src == b.Dst {
				continue
			}
			if a == b {
				continue
			}
			if !l.Reaches(a.Src, b.Dst) {
				return false
			}
		}
	}
	return true
}
