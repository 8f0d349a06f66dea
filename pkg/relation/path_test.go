package relation

import (
	"errors"
	"testing"
)

func TestFindPath(t *testing.T) {
	tests := []struct {
		name     string
		base     List
		start    int
		target   int
		wantPath Path
		wantErr  error
	}{
		{
			name:     "DirectPair",
			base:     List{{0, 1}},
			start:    0,
			target:   1,
			wantPath: Path{0, 1},
		},
		{
			name:     "TwoHops",
			base:     List{{0, 1}, {1, 2}},
			start:    0,
			target:   2,
			wantPath: Path{0, 1, 2},
		},
		{
			name:    "NoRoute",
			base:    List{{0, 1}, {2, 3}},
			start:   0,
			target:  3,
			wantErr: ErrNoRoute,
		},
		{
			name:    "ReversedDirection",
			base:    List{{0, 1}},
			start:   1,
			target:  0,
			wantErr: ErrNoRoute,
		},
		{
			name:     "ListOrderDecidesBranch",
			base:     List{{0, 1}, {0, 2}, {1, 3}, {2, 3}},
			start:    0,
			target:   3,
			wantPath: Path{0, 1, 3}, // (0,1) comes before (0,2)
		},
		{
			name:     "CycleDoesNotRevisit",
			base:     List{{0, 1}, {1, 0}, {1, 2}},
			start:    0,
			target:   2,
			wantPath: Path{0, 1, 2}, // (1,0) is skipped, 0 is already visited
		},
		{
			name:     "TrivialStartEqualsTarget",
			base:     List{{0, 0}},
			start:    0,
			target:   0,
			wantPath: Path{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closure := Close(tt.base)
			got, err := FindPath(closure, tt.base, tt.start, tt.target)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindPath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindPath() error = %v", err)
			}
			if len(got) != len(tt.wantPath) {
				t.Fatalf("FindPath() = %v, want %v", got, tt.wantPath)
			}
			for i := range got {
				if got[i] != tt.wantPath[i] {
					t.Fatalf("FindPath() = %v, want %v", got, tt.wantPath)
				}
			}
		})
	}
}

func TestFindPath_GreedyDeadEnd(t *testing.T) {
	// From 0 the walk greedily takes (0,1) first. Node 1 only leads back to
	// already-visited nodes, so the walk strands even though 0 → 2 → 3
	// exists. The greedy reconstruction gives up rather than backtracking.
	base := List{{0, 1}, {1, 0}, {0, 2}, {2, 3}}
	closure := Close(base)

	if !closure.Reaches(0, 3) {
		t.Fatal("closure should promise 0 → 3")
	}
	if _, err := FindPath(closure, base, 0, 3); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("FindPath() error = %v, want ErrNoRoute on greedy dead end", err)
	}
}

func TestFindPath_UsesOnlyBasePairs(t *testing.T) {
	// The closure contains the shortcut (0,2), but consecutive path nodes
	// must be joined by base pairs only.
	base := List{{0, 1}, {1, 2}}
	closure := Close(base)

	path, err := FindPath(closure, base, 0, 2)
	if err != nil {
		t.Fatalf("FindPath() error = %v", err)
	}
	for i := 0; i+1 < len(path); i++ {
		if !base.Reaches(path[i], path[i+1]) {
			t.Errorf("step %d → %d is not a base pair", path[i], path[i+1])
		}
	}
}

func TestFindPath_NoRepeatedNodes(t *testing.T) {
	base := List{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}}
	closure := Close(base)

	path, err := FindPath(closure, base, 0, 4)
	if err != nil {
		t.Fatalf("FindPath() error = %v", err)
	}
	seen := make(map[int]bool, len(path))
	for _, n := range path {
		if seen[n] {
			t.Fatalf("FindPath() = %v repeats node %d", path, n)
		}
		seen[n] = true
	}
	if path[0] != 0 || path[len(path)-1] != 4 {
		t.Fatalf("FindPath() = %v, want endpoints 0 and 4", path)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	base := List{{0, 2}, {0, 1}, {2, 3}, {1, 3}}
	closure := Close(base)

	first, err := FindPath(closure, base, 0, 3)
	if err != nil {
		t.Fatalf("FindPath() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := FindPath(closure, base, 0, 3)
		if err != nil {
			t.Fatalf("FindPath() error = %v", err)
		}
		if again.String() != first.String() {
			t.Fatalf("FindPath() = %v on run %d, want %v", again, i, first)
		}
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{Path{0}, "0"},
		{Path{0, 1}, "0 => 1"},
		{Path{0, 1, 2}, "0 => 1 => 2"},
		{Path{}, ""},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.want {
			t.Errorf("Path%v.String() = %q, want %q", []int(tt.path), got, tt.want)
		}
	}
}
