package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/reachmap/reachmap/pkg/cache"
	"github.com/reachmap/reachmap/pkg/errors"
	"github.com/reachmap/reachmap/pkg/relation"
)

const chainMatrix = "3\n0 1 0\n0 0 1\n0 0 0\n"

func writeMatrix(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{MatrixPath: writeMatrix(t, chainMatrix)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Matrix.Size() != 3 {
		t.Errorf("matrix size = %d, want 3", res.Matrix.Size())
	}
	if res.Stats.BasePairs != 2 {
		t.Errorf("BasePairs = %d, want 2", res.Stats.BasePairs)
	}
	if res.Stats.ClosurePairs != 3 {
		t.Errorf("ClosurePairs = %d, want 3", res.Stats.ClosurePairs)
	}
	if !res.Closure.Reaches(0, 2) {
		t.Error("closure missing derived pair (0,2)")
	}
	if res.CacheHit {
		t.Error("CacheHit = true with the null cache")
	}
	if len(res.MatrixHash) != 64 {
		t.Errorf("MatrixHash length = %d, want 64", len(res.MatrixHash))
	}
}

func TestExecute_CacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
	r := quietRunner(fc)
	opts := Options{MatrixPath: writeMatrix(t, chainMatrix)}
	ctx := context.Background()

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first run reported a cache hit")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second run missed the cache")
	}
	if len(second.Closure) != len(first.Closure) {
		t.Fatalf("cached closure has %d pairs, want %d", len(second.Closure), len(first.Closure))
	}
	for i := range first.Closure {
		if second.Closure[i] != first.Closure[i] {
			t.Errorf("cached pair %d = %v, want %v", i, second.Closure[i], first.Closure[i])
		}
	}
	if len(second.Base) != len(first.Base) {
		t.Errorf("cached base has %d pairs, want %d", len(second.Base), len(first.Base))
	}
}

func TestExecute_RefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
	r := quietRunner(fc)
	opts := Options{MatrixPath: writeMatrix(t, chainMatrix)}
	ctx := context.Background()

	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	opts.Refresh = true
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecute_CorruptCacheEntryRecomputes(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
	ctx := context.Background()

	raw := []byte(chainMatrix)
	key := cache.NewDefaultKeyer().ClosureKey(cache.Hash(raw))
	if err := fc.Set(ctx, key, []byte("not a graph"), 0); err != nil {
		t.Fatal(err)
	}

	r := quietRunner(fc)
	res, err := r.Execute(ctx, Options{MatrixPath: writeMatrix(t, chainMatrix)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheHit {
		t.Error("corrupt entry reported as a cache hit")
	}
	if res.Stats.ClosurePairs != 3 {
		t.Errorf("ClosurePairs = %d, want 3", res.Stats.ClosurePairs)
	}
}

func TestExecute_Errors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() with no path: error = %v, want INVALID_INPUT", err)
	}

	missing := filepath.Join(t.TempDir(), "absent.txt")
	if _, err := r.Execute(ctx, Options{MatrixPath: missing}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute() with missing file: error = %v, want FILE_NOT_FOUND", err)
	}

	bad := writeMatrix(t, "2\n0 7\n0 0\n")
	if _, err := r.Execute(ctx, Options{MatrixPath: bad}); !errors.Is(err, errors.ErrCodeInvalidMatrix) {
		t.Errorf("Execute() with bad cells: error = %v, want INVALID_MATRIX", err)
	}
}

func TestRoute(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{MatrixPath: writeMatrix(t, chainMatrix)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	path, err := Route(res, 0, 2)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if path.String() != "0 => 1 => 2" {
		t.Errorf("Route() = %q, want %q", path.String(), "0 => 1 => 2")
	}

	if _, err := Route(res, 2, 0); !stderrors.Is(err, relation.ErrNoRoute) {
		t.Errorf("Route() reverse: error = %v, want ErrNoRoute", err)
	}
	if _, err := Route(res, -1, 2); !errors.Is(err, errors.ErrCodeInvalidRoute) {
		t.Errorf("Route() negative source: error = %v, want INVALID_ROUTE", err)
	}
	if _, err := Route(res, 0, 3); !errors.Is(err, errors.ErrCodeInvalidRoute) {
		t.Errorf("Route() out-of-range destination: error = %v, want INVALID_ROUTE", err)
	}
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		token   string
		src     int
		dst     int
		wantErr bool
	}{
		{"0,2", 0, 2, false},
		{" 1 , 3 ", 1, 3, false},
		{"5", 0, 0, true},
		{"1,2,3", 0, 0, true},
		{"a,2", 0, 0, true},
		{"1,b", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			src, dst, err := ParseRoute(tt.token)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidRoute) {
					t.Fatalf("ParseRoute(%q) error = %v, want INVALID_ROUTE", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRoute(%q) error = %v", tt.token, err)
			}
			if src != tt.src || dst != tt.dst {
				t.Errorf("ParseRoute(%q) = (%d,%d), want (%d,%d)", tt.token, src, dst, tt.src, tt.dst)
			}
		})
	}
}

func TestNewRunner_NilDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner(nil, nil, nil) left a nil collaborator: %+v", r)
	}
}
