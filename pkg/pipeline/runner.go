package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/reachmap/reachmap/pkg/cache"
	"github.com/reachmap/reachmap/pkg/errors"
	"github.com/reachmap/reachmap/pkg/graph"
	"github.com/reachmap/reachmap/pkg/matrix"
	"github.com/reachmap/reachmap/pkg/relation"
)

// Runner executes pipeline runs with caching. It is stateless apart from
// the cache, keyer, and logger, so one Runner can serve many runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching (NullCache),
// a nil keyer selects the default key scheme, and a nil logger falls back
// to log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute reads the matrix file named in opts and computes its closure.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.MatrixPath == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no matrix file given")
	}

	raw, err := os.ReadFile(opts.MatrixPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", opts.MatrixPath)
		}
		return nil, fmt.Errorf("read %s: %w", opts.MatrixPath, err)
	}

	readStart := time.Now()
	m, err := matrix.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.MatrixPath, err)
	}
	readTime := time.Since(readStart)

	res, err := r.ExecuteMatrix(ctx, m, raw, opts.Refresh)
	if err != nil {
		return nil, err
	}
	res.Stats.ReadTime = readTime
	return res, nil
}

// ExecuteMatrix computes the closure for an already-parsed matrix. raw is
// the original input bytes, used only for the content-addressed cache key.
func (r *Runner) ExecuteMatrix(ctx context.Context, m *matrix.Matrix, raw []byte, refresh bool) (*Result, error) {
	base := relation.FromMatrix(m)

	res := &Result{
		Matrix:     m,
		MatrixHash: cache.Hash(raw),
		Base:       base,
	}
	key := r.Keyer.ClosureKey(res.MatrixHash)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := graph.Unmarshal(data); err == nil && g.N == m.Size() {
				cachedBase, closure := g.Relations()
				res.Base = cachedBase
				res.Closure = closure
				res.Stats.BasePairs = len(cachedBase)
				res.Stats.ClosurePairs = len(closure)
				res.CacheHit = true
				r.Logger.Debug("closure cache hit", "key", key, "pairs", len(closure))
				return res, nil
			}
			// Undecodable entry: fall through and recompute.
			_ = r.Cache.Delete(ctx, key)
		}
	}

	closeStart := time.Now()
	res.Closure = relation.Close(base)
	res.Stats.CloseTime = time.Since(closeStart)
	res.Stats.BasePairs = len(base)
	res.Stats.ClosurePairs = len(res.Closure)

	r.Logger.Debug("computed closure",
		"n", m.Size(),
		"base", len(base),
		"closure", len(res.Closure),
		"duration", res.Stats.CloseTime)

	if data, err := graph.Marshal(graph.FromRelation(m.Size(), res.Closure, len(base))); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLClosure)
	}
	return res, nil
}

// Route answers a single-pair reachability query against a run's result.
// Indices outside [0, N) are an INVALID_ROUTE error; an unreachable target
// surfaces as relation.ErrNoRoute, which callers treat as a normal outcome.
func Route(res *Result, src, dst int) (relation.Path, error) {
	n := res.Matrix.Size()
	if src < 0 || src >= n {
		return nil, errors.New(errors.ErrCodeInvalidRoute, "source %d outside [0,%d)", src, n)
	}
	if dst < 0 || dst >= n {
		return nil, errors.New(errors.ErrCodeInvalidRoute, "destination %d outside [0,%d)", dst, n)
	}
	return relation.FindPath(res.Closure, res.Base, src, dst)
}
