// Package pipeline runs the matrix → pair list → closure flow shared by
// the CLI and the HTTP server, with content-addressed caching.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{MatrixPath: "cities.txt"})
//	if err != nil {
//	    return err
//	}
//	path, err := pipeline.Route(result, 0, 2)
//
// The closure is a pure function of the matrix content, so the cache key is
// the SHA-256 hash of the raw input bytes; a hit skips the fixed-point
// computation entirely.
package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/reachmap/reachmap/pkg/errors"
	"github.com/reachmap/reachmap/pkg/matrix"
	"github.com/reachmap/reachmap/pkg/relation"
)

// Options configures a single pipeline run. An explicit options value
// replaces the global flag state of the legacy tool: collaborators receive
// configuration, the core receives none.
type Options struct {
	// MatrixPath is the adjacency-matrix input file.
	MatrixPath string
	// Refresh bypasses the cache and recomputes the closure.
	Refresh bool
}

// Stats reports per-stage timing and sizes for one run.
type Stats struct {
	ReadTime  time.Duration // matrix parse
	CloseTime time.Duration // closure fixed point (zero on cache hit)

	BasePairs    int
	ClosurePairs int
}

// Result is the output of a pipeline run. Base and Closure share backing
// storage (base is the closure's prefix) and are read-only after Execute.
type Result struct {
	Matrix     *matrix.Matrix
	MatrixHash string

	Base    relation.List
	Closure relation.List

	Stats    Stats
	CacheHit bool
}

// ParseRoute parses a "src,dst" route token into its two location indices.
// This is the query format the legacy tool accepted on the command line and
// the HTTP API mirrors in its from/to parameters.
func ParseRoute(token string) (src, dst int, err error) {
	parts := strings.Split(token, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New(errors.ErrCodeInvalidRoute, "route must be <source>,<destination>, got %q", token)
	}
	src, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidRoute, "source %q is not an integer", parts[0])
	}
	dst, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidRoute, "destination %q is not an integer", parts[1])
	}
	return src, dst, nil
}
