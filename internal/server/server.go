// Package server exposes the closure pipeline over HTTP.
//
// Endpoints:
//
//	POST /v1/graphs             submit a matrix (text body), returns the stored graph ID
//	GET  /v1/graphs/{id}        fetch a stored closure document
//	GET  /v1/graphs/{id}/route  query a route: ?from=0&to=2
//	GET  /healthz               liveness probe
//
// The reachability core stays network-free; this package is an I/O
// collaborator feeding matrices in and reporting closures and paths out.
package server

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reachmap/reachmap/pkg/errors"
	"github.com/reachmap/reachmap/pkg/graph"
	"github.com/reachmap/reachmap/pkg/matrix"
	"github.com/reachmap/reachmap/pkg/pipeline"
	"github.com/reachmap/reachmap/pkg/relation"
	"github.com/reachmap/reachmap/pkg/store"
)

// maxMatrixBody caps uploaded matrix size. A MaxSize×MaxSize matrix of
// "0 "/"1 " cells fits comfortably.
const maxMatrixBody = 1 << 20

// Server wires the pipeline runner and the record store behind a router.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil logger falls back to log.Default().
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/graphs", s.handleCreateGraph)
		r.Get("/graphs/{id}", s.handleGetGraph)
		r.Get("/graphs/{id}/route", s.handleRoute)
	})

	return r
}

// createResponse summarizes a stored graph for the submit endpoint.
type createResponse struct {
	ID           string `json:"id"`
	N            int    `json:"n"`
	BasePairs    int    `json:"base_pairs"`
	ClosurePairs int    `json:"closure_pairs"`
	Cached       bool   `json:"cached"`
}

// handleCreateGraph parses the matrix in the request body, computes its
// closure, stores it, and returns the record ID with a summary.
func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxMatrixBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "read body: %v", err))
		return
	}
	if len(raw) > maxMatrixBody {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidMatrix, "matrix body exceeds %d bytes", maxMatrixBody))
		return
	}

	m, err := matrix.Read(bytes.NewReader(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.runner.ExecuteMatrix(r.Context(), m, raw, false)
	if err != nil {
		s.logger.Error("closure computation failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	rec := store.NewRecord(r.URL.Query().Get("name"),
		graph.FromRelation(m.Size(), res.Closure, len(res.Base)))
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Error("store put failed", "id", rec.ID, "err", err)
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "store graph"))
		return
	}

	s.logger.Info("stored graph",
		"id", rec.ID,
		"n", m.Size(),
		"closure", len(res.Closure),
		"cached", res.CacheHit)

	writeJSON(w, http.StatusCreated, createResponse{
		ID:           rec.ID,
		N:            m.Size(),
		BasePairs:    len(res.Base),
		ClosurePairs: len(res.Closure),
		Cached:       res.CacheHit,
	})
}

// handleGetGraph returns the full stored record.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// routeResponse is the payload for a successful route query.
type routeResponse struct {
	From     int           `json:"from"`
	To       int           `json:"to"`
	Path     relation.Path `json:"path"`
	Rendered string        `json:"rendered"`
}

// handleRoute answers a single-pair reachability query against a stored
// graph. A missing route is a 404 with code NOT_FOUND, not a server fault.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	from, to, err := pipeline.ParseRoute(r.URL.Query().Get("from") + "," + r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if from < 0 || from >= rec.Graph.N || to < 0 || to >= rec.Graph.N {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidRoute, "route endpoints must be in [0,%d)", rec.Graph.N))
		return
	}

	base, closure := rec.Graph.Relations()
	path, err := relation.FindPath(closure, base, from, to)
	if stderrors.Is(err, relation.ErrNoRoute) {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no route from %d to %d", from, to))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, routeResponse{
		From:     from,
		To:       to,
		Path:     path,
		Rendered: path.String(),
	})
}

// lookup fetches the record named by the {id} URL parameter, writing the
// error response itself when the record is missing.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", id))
		return store.Record{}, false
	}
	if err != nil {
		s.logger.Error("store get failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "load graph"))
		return store.Record{}, false
	}
	return rec, true
}
