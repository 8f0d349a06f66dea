// Package graph provides the serialization format for computed reachability
// relations. It is the wire format shared by cache entries, the HTTP API,
// and persistent storage.
//
// A graph document is a flat node-link form:
//
//	{
//	  "n": 3,
//	  "base": 2,
//	  "edges": [{"from": 0, "to": 1}, {"from": 1, "to": 2}, {"from": 0, "to": 2}]
//	}
//
// The edges array holds the full transitive closure in its original
// insertion order; the first "base" entries are the direct pairs built from
// the adjacency matrix. Keeping the base prefix length makes the document
// round-trippable: path queries against a deserialized graph walk exactly
// the pairs the matrix defined.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/reachmap/reachmap/pkg/errors"
	"github.com/reachmap/reachmap/pkg/relation"
)

// Edge is a directed connection in serialized form.
type Edge struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`
}

// Graph is the canonical serialization of a computed closure.
type Graph struct {
	// N is the matrix dimension; valid location indices are [0, N).
	N int `json:"n" bson:"n"`
	// Base is the number of leading edges that are direct matrix pairs.
	Base int `json:"base" bson:"base"`
	// Edges is the closure in insertion order, base pairs first.
	Edges []Edge `json:"edges" bson:"edges"`
}

// FromRelation builds a Graph document from a closure and the length of its
// base prefix. The closure's insertion order is preserved verbatim.
func FromRelation(n int, closure relation.List, baseLen int) Graph {
	g := Graph{
		N:     n,
		Base:  baseLen,
		Edges: make([]Edge, len(closure)),
	}
	for i, p := range closure {
		g.Edges[i] = Edge{From: p.Src, To: p.Dst}
	}
	return g
}

// Relations returns the base pair list and the full closure encoded in the
// document. The base list aliases the closure's prefix.
func (g Graph) Relations() (base, closure relation.List) {
	closure = make(relation.List, len(g.Edges))
	for i, e := range g.Edges {
		closure[i] = relation.Pair{Src: e.From, Dst: e.To}
	}
	return closure[:g.Base], closure
}

// Validate checks structural integrity of a decoded document: sane
// dimension, base prefix within bounds, and all endpoints inside [0, N).
func (g Graph) Validate() error {
	if g.N <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "graph dimension must be positive, got %d", g.N)
	}
	if g.Base < 0 || g.Base > len(g.Edges) {
		return errors.New(errors.ErrCodeInvalidInput, "base prefix %d out of range for %d edges", g.Base, len(g.Edges))
	}
	for i, e := range g.Edges {
		if e.From < 0 || e.From >= g.N || e.To < 0 || e.To >= g.N {
			return errors.New(errors.ErrCodeInvalidInput, "edge %d (%d→%d) outside [0,%d)", i, e.From, e.To, g.N)
		}
	}
	return nil
}

// Marshal converts a Graph to JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a validated Graph.
func Unmarshal(data []byte) (Graph, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a Graph as indented JSON to w.
func Write(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON graph document from r and validates it.
func Read(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// WriteFile writes a Graph document to a JSON file at path.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// ReadFile reads and decodes the JSON graph document at path.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
