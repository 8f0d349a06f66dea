// Package store persists computed closure graphs for the HTTP server, so a
// submitted matrix can be queried repeatedly by ID without recomputation.
// MemoryStore backs single-process deployments and tests; MongoStore backs
// shared deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/reachmap/reachmap/pkg/graph"
)

// ErrNotFound is returned by Get when no record exists for the ID.
var ErrNotFound = errors.New("record not found")

// Record is one stored closure graph.
type Record struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name,omitempty" bson:"name,omitempty"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// NewRecord builds a record with a fresh UUID and creation timestamp.
// Name is an optional caller-supplied label (e.g. the uploaded file name).
func NewRecord(name string, g graph.Graph) Record {
	return Record{
		ID:        uuid.NewString(),
		Name:      name,
		Graph:     g,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the persistence interface for closure records.
type Store interface {
	// Put stores a record. Putting an existing ID overwrites it.
	Put(ctx context.Context, rec Record) error
	// Get retrieves a record by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}
