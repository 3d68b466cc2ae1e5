// Package vectorindex implements the two vector index structures the
// database supports: a balanced binary search tree keyed by chunk id
// (exact k-NN via exhaustive scored traversal) and a locality-sensitive
// hash index using random hyperplane projections (approximate k-NN with
// candidate re-ranking).
package vectorindex

import (
	"errors"
	"fmt"

	"github.com/brightfield-labs/vectordb/internal/model"
)

// ErrInvalidK is returned when Search is called with k < 1.
var ErrInvalidK = errors.New("vectorindex: k must be >= 1")

// DimensionMismatchError is returned when a query vector's length disagrees
// with the index's fixed dimension.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vectorindex: dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// ConfigInvalidError is returned by the factory when an IndexConfig cannot
// produce a valid index.
type ConfigInvalidError struct {
	Reason string
}

func (e *ConfigInvalidError) Error() string {
	return "vectorindex: invalid config: " + e.Reason
}

// ScoredChunk pairs a chunk with its similarity/distance score against a
// query.
type ScoredChunk struct {
	Chunk model.Chunk
	Score float32
}

// Index is the uniform contract both AVL and LSH implementations satisfy.
type Index interface {
	// Build replaces all internal state with the given chunks. Chunks
	// lacking an embedding are skipped. Idempotent for identical inputs.
	Build(chunks []model.Chunk)

	// Insert adds or replaces a chunk by id. Silently ignores chunks
	// without an embedding.
	Insert(chunk model.Chunk)

	// Delete removes a chunk by id. No-op if absent.
	Delete(id model.ID)

	// Search returns up to min(k, VectorCount()) entries, best match
	// first. Returns ErrInvalidK if k < 1, or a *DimensionMismatchError if
	// query's length disagrees with the index's fixed dimension.
	Search(query []float32, k int) ([]ScoredChunk, error)

	// VectorCount returns the number of distinct chunk ids currently held.
	VectorCount() int

	// Metric returns the configured distance/similarity metric.
	Metric() model.Metric

	// Kind identifies the concrete index implementation.
	Kind() model.IndexKind
}
