// Package embeddings defines the embedding provider interface the service
// layer consumes, plus two implementations: one backed by Ollama's
// embeddings API, and a deterministic fake used in tests and in
// environments with no embedding provider configured.
package embeddings

import "context"

// InputType mirrors the distinction embedding providers such as Cohere
// draw between text indexed for later retrieval and text used as a query,
// since some models embed the two differently.
type InputType string

const (
	InputTypeSearchDocument InputType = "search_document"
	InputTypeSearchQuery    InputType = "search_query"
)

// Embedder is the opaque text-to-vector function the core treats as an
// external collaborator. The core does not interpret outputs beyond using
// them as vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string, inputType InputType) ([][]float32, error)
}
