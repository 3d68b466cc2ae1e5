package httpapi

import (
	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/service"
)

// --- Library DTOs ---

type libraryCreateRequest struct {
	Metadata model.Metadata `json:"metadata"`
}

type libraryUpdateRequest struct {
	Metadata model.Metadata `json:"metadata"`
}

type libraryResponse struct {
	ID        string         `json:"id"`
	Metadata  model.Metadata `json:"metadata"`
	Indices   []string       `json:"indices"`
	Version   uint64         `json:"version"`
	DocsCount int            `json:"document_count"`
}

func libraryToResponse(lib *model.Library) libraryResponse {
	names := make([]string, 0, len(lib.IndexMetadata))
	for name := range lib.IndexMetadata {
		names = append(names, name)
	}
	return libraryResponse{
		ID:        lib.ID.String(),
		Metadata:  nonNilMetadata(lib.Metadata),
		Indices:   names,
		Version:   lib.Version,
		DocsCount: len(lib.Documents),
	}
}

// --- Document DTOs ---

type documentCreateRequest struct {
	Metadata model.Metadata `json:"metadata"`
}

type documentUpdateRequest struct {
	Metadata model.Metadata `json:"metadata"`
}

type documentResponse struct {
	ID          string         `json:"id"`
	Metadata    model.Metadata `json:"metadata"`
	ChunksCount int            `json:"chunk_count"`
}

func documentToResponse(doc *model.Document) documentResponse {
	return documentResponse{
		ID:          doc.ID.String(),
		Metadata:    nonNilMetadata(doc.Metadata),
		ChunksCount: len(doc.Chunks),
	}
}

// --- Chunk DTOs ---

type chunkCreateRequest struct {
	Text     string         `json:"text"`
	Metadata model.Metadata `json:"metadata"`
}

type chunkUpdateRequest struct {
	Text     *string        `json:"text"`
	Metadata model.Metadata `json:"metadata"`
}

type chunkResponse struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Embedding []float32      `json:"embedding,omitempty"`
	Metadata  model.Metadata `json:"metadata"`
}

func chunkToResponse(c *model.Chunk) chunkResponse {
	return chunkResponse{
		ID:        c.ID.String(),
		Text:      c.Text,
		Embedding: c.Embedding,
		Metadata:  nonNilMetadata(c.Metadata),
	}
}

// --- Index DTOs ---

type indexCreateRequest struct {
	Kind      string `json:"kind"`
	Metric    string `json:"metric"`
	NumBits   int    `json:"num_bits,omitempty"`
	NumTables int    `json:"num_tables,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

type indexStatusResponse struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Metric      string `json:"metric"`
	VectorCount int    `json:"vector_count"`
	NumBits     int    `json:"num_bits,omitempty"`
	NumTables   int    `json:"num_tables,omitempty"`
}

func indexMetaToResponse(meta model.IndexMetadata) indexStatusResponse {
	return indexStatusResponse{
		Name:        meta.Name,
		Kind:        string(meta.Kind),
		Metric:      string(meta.Config.Metric),
		VectorCount: meta.VectorCount,
		NumBits:     meta.Config.NumBits,
		NumTables:   meta.Config.NumTables,
	}
}

// --- Search DTOs ---

type searchRequest struct {
	QueryEmbedding []float32 `json:"query_embedding,omitempty"`
	QueryText      *string   `json:"query_text,omitempty"`
	K              int       `json:"k"`
}

type searchResultResponse struct {
	Chunk      chunkResponse `json:"chunk"`
	Similarity float32       `json:"similarity"`
}

func searchResultsToResponse(results []service.SearchResult) []searchResultResponse {
	out := make([]searchResultResponse, len(results))
	for i, r := range results {
		chunk := r.Chunk
		out[i] = searchResultResponse{Chunk: chunkToResponse(&chunk), Similarity: r.Similarity}
	}
	return out
}

// nonNilMetadata normalizes a nil Metadata to an empty map so the wire
// representation is always "{}", never "null".
func nonNilMetadata(m model.Metadata) model.Metadata {
	if m == nil {
		return model.Metadata{}
	}
	return m
}
