package service

import (
	"context"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/embeddings"
	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/store"
)

// ChunkService implements chunk lifecycle operations, maintaining the
// index-mirror invariant: every attached index is updated synchronously
// with chunk creation, update, and deletion.
type ChunkService struct {
	store    *store.LibraryStore
	index    *IndexService
	embedder embeddings.Embedder
}

// NewChunkService constructs a ChunkService. embedder may be nil, in which
// case chunks are created without an embedding (non-indexable, which is
// not an error per spec).
func NewChunkService(st *store.LibraryStore, idx *IndexService, embedder embeddings.Embedder) *ChunkService {
	return &ChunkService{store: st, index: idx, embedder: embedder}
}

// CreateChunk generates an embedding for the chunk's text (if an embedder
// is wired), attaches it, inserts the chunk into every attached index, and
// persists the result.
func (s *ChunkService) CreateChunk(ctx context.Context, libID, docID model.ID, text string, metadata model.Metadata) (*model.Chunk, error) {
	if text == "" {
		return nil, apierr.Validation("chunk text must not be empty")
	}

	var embedding []float32
	if s.embedder != nil {
		vecs, err := s.embedder.Embed(ctx, []string{text}, embeddings.InputTypeSearchDocument)
		if err != nil {
			return nil, err
		}
		embedding = vecs[0]
	}

	var created *model.Chunk
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}

		chunk := model.Chunk{ID: model.NewID(), Text: text, Embedding: embedding, Metadata: metadata}
		doc.AddChunk(chunk)

		s.index.applyInsert(lib, chunk)

		lib.Version++
		clone := chunk.Clone()
		created = &clone
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return created, nil
}

// GetChunk returns a chunk by id within a document.
func (s *ChunkService) GetChunk(libID, docID, chunkID model.ID) (*model.Chunk, error) {
	var result *model.Chunk
	err := s.store.WithReadLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		chunk, ok := doc.Chunks[chunkID]
		if !ok {
			return apierr.NotFound("chunk", chunkID.String())
		}
		clone := chunk.Clone()
		result = &clone
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return result, nil
}

// ListChunks returns every chunk in a document, in insertion order.
func (s *ChunkService) ListChunks(libID, docID model.ID) ([]*model.Chunk, error) {
	var out []*model.Chunk
	err := s.store.WithReadLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		for _, c := range doc.OrderedChunks() {
			clone := c.Clone()
			out = append(out, &clone)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return out, nil
}

// ChunkPatch carries the optional fields a chunk update may change. A nil
// field means "leave this field as it is" (merge semantics, not replace).
type ChunkPatch struct {
	Text     *string
	Metadata model.Metadata
}

// UpdateChunk re-embeds the chunk if its text changed, then in all cases
// re-inserts it into every attached index (index Insert is upsert-by-id).
func (s *ChunkService) UpdateChunk(ctx context.Context, libID, docID, chunkID model.ID, patch ChunkPatch) (*model.Chunk, error) {
	var newEmbedding []float32
	var haveNewEmbedding bool
	if patch.Text != nil && s.embedder != nil {
		vecs, err := s.embedder.Embed(ctx, []string{*patch.Text}, embeddings.InputTypeSearchDocument)
		if err != nil {
			return nil, err
		}
		newEmbedding = vecs[0]
		haveNewEmbedding = true
	}

	var updated *model.Chunk
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		chunk, ok := doc.Chunks[chunkID]
		if !ok {
			return apierr.NotFound("chunk", chunkID.String())
		}

		if patch.Text != nil {
			chunk.Text = *patch.Text
			if haveNewEmbedding {
				chunk.Embedding = newEmbedding
			}
		}
		for k, v := range patch.Metadata {
			if chunk.Metadata == nil {
				chunk.Metadata = make(model.Metadata)
			}
			chunk.Metadata[k] = v
		}

		s.index.applyInsert(lib, *chunk)

		lib.Version++
		clone := chunk.Clone()
		updated = &clone
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return updated, nil
}

// DeleteChunk removes a chunk from its owning document and from every
// attached index.
func (s *ChunkService) DeleteChunk(libID, docID, chunkID model.ID) error {
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		if !doc.RemoveChunk(chunkID) {
			return apierr.NotFound("chunk", chunkID.String())
		}

		s.index.applyDelete(lib, chunkID)

		lib.Version++
		return nil
	})
	if err != nil {
		return wrapStoreErr(err, "library")
	}
	return nil
}
