package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/store"
)

// testHarness wires up every service against a fresh in-memory store, with
// no embedder (tests that need embeddings supply vectors directly).
type testHarness struct {
	store    *store.LibraryStore
	library  *LibraryService
	document *DocumentService
	chunk    *ChunkService
	index    *IndexService
	search   *SearchService
}

func newHarness() *testHarness {
	st := store.New()
	idx := NewIndexService(st, nil)
	return &testHarness{
		store:    st,
		library:  NewLibraryService(st, idx),
		document: NewDocumentService(st, idx),
		chunk:    NewChunkService(st, idx, nil),
		index:    idx,
		search:   NewSearchService(st, idx, nil, nil),
	}
}

// seedLibrary creates a library with one document holding one chunk per
// (name, vector) pair, returning the library and document ids plus a map
// from chunk name to chunk id.
func (h *testHarness) seedLibrary(t *testing.T, vectors map[string][]float32) (model.ID, model.ID, map[string]model.ID) {
	t.Helper()
	lib := h.library.CreateLibrary(nil)
	doc, err := h.document.CreateDocument(lib.ID, nil)
	require.NoError(t, err)

	ids := make(map[string]model.ID, len(vectors))
	for name, vec := range vectors {
		chunk, err := h.chunk.CreateChunk(context.Background(), lib.ID, doc.ID, name, nil)
		require.NoError(t, err)
		// CreateChunk with no embedder leaves Embedding nil; set it directly
		// via UpdateChunk-equivalent write to exercise the index mirror path.
		err = h.store.WithWriteLock(lib.ID, func(l *model.Library) error {
			c := l.Documents[doc.ID].Chunks[chunk.ID]
			c.Embedding = vec
			h.index.applyInsert(l, *c)
			return nil
		})
		require.NoError(t, err)
		ids[name] = chunk.ID
	}
	return lib.ID, doc.ID, ids
}

func s1Vectors() map[string][]float32 {
	return map[string][]float32{
		"cat":      {0.1, 0.2, 0.8},
		"dog":      {0.9, 0.2, 0.1},
		"kitten":   {0.15, 0.25, 0.75},
		"puppy":    {0.85, 0.25, 0.15},
		"computer": {0.1, 0.9, 0.1},
	}
}
