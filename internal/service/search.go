package service

import (
	"context"
	"log"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/embeddings"
	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/store"
	"github.com/brightfield-labs/vectordb/internal/vectorindex"
)

// SearchResult pairs a chunk with its similarity/distance score, the
// shape returned to callers after zombie reconciliation.
type SearchResult struct {
	Chunk      model.Chunk
	Similarity float32
}

// SearchService dispatches k-NN queries to a library's named index and
// reconciles the results against live chunk state.
type SearchService struct {
	store    *store.LibraryStore
	index    *IndexService
	embedder embeddings.Embedder
	logger   *log.Logger
}

// NewSearchService constructs a SearchService.
func NewSearchService(st *store.LibraryStore, idx *IndexService, embedder embeddings.Embedder, logger *log.Logger) *SearchService {
	return &SearchService{store: st, index: idx, embedder: embedder, logger: logger}
}

// Search runs a k-NN query against the named index of a library, using
// queryEmbedding directly if non-nil, otherwise embedding queryText.
// Exactly one of the two must be provided by the caller.
func (s *SearchService) Search(ctx context.Context, libID model.ID, indexName string, queryEmbedding []float32, queryText string, k int) ([]SearchResult, error) {
	if k < 1 {
		return nil, apierr.Validation("k must be >= 1")
	}

	query := queryEmbedding
	if query != nil && queryText != "" {
		return nil, apierr.Validation("exactly one of query_embedding or query_text must be set")
	}
	if query == nil {
		if queryText == "" {
			return nil, apierr.Validation("exactly one of query_embedding or query_text must be set")
		}
		if s.embedder == nil {
			return nil, apierr.Validation("no embedding provider configured for query_text")
		}
		vecs, err := s.embedder.Embed(ctx, []string{queryText}, embeddings.InputTypeSearchQuery)
		if err != nil {
			return nil, err
		}
		query = vecs[0]
	}

	idx, err := s.index.indexFor(libID, indexName)
	if err != nil {
		// indexFor doesn't distinguish a missing library from a missing
		// index, so confirm the library itself exists first to report
		// the right 404 vs 409.
		if _, getErr := s.store.Get(libID); getErr != nil {
			return nil, wrapStoreErr(getErr, "library")
		}
		return nil, err
	}

	// The index traversal itself runs under the library's read lock, the
	// same lock applyInsert/applyDelete hold as a write lock, so a search
	// can never observe an index mid-mutation.
	var results []SearchResult
	lockErr := s.store.WithReadLock(libID, func(lib *model.Library) error {
		scored, searchErr := idx.Search(query, k)
		if searchErr != nil {
			return searchErr
		}
		for _, sc := range scored {
			if !chunkExists(lib, sc.Chunk.ID) {
				if s.logger != nil {
					s.logger.Printf("search: filtering zombie chunk %s from index %q (library %s)", sc.Chunk.ID, indexName, libID)
				}
				continue
			}
			results = append(results, SearchResult{Chunk: sc.Chunk, Similarity: sc.Score})
		}
		return nil
	})
	if lockErr != nil {
		if dimErr, ok := lockErr.(*vectorindex.DimensionMismatchError); ok {
			return nil, apierr.DimensionMismatch(dimErr.Expected, dimErr.Got)
		}
		if lockErr == vectorindex.ErrInvalidK {
			return nil, apierr.Validation(lockErr.Error())
		}
		return nil, wrapStoreErr(lockErr, "library")
	}
	if results == nil {
		results = []SearchResult{}
	}
	return results, nil
}

func chunkExists(lib *model.Library, chunkID model.ID) bool {
	for _, doc := range lib.Documents {
		if _, ok := doc.Chunks[chunkID]; ok {
			return true
		}
	}
	return false
}
