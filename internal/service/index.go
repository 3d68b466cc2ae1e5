package service

import (
	"log"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/store"
	"github.com/brightfield-labs/vectordb/internal/vectorindex"
)

// IndexService owns the lifecycle of the live vector index objects
// attached to libraries: build, incremental insert/delete mirroring chunk
// mutation, and drop. The live index objects themselves are never part of
// the persisted Library value (see SPEC_FULL.md); only IndexMetadata is.
type IndexService struct {
	store    *store.LibraryStore
	registry *indexRegistry
	logger   *log.Logger
}

// NewIndexService constructs an IndexService over the given store.
func NewIndexService(st *store.LibraryStore, logger *log.Logger) *IndexService {
	return &IndexService{store: st, registry: newIndexRegistry(), logger: logger}
}

// CreateIndex gathers every embedded chunk currently in the library,
// builds a fresh index of the requested kind/metric, attaches it under
// name (replacing any existing index of that name), and stores its
// metadata.
func (s *IndexService) CreateIndex(libID model.ID, name string, cfg model.IndexConfig) (model.IndexMetadata, error) {
	idx, err := vectorindex.New(cfg)
	if err != nil {
		var configErr *vectorindex.ConfigInvalidError
		if asConfigInvalid(err, &configErr) {
			return model.IndexMetadata{}, apierr.ConfigInvalid(configErr.Error())
		}
		return model.IndexMetadata{}, err
	}

	var meta model.IndexMetadata
	writeErr := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		var chunks []model.Chunk
		for _, doc := range lib.OrderedDocuments() {
			for _, c := range doc.OrderedChunks() {
				if c.HasEmbedding() {
					chunks = append(chunks, *c)
				}
			}
		}

		idx.Build(chunks)

		meta = model.IndexMetadata{
			Name:        name,
			Config:      cfg,
			VectorCount: idx.VectorCount(),
			Kind:        cfg.Kind,
		}
		lib.IndexMetadata[name] = meta
		lib.Version++

		// Publish the live index to the registry before releasing the
		// write lock, so a reader can never observe metadata claiming
		// the index exists while the registry still reports it as
		// IndexNotReady.
		s.registry.set(libID, name, idx)
		return nil
	})
	if writeErr != nil {
		return model.IndexMetadata{}, wrapStoreErr(writeErr, "library")
	}

	return meta, nil
}

// GetIndexMetadata returns the metadata for a named index.
func (s *IndexService) GetIndexMetadata(libID model.ID, name string) (model.IndexMetadata, error) {
	var meta model.IndexMetadata
	err := s.store.WithReadLock(libID, func(lib *model.Library) error {
		m, ok := lib.IndexMetadata[name]
		if !ok {
			return apierr.NotFound("index", name)
		}
		meta = m
		return nil
	})
	if err != nil {
		return model.IndexMetadata{}, wrapStoreErr(err, "library")
	}
	return meta, nil
}

// ListIndexMetadata returns metadata for every index attached to a
// library.
func (s *IndexService) ListIndexMetadata(libID model.ID) ([]model.IndexMetadata, error) {
	var out []model.IndexMetadata
	err := s.store.WithReadLock(libID, func(lib *model.Library) error {
		out = make([]model.IndexMetadata, 0, len(lib.IndexMetadata))
		for _, m := range lib.IndexMetadata {
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return out, nil
}

// DeleteIndex drops both the live index and its metadata entry.
func (s *IndexService) DeleteIndex(libID model.ID, name string) error {
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		if _, ok := lib.IndexMetadata[name]; !ok {
			return apierr.NotFound("index", name)
		}
		delete(lib.IndexMetadata, name)
		lib.Version++
		return nil
	})
	if err != nil {
		return wrapStoreErr(err, "library")
	}
	s.registry.delete(libID, name)
	return nil
}

// indexFor returns the live index attached under name, or IndexNotReady.
func (s *IndexService) indexFor(libID model.ID, name string) (vectorindex.Index, error) {
	idx, ok := s.registry.get(libID, name)
	if !ok {
		return nil, apierr.IndexNotReady(name)
	}
	return idx, nil
}

// applyInsert upserts chunk into every index attached to lib, keeping each
// index's metadata vector_count synchronized. Must be called while the
// caller holds the store's write lock for lib.ID.
func (s *IndexService) applyInsert(lib *model.Library, chunk model.Chunk) {
	for name, idx := range s.registry.all(lib.ID) {
		idx.Insert(chunk)
		if meta, ok := lib.IndexMetadata[name]; ok {
			meta.VectorCount = idx.VectorCount()
			lib.IndexMetadata[name] = meta
		}
	}
}

// applyDelete removes chunkID from every index attached to lib, keeping
// each index's metadata vector_count synchronized. Must be called while
// the caller holds the store's write lock for lib.ID.
func (s *IndexService) applyDelete(lib *model.Library, chunkID model.ID) {
	for name, idx := range s.registry.all(lib.ID) {
		idx.Delete(chunkID)
		if meta, ok := lib.IndexMetadata[name]; ok {
			meta.VectorCount = idx.VectorCount()
			lib.IndexMetadata[name] = meta
		}
	}
}

// dropLibrary removes every live index attached to a deleted library.
func (s *IndexService) dropLibrary(libID model.ID) {
	s.registry.deleteLibrary(libID)
}

func asConfigInvalid(err error, target **vectorindex.ConfigInvalidError) bool {
	ce, ok := err.(*vectorindex.ConfigInvalidError)
	if ok {
		*target = ce
	}
	return ok
}
