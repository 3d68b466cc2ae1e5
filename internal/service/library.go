package service

import (
	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/store"
)

// LibraryService implements the library lifecycle: create, read, update
// (merging unspecified metadata fields, per the resolved Open Question in
// SPEC_FULL.md), delete, and list.
type LibraryService struct {
	store *store.LibraryStore
	index *IndexService
}

// NewLibraryService constructs a LibraryService over the given store. The
// IndexService reference lets library deletion clean up any attached live
// indices.
func NewLibraryService(st *store.LibraryStore, idx *IndexService) *LibraryService {
	return &LibraryService{store: st, index: idx}
}

// CreateLibrary creates a new, empty library.
func (s *LibraryService) CreateLibrary(metadata model.Metadata) *model.Library {
	lib := model.NewLibrary(model.NewID(), metadata)
	s.store.Add(lib)
	return lib
}

// GetLibrary returns a deep copy of a library by id.
func (s *LibraryService) GetLibrary(id model.ID) (*model.Library, error) {
	lib, err := s.store.Get(id)
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return lib, nil
}

// ListLibraries returns a deep-copied snapshot of every library.
func (s *LibraryService) ListLibraries() []*model.Library {
	return s.store.ListAll()
}

// UpdateLibrary replaces only the metadata fields present in patch,
// preserving everything else (merge, not replace).
func (s *LibraryService) UpdateLibrary(id model.ID, patch model.Metadata) (*model.Library, error) {
	var result *model.Library
	err := s.store.WithWriteLock(id, func(lib *model.Library) error {
		if lib.Metadata == nil {
			lib.Metadata = make(model.Metadata)
		}
		for k, v := range patch {
			lib.Metadata[k] = v
		}
		lib.Version++
		result = lib.Clone()
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return result, nil
}

// DeleteLibrary removes a library and drops any live indices attached to
// it.
func (s *LibraryService) DeleteLibrary(id model.ID) error {
	if err := s.store.Delete(id); err != nil {
		return wrapStoreErr(err, "library")
	}
	s.index.dropLibrary(id)
	return nil
}
