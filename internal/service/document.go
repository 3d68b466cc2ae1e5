package service

import (
	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/store"
)

// DocumentService implements document lifecycle operations nested under a
// library.
type DocumentService struct {
	store *store.LibraryStore
	index *IndexService
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(st *store.LibraryStore, idx *IndexService) *DocumentService {
	return &DocumentService{store: st, index: idx}
}

// CreateDocument creates a new, empty document within a library.
func (s *DocumentService) CreateDocument(libID model.ID, metadata model.Metadata) (*model.Document, error) {
	var created *model.Document
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		doc := model.NewDocument(model.NewID(), metadata)
		lib.AddDocument(doc)
		lib.Version++
		created = doc.Clone()
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return created, nil
}

// GetDocument returns a document by id within a library.
func (s *DocumentService) GetDocument(libID, docID model.ID) (*model.Document, error) {
	var result *model.Document
	err := s.store.WithReadLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		result = doc.Clone()
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return result, nil
}

// ListDocuments returns every document in a library, in insertion order.
func (s *DocumentService) ListDocuments(libID model.ID) ([]*model.Document, error) {
	var out []*model.Document
	err := s.store.WithReadLock(libID, func(lib *model.Library) error {
		for _, doc := range lib.OrderedDocuments() {
			out = append(out, doc.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return out, nil
}

// UpdateDocument replaces only the metadata fields present in patch,
// preserving everything else.
func (s *DocumentService) UpdateDocument(libID, docID model.ID, patch model.Metadata) (*model.Document, error) {
	var result *model.Document
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		if doc.Metadata == nil {
			doc.Metadata = make(model.Metadata)
		}
		for k, v := range patch {
			doc.Metadata[k] = v
		}
		lib.Version++
		result = doc.Clone()
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "library")
	}
	return result, nil
}

// DeleteDocument removes a document and cascades index maintenance for
// every chunk it contained before dropping it.
func (s *DocumentService) DeleteDocument(libID, docID model.ID) error {
	err := s.store.WithWriteLock(libID, func(lib *model.Library) error {
		doc, ok := lib.Documents[docID]
		if !ok {
			return apierr.NotFound("document", docID.String())
		}
		for _, chunkID := range doc.ChunkOrder {
			s.index.applyDelete(lib, chunkID)
		}
		lib.RemoveDocument(docID)
		lib.Version++
		return nil
	})
	if err != nil {
		return wrapStoreErr(err, "library")
	}
	return nil
}
