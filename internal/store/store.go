// Package store implements the in-memory library store: a map from
// library id to library value, protected by a reader-writer lock. Reads
// return deep copies so that callers cannot mutate shared state outside a
// write path.
package store

import (
	"fmt"

	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/rwlock"
)

// NotFoundError is returned when an operation references a library id that
// is not present in the store.
type NotFoundError struct {
	ID model.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: library %s not found", e.ID)
}

// LibraryStore is the in-memory key-value store of libraries assumed by
// the service layer. All access is mediated by an internal reader-writer
// lock (writer-starvation avoiding); the persistence interface is the
// store's own method set.
type LibraryStore struct {
	lock      *rwlock.RWLock
	libraries map[model.ID]*model.Library
}

// New constructs an empty LibraryStore.
func New() *LibraryStore {
	return &LibraryStore{
		lock:      rwlock.New(),
		libraries: make(map[model.ID]*model.Library),
	}
}

// Add inserts a library. No-op if the id is already present.
func (s *LibraryStore) Add(lib *model.Library) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.libraries[lib.ID]; exists {
		return
	}
	s.libraries[lib.ID] = lib.Clone()
}

// Update replaces the stored value for lib.ID. Fails if absent.
func (s *LibraryStore) Update(lib *model.Library) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.libraries[lib.ID]; !exists {
		return &NotFoundError{ID: lib.ID}
	}
	s.libraries[lib.ID] = lib.Clone()
	return nil
}

// Delete removes a library by id. Fails if absent.
func (s *LibraryStore) Delete(id model.ID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.libraries[id]; !exists {
		return &NotFoundError{ID: id}
	}
	delete(s.libraries, id)
	return nil
}

// Get returns a deep copy of the stored library. Fails if absent.
func (s *LibraryStore) Get(id model.ID) (*model.Library, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	lib, exists := s.libraries[id]
	if !exists {
		return nil, &NotFoundError{ID: id}
	}
	return lib.Clone(), nil
}

// ListAll returns a deep-copied snapshot of every stored library.
func (s *LibraryStore) ListAll() []*model.Library {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make([]*model.Library, 0, len(s.libraries))
	for _, lib := range s.libraries {
		out = append(out, lib.Clone())
	}
	return out
}

// Clear drops every stored library. Test-only affordance.
func (s *LibraryStore) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.libraries = make(map[model.ID]*model.Library)
}

// WithWriteLock runs fn while holding the store's write lock, passing it
// the live (non-cloned) library for in-place mutation, and persists the
// result via Update semantics without a second clone round-trip. This is
// the seam the service layer uses to perform read-modify-write sequences
// (e.g. insert a chunk and update its indices) as a single atomic
// operation under the spec's "later write observes earlier writes"
// ordering guarantee.
func (s *LibraryStore) WithWriteLock(id model.ID, fn func(lib *model.Library) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	lib, exists := s.libraries[id]
	if !exists {
		return &NotFoundError{ID: id}
	}
	return fn(lib)
}

// WithReadLock runs fn while holding the store's read lock, passing it the
// live (non-cloned) library for read-only inspection. fn must not mutate
// the library; use WithWriteLock for mutation.
func (s *LibraryStore) WithReadLock(id model.ID, fn func(lib *model.Library) error) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	lib, exists := s.libraries[id]
	if !exists {
		return &NotFoundError{ID: id}
	}
	return fn(lib)
}
