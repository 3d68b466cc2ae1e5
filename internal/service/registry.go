package service

import (
	"sync"

	"github.com/brightfield-labs/vectordb/internal/model"
	"github.com/brightfield-labs/vectordb/internal/vectorindex"
)

// indexRegistry holds the live vector index objects attached to each
// library, keyed by library id and then index name. This is deliberately
// separate from the persisted Library value (which only carries
// IndexMetadata): index structures are not safely deep-copyable and are
// treated as server-side state held outside the store, so the store's
// read path never copies them.
//
// The registry's own mutex only protects the two-level map structure
// itself (adding/removing a library's index set, or a named index within
// it). Mutation of a given index's internal structure is already
// serialized by the enclosing LibraryStore write lock for that library;
// concurrent searches read an index while only a read lock is held on the
// library, which is safe because index mutation only ever happens under
// that library's write lock.
type indexRegistry struct {
	mu        sync.RWMutex
	byLibrary map[model.ID]map[string]vectorindex.Index
}

func newIndexRegistry() *indexRegistry {
	return &indexRegistry{byLibrary: make(map[model.ID]map[string]vectorindex.Index)}
}

func (r *indexRegistry) set(libID model.ID, name string, idx vectorindex.Index) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.byLibrary[libID]
	if !ok {
		set = make(map[string]vectorindex.Index)
		r.byLibrary[libID] = set
	}
	set[name] = idx
}

func (r *indexRegistry) get(libID model.ID, name string) (vectorindex.Index, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byLibrary[libID][name]
	return idx, ok
}

func (r *indexRegistry) delete(libID model.ID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byLibrary[libID], name)
}

func (r *indexRegistry) deleteLibrary(libID model.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byLibrary, libID)
}

// all returns a shallow snapshot of the named indices attached to a
// library: a new map, but the Index values themselves are the live,
// shared objects.
func (r *indexRegistry) all(libID model.ID) map[string]vectorindex.Index {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byLibrary[libID]
	out := make(map[string]vectorindex.Index, len(set))
	for name, idx := range set {
		out[name] = idx
	}
	return out
}
