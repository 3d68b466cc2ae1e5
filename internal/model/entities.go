package model

// Chunk is a piece of text belonging to exactly one document, with an
// optional dense embedding. Embeddings for chunks in the same library-index
// share a fixed dimension.
type Chunk struct {
	ID        ID
	Text      string
	Embedding []float32
	Metadata  Metadata
}

// Clone returns a deep copy of the chunk.
func (c Chunk) Clone() Chunk {
	out := c
	if c.Embedding != nil {
		out.Embedding = append([]float32(nil), c.Embedding...)
	}
	out.Metadata = c.Metadata.Clone()
	return out
}

// HasEmbedding reports whether the chunk carries a non-nil embedding.
func (c Chunk) HasEmbedding() bool {
	return c.Embedding != nil
}

// Document owns an ordered set of chunks and belongs to exactly one
// library. Deleting a document destroys all of its chunks.
type Document struct {
	ID         ID
	Metadata   Metadata
	Chunks     map[ID]*Chunk
	ChunkOrder []ID
}

// NewDocument constructs an empty document with the given id and metadata.
func NewDocument(id ID, metadata Metadata) *Document {
	return &Document{
		ID:       id,
		Metadata: metadata,
		Chunks:   make(map[ID]*Chunk),
	}
}

// AddChunk inserts or replaces a chunk, preserving original insertion order
// on replace.
func (d *Document) AddChunk(chunk Chunk) {
	if _, exists := d.Chunks[chunk.ID]; !exists {
		d.ChunkOrder = append(d.ChunkOrder, chunk.ID)
	}
	stored := chunk
	d.Chunks[chunk.ID] = &stored
}

// RemoveChunk deletes a chunk by id, returning whether it was present.
func (d *Document) RemoveChunk(id ID) bool {
	if _, ok := d.Chunks[id]; !ok {
		return false
	}
	delete(d.Chunks, id)
	for i, cid := range d.ChunkOrder {
		if cid == id {
			d.ChunkOrder = append(d.ChunkOrder[:i], d.ChunkOrder[i+1:]...)
			break
		}
	}
	return true
}

// OrderedChunks returns the document's chunks in insertion order.
func (d *Document) OrderedChunks() []*Chunk {
	out := make([]*Chunk, 0, len(d.ChunkOrder))
	for _, id := range d.ChunkOrder {
		if c, ok := d.Chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy of the document, including all of its chunks.
func (d *Document) Clone() *Document {
	out := &Document{
		ID:         d.ID,
		Metadata:   d.Metadata.Clone(),
		Chunks:     make(map[ID]*Chunk, len(d.Chunks)),
		ChunkOrder: append([]ID(nil), d.ChunkOrder...),
	}
	for id, c := range d.Chunks {
		cloned := c.Clone()
		out.Chunks[id] = &cloned
	}
	return out
}

// Library is the top-level container: an id, metadata, an ordered set of
// documents, and the metadata (not the live objects) of its attached
// indices. The live index objects are held separately by the service layer,
// never by the persisted Library value itself.
type Library struct {
	ID            ID
	Metadata      Metadata
	Documents     map[ID]*Document
	DocOrder      []ID
	IndexMetadata map[string]IndexMetadata
	Version       uint64
}

// NewLibrary constructs an empty library with the given id and metadata.
func NewLibrary(id ID, metadata Metadata) *Library {
	return &Library{
		ID:            id,
		Metadata:      metadata,
		Documents:     make(map[ID]*Document),
		IndexMetadata: make(map[string]IndexMetadata),
	}
}

// AddDocument inserts or replaces a document, preserving original insertion
// order on replace.
func (l *Library) AddDocument(doc *Document) {
	if _, exists := l.Documents[doc.ID]; !exists {
		l.DocOrder = append(l.DocOrder, doc.ID)
	}
	l.Documents[doc.ID] = doc
}

// RemoveDocument deletes a document by id, returning whether it was present.
func (l *Library) RemoveDocument(id ID) bool {
	if _, ok := l.Documents[id]; !ok {
		return false
	}
	delete(l.Documents, id)
	for i, did := range l.DocOrder {
		if did == id {
			l.DocOrder = append(l.DocOrder[:i], l.DocOrder[i+1:]...)
			break
		}
	}
	return true
}

// OrderedDocuments returns the library's documents in insertion order.
func (l *Library) OrderedDocuments() []*Document {
	out := make([]*Document, 0, len(l.DocOrder))
	for _, id := range l.DocOrder {
		if d, ok := l.Documents[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Clone returns a deep copy of the library, including all of its documents
// and chunks. IndexMetadata is copied by value (it carries no pointers
// except through IndexConfig.Seed, which is cloned explicitly).
func (l *Library) Clone() *Library {
	out := &Library{
		ID:            l.ID,
		Metadata:      l.Metadata.Clone(),
		Documents:     make(map[ID]*Document, len(l.Documents)),
		DocOrder:      append([]ID(nil), l.DocOrder...),
		IndexMetadata: make(map[string]IndexMetadata, len(l.IndexMetadata)),
		Version:       l.Version,
	}
	for id, d := range l.Documents {
		out.Documents[id] = d.Clone()
	}
	for name, meta := range l.IndexMetadata {
		out.IndexMetadata[name] = meta.Clone()
	}
	return out
}

// IndexKind enumerates the supported vector index implementations.
type IndexKind string

const (
	IndexKindAVL IndexKind = "avl"
	IndexKindLSH IndexKind = "lsh"
)

// Metric enumerates the supported distance/similarity metrics.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// IndexConfig is the immutable configuration an index is constructed from.
type IndexConfig struct {
	Kind      IndexKind
	Metric    Metric
	NumBits   int
	NumTables int
	Seed      *int64
}

// Clone returns a deep copy of the config.
func (c IndexConfig) Clone() IndexConfig {
	out := c
	if c.Seed != nil {
		seed := *c.Seed
		out.Seed = &seed
	}
	return out
}

// IndexMetadata tracks the status of an index attached to a library.
type IndexMetadata struct {
	Name        string
	Config      IndexConfig
	VectorCount int
	Kind        IndexKind
}

// Clone returns a deep copy of the metadata.
func (m IndexMetadata) Clone() IndexMetadata {
	out := m
	out.Config = m.Config.Clone()
	return out
}
