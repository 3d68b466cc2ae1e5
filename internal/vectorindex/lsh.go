package vectorindex

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/brightfield-labs/vectordb/internal/model"
)

// LSHIndex is a locality-sensitive hash index using random hyperplane
// projections. It supports only cosine similarity. Search is approximate:
// candidates are drawn from the union of matching buckets across all
// tables and exactly re-ranked.
type LSHIndex struct {
	numBits   int
	numTables int
	seed      *int64

	planes [][][]float32 // [table][dimension][bit]
	tables []map[string]map[model.ID]struct{}

	chunks    map[model.ID]model.Chunk
	vectors   map[model.ID][]float32
	dimension int
}

// NewLSHIndex constructs an empty LSH index. numBits is the signature
// length per table; numTables is the number of independent hash tables.
// seed makes hyperplane generation reproducible.
func NewLSHIndex(numBits, numTables int, seed *int64) *LSHIndex {
	return &LSHIndex{
		numBits:   numBits,
		numTables: numTables,
		seed:      seed,
		chunks:    make(map[model.ID]model.Chunk),
		vectors:   make(map[model.ID][]float32),
	}
}

func (idx *LSHIndex) Kind() model.IndexKind { return model.IndexKindLSH }
func (idx *LSHIndex) Metric() model.Metric  { return model.MetricCosine }
func (idx *LSHIndex) VectorCount() int      { return len(idx.chunks) }

func (idx *LSHIndex) rng() *rand.Rand {
	if idx.seed != nil {
		return rand.New(rand.NewPCG(uint64(*idx.seed), uint64(*idx.seed)>>1|1))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// initPlanes draws numTables hyperplane matrices of shape (dimension,
// numBits) with i.i.d. standard-normal entries, using the configured seed
// so property tests are reproducible.
func (idx *LSHIndex) initPlanes(dimension int) {
	if len(idx.planes) != 0 {
		return
	}
	idx.dimension = dimension

	r := idx.rng()
	idx.planes = make([][][]float32, idx.numTables)
	idx.tables = make([]map[string]map[model.ID]struct{}, idx.numTables)
	for t := 0; t < idx.numTables; t++ {
		plane := make([][]float32, dimension)
		for d := 0; d < dimension; d++ {
			row := make([]float32, idx.numBits)
			for b := 0; b < idx.numBits; b++ {
				row[b] = float32(r.NormFloat64())
			}
			plane[d] = row
		}
		idx.planes[t] = plane
		idx.tables[t] = make(map[string]map[model.ID]struct{})
	}
}

// signature computes the hash signature (bit string) for a vector in a
// given table: the sign of its dot product with each hyperplane column.
func (idx *LSHIndex) signature(vector []float32, table int) string {
	var sb strings.Builder
	sb.Grow(idx.numBits)
	planes := idx.planes[table]
	for b := 0; b < idx.numBits; b++ {
		var projection float32
		for d, row := range planes {
			projection += vector[d] * row[b]
		}
		if projection > 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Build clears all state and bulk-inserts the given chunks.
func (idx *LSHIndex) Build(chunks []model.Chunk) {
	idx.chunks = make(map[model.ID]model.Chunk)
	idx.vectors = make(map[model.ID][]float32)
	idx.planes = nil
	idx.tables = nil
	idx.dimension = 0

	for _, c := range chunks {
		idx.Insert(c)
	}
}

// Insert normalizes and adds a single chunk. The first accepted chunk
// fixes the index's dimension; subsequent vectors of a different
// dimension are rejected without effect.
func (idx *LSHIndex) Insert(chunk model.Chunk) {
	if !chunk.HasEmbedding() {
		return
	}

	vector := normalize(chunk.Embedding)

	if idx.dimension == 0 {
		idx.initPlanes(len(vector))
	} else if len(vector) != idx.dimension {
		return
	}

	idx.chunks[chunk.ID] = chunk
	idx.vectors[chunk.ID] = vector

	for t := 0; t < idx.numTables; t++ {
		sig := idx.signature(vector, t)
		bucket, ok := idx.tables[t][sig]
		if !ok {
			bucket = make(map[model.ID]struct{})
			idx.tables[t][sig] = bucket
		}
		bucket[chunk.ID] = struct{}{}
	}
}

// Delete removes a chunk by id, pruning any buckets left empty.
func (idx *LSHIndex) Delete(id model.ID) {
	vector, ok := idx.vectors[id]
	if !ok {
		return
	}

	for t := 0; t < idx.numTables; t++ {
		sig := idx.signature(vector, t)
		if bucket, ok := idx.tables[t][sig]; ok {
			delete(bucket, id)
			if len(bucket) == 0 {
				delete(idx.tables[t], sig)
			}
		}
	}

	delete(idx.chunks, id)
	delete(idx.vectors, id)
}

// Search normalizes the query, unions candidates from the matching bucket
// in every table, and exactly re-ranks the candidate set.
func (idx *LSHIndex) Search(query []float32, k int) ([]ScoredChunk, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(idx.planes) == 0 || len(idx.vectors) == 0 {
		return []ScoredChunk{}, nil
	}
	if len(query) != idx.dimension {
		return nil, &DimensionMismatchError{Expected: idx.dimension, Got: len(query)}
	}

	queryVector := normalize(query)

	candidateIDs := make(map[model.ID]struct{})
	for t := 0; t < idx.numTables; t++ {
		sig := idx.signature(queryVector, t)
		for id := range idx.tables[t][sig] {
			candidateIDs[id] = struct{}{}
		}
	}
	if len(candidateIDs) == 0 {
		return []ScoredChunk{}, nil
	}

	results := make([]ScoredChunk, 0, len(candidateIDs))
	for id := range candidateIDs {
		score := dot(idx.vectors[id], queryVector)
		results = append(results, ScoredChunk{Chunk: idx.chunks[id], Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID.Compare(results[j].Chunk.ID) < 0
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
