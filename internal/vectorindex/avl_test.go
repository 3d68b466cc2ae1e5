package vectorindex

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfield-labs/vectordb/internal/model"
)

func chunkWithVector(vec []float32) model.Chunk {
	return model.Chunk{ID: model.NewID(), Text: "x", Embedding: vec}
}

func TestAVLIndex_SearchReturnsNearestFirst(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)

	target := chunkWithVector([]float32{1, 0, 0})
	near := chunkWithVector([]float32{0.9, 0.1, 0})
	far := chunkWithVector([]float32{0, 1, 0})

	idx.Build([]model.Chunk{far, near, target})

	results, err := idx.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, target.ID, results[0].Chunk.ID)
	assert.Equal(t, near.ID, results[1].Chunk.ID)
	assert.Equal(t, far.ID, results[2].Chunk.ID)
}

func TestAVLIndex_SearchTruncatesToK(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	for i := 0; i < 10; i++ {
		idx.Insert(chunkWithVector([]float32{float32(i), 1, 0}))
	}

	results, err := idx.Search([]float32{0, 1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestAVLIndex_SearchOvershootKReturnsAll(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	idx.Insert(chunkWithVector([]float32{1, 0}))
	idx.Insert(chunkWithVector([]float32{0, 1}))

	results, err := idx.Search([]float32{1, 0}, 100)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestAVLIndex_SearchRejectsInvalidK(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	idx.Insert(chunkWithVector([]float32{1, 0}))

	_, err := idx.Search([]float32{1, 0}, 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestAVLIndex_SearchRejectsDimensionMismatch(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	idx.Insert(chunkWithVector([]float32{1, 0, 0}))

	_, err := idx.Search([]float32{1, 0}, 1)
	var dimErr *DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestAVLIndex_InsertUpdatesExistingChunkInPlace(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	c := chunkWithVector([]float32{1, 0})
	idx.Insert(c)
	assert.Equal(t, 1, idx.VectorCount())

	c.Embedding = []float32{0, 1}
	idx.Insert(c)
	assert.Equal(t, 1, idx.VectorCount(), "re-inserting the same id must not grow the tree")

	results, err := idx.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, float32(1.0), results[0].Score, 1e-6)
}

func TestAVLIndex_DeleteMaintainsBSTInvariant(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	var ids []model.ID
	for i := 0; i < 50; i++ {
		c := chunkWithVector([]float32{float32(i), 1})
		ids = append(ids, c.ID)
		idx.Insert(c)
	}

	for i := 0; i < 50; i += 2 {
		idx.Delete(ids[i])
	}

	assert.Equal(t, 25, idx.VectorCount())
	ordered := idx.inOrder()
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i-1].Compare(ordered[i]) < 0, "in-order traversal must be strictly increasing")
	}
}

func TestAVLIndex_DeleteAbsentIDIsNoop(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	idx.Insert(chunkWithVector([]float32{1, 0}))

	idx.Delete(model.NewID())
	assert.Equal(t, 1, idx.VectorCount())
}

func TestAVLIndex_EuclideanOrdersByAscendingDistance(t *testing.T) {
	idx := NewAVLIndex(model.MetricEuclidean)
	near := chunkWithVector([]float32{1, 1})
	far := chunkWithVector([]float32{10, 10})
	idx.Build([]model.Chunk{far, near})

	results, err := idx.Search([]float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].Chunk.ID)
	assert.Equal(t, far.ID, results[1].Chunk.ID)
}

func TestAVLIndex_InsertSkipsChunksWithoutEmbedding(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	idx.Insert(model.Chunk{ID: model.NewID(), Text: "no vector"})
	assert.Equal(t, 0, idx.VectorCount())
}

// TestAVLIndex_BalanceInvariantUnderRandomInsertDelete drives a long random
// sequence of inserts and deletes and checks, after every single operation,
// that every node's balance factor stays in [-1, 1] and that cached
// heights match their subtrees.
func TestAVLIndex_BalanceInvariantUnderRandomInsertDelete(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	r := rand.New(rand.NewPCG(1, 2))
	var ids []model.ID

	for i := 0; i < 500; i++ {
		if len(ids) == 0 || r.IntN(3) != 0 {
			c := chunkWithVector([]float32{r.Float32(), r.Float32(), r.Float32()})
			idx.Insert(c)
			ids = append(ids, c.ID)
		} else {
			idx.Delete(ids[r.IntN(len(ids))])
		}
		require.NoError(t, idx.validateBalance(), "AVL invariant violated after operation %d", i+1)
	}
}

// TestAVLIndex_HeightIsLogarithmic checks the AVL height bound
// height < 1.5*log2(n+2) after a large bulk insert.
func TestAVLIndex_HeightIsLogarithmic(t *testing.T) {
	idx := NewAVLIndex(model.MetricCosine)
	r := rand.New(rand.NewPCG(7, 11))
	const n = 1000
	for i := 0; i < n; i++ {
		idx.Insert(chunkWithVector([]float32{r.Float32(), r.Float32(), r.Float32(), r.Float32()}))
	}
	require.Equal(t, n, idx.VectorCount())

	bound := 1.5 * math.Log2(float64(n+2))
	assert.Less(t, float64(idx.height()), bound, "AVL height must stay within 1.5*log2(n+2)")
}

// TestAVLIndex_SearchMatchesBruteForce checks AVL top-k search against an
// exhaustive scan for random vector sets and queries, for both metrics.
func TestAVLIndex_SearchMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 34))
	const dim = 6
	const n = 200

	randomVec := func() []float32 {
		v := make([]float32, dim)
		for i := range v {
			v[i] = r.Float32()*2 - 1
		}
		return v
	}

	for _, metric := range []model.Metric{model.MetricCosine, model.MetricEuclidean} {
		idx := NewAVLIndex(metric)
		var chunks []model.Chunk
		for i := 0; i < n; i++ {
			chunks = append(chunks, chunkWithVector(randomVec()))
		}
		idx.Build(chunks)

		for q := 0; q < 10; q++ {
			query := randomVec()
			k := 1 + r.IntN(5)

			got, err := idx.Search(query, k)
			require.NoError(t, err)

			want := bruteForceTopK(chunks, query, metric, k)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Chunk.ID, got[i].Chunk.ID, "metric %v query %d rank %d", metric, q, i)
				assert.InDelta(t, want[i].Score, got[i].Score, 1e-4)
			}
		}
	}
}

// bruteForceTopK scores every chunk against query by exhaustive scan and
// returns the top k using the same scoring and tie-break rules as
// AVLIndex.Search, as a ground truth for property tests.
func bruteForceTopK(chunks []model.Chunk, query []float32, metric model.Metric, k int) []ScoredChunk {
	qv := query
	if metric == model.MetricCosine {
		qv = normalize(query)
	}

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		v := c.Embedding
		var score float32
		if metric == model.MetricCosine {
			v = normalize(v)
			score = dot(v, qv)
		} else {
			score = euclideanDistance(v, qv)
		}
		scored = append(scored, ScoredChunk{Chunk: c, Score: score})
	}

	if metric == model.MetricCosine {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].Score != scored[j].Score {
				return scored[i].Score > scored[j].Score
			}
			return scored[i].Chunk.ID.Compare(scored[j].Chunk.ID) < 0
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].Score != scored[j].Score {
				return scored[i].Score < scored[j].Score
			}
			return scored[i].Chunk.ID.Compare(scored[j].Chunk.ID) < 0
		})
	}

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
