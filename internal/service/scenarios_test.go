package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/model"
)

func TestScenario_S1_Neighborhood(t *testing.T) {
	h := newHarness()
	libID, _, _ := h.seedLibrary(t, s1Vectors())

	cfg := model.IndexConfig{Kind: model.IndexKindAVL, Metric: model.MetricCosine}
	_, err := h.index.CreateIndex(libID, "main", cfg)
	require.NoError(t, err)

	results, err := h.search.Search(context.Background(), libID, "main", []float32{0.11, 0.21, 0.79}, "", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cat", results[0].Chunk.Text)
	assert.Greater(t, results[0].Similarity, float32(0.99))
	assert.Equal(t, "kitten", results[1].Chunk.Text)
	assert.Greater(t, results[1].Similarity, float32(0.95))
	assert.Less(t, results[1].Similarity, results[0].Similarity)
}

func TestScenario_S2_KTruncation(t *testing.T) {
	h := newHarness()
	libID, _, _ := h.seedLibrary(t, s1Vectors())
	_, err := h.index.CreateIndex(libID, "main", model.IndexConfig{Kind: model.IndexKindAVL, Metric: model.MetricCosine})
	require.NoError(t, err)

	results, err := h.search.Search(context.Background(), libID, "main", []float32{0.9, 0.2, 0.1}, "", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "dog", results[0].Chunk.Text)
}

func TestScenario_S3_KOvershoot(t *testing.T) {
	h := newHarness()
	libID, _, _ := h.seedLibrary(t, s1Vectors())
	_, err := h.index.CreateIndex(libID, "main", model.IndexConfig{Kind: model.IndexKindAVL, Metric: model.MetricCosine})
	require.NoError(t, err)

	results, err := h.search.Search(context.Background(), libID, "main", []float32{0.1, 0.9, 0.1}, "", 100)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestScenario_S4_IncrementalUpdate(t *testing.T) {
	h := newHarness()
	libID, _, _ := h.seedLibrary(t, map[string][]float32{"cat": {0.1, 0.2, 0.8}})
	_, err := h.index.CreateIndex(libID, "main", model.IndexConfig{Kind: model.IndexKindAVL, Metric: model.MetricCosine})
	require.NoError(t, err)

	doc, err := h.document.ListDocuments(libID)
	require.NoError(t, err)
	require.Len(t, doc, 1)

	_, err = h.chunk.CreateChunk(context.Background(), libID, doc[0].ID, "dog", nil)
	require.NoError(t, err)
	err = h.store.WithWriteLock(libID, func(l *model.Library) error {
		for _, c := range l.Documents[doc[0].ID].Chunks {
			if c.Text == "dog" {
				c.Embedding = []float32{0.9, 0.2, 0.1}
				h.index.applyInsert(l, *c)
			}
		}
		return nil
	})
	require.NoError(t, err)

	meta, err := h.index.GetIndexMetadata(libID, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, meta.VectorCount)

	results, err := h.search.Search(context.Background(), libID, "main", []float32{0.9, 0.2, 0.1}, "", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "dog", results[0].Chunk.Text)
}

func TestScenario_S5_LSHConfiguration(t *testing.T) {
	h := newHarness()
	libID, _, _ := h.seedLibrary(t, s1Vectors())

	seed := int64(42)
	cfg := model.IndexConfig{Kind: model.IndexKindLSH, Metric: model.MetricCosine, NumBits: 8, NumTables: 5, Seed: &seed}
	_, err := h.index.CreateIndex(libID, "lsh", cfg)
	require.NoError(t, err)

	results, err := h.search.Search(context.Background(), libID, "lsh", []float32{0.99, 0.01, 0.0}, "", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "dog", results[0].Chunk.Text)
	assert.Greater(t, results[0].Similarity, float32(0.9))

	badCfg := model.IndexConfig{Kind: model.IndexKindLSH, Metric: model.MetricEuclidean, NumBits: 8, NumTables: 5}
	_, err = h.index.CreateIndex(libID, "lsh-bad", badCfg)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CategoryConfigInvalid, apiErr.Category)
}

func TestScenario_S6_CascadeDelete(t *testing.T) {
	h := newHarness()
	libID, docID, _ := h.seedLibrary(t, map[string][]float32{"only": {0.1, 0.2, 0.8}})

	_, err := h.index.CreateIndex(libID, "avl", model.IndexConfig{Kind: model.IndexKindAVL, Metric: model.MetricCosine})
	require.NoError(t, err)
	seed := int64(1)
	_, err = h.index.CreateIndex(libID, "lsh", model.IndexConfig{Kind: model.IndexKindLSH, Metric: model.MetricCosine, NumBits: 8, NumTables: 3, Seed: &seed})
	require.NoError(t, err)

	require.NoError(t, h.document.DeleteDocument(libID, docID))

	avlMeta, err := h.index.GetIndexMetadata(libID, "avl")
	require.NoError(t, err)
	assert.Equal(t, 0, avlMeta.VectorCount)

	lshMeta, err := h.index.GetIndexMetadata(libID, "lsh")
	require.NoError(t, err)
	assert.Equal(t, 0, lshMeta.VectorCount)

	avlResults, err := h.search.Search(context.Background(), libID, "avl", []float32{0.1, 0.2, 0.8}, "", 5)
	require.NoError(t, err)
	assert.Empty(t, avlResults)

	lshResults, err := h.search.Search(context.Background(), libID, "lsh", []float32{0.1, 0.2, 0.8}, "", 5)
	require.NoError(t, err)
	assert.Empty(t, lshResults)
}
