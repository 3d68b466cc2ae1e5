package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/model"
)

func TestLibraryService_CreateAndGet(t *testing.T) {
	h := newHarness()
	lib := h.library.CreateLibrary(model.Metadata{"name": model.StringValue("papers")})

	got, err := h.library.GetLibrary(lib.ID)
	require.NoError(t, err)
	assert.Equal(t, "papers", got.Metadata["name"].Str)
}

func TestLibraryService_GetMissingReturnsNotFound(t *testing.T) {
	h := newHarness()
	_, err := h.library.GetLibrary(model.NewID())

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CategoryNotFound, apiErr.Category)
}

func TestLibraryService_UpdateMergesMetadata(t *testing.T) {
	h := newHarness()
	lib := h.library.CreateLibrary(model.Metadata{
		"name": model.StringValue("papers"),
		"tag":  model.StringValue("science"),
	})

	updated, err := h.library.UpdateLibrary(lib.ID, model.Metadata{"tag": model.StringValue("physics")})
	require.NoError(t, err)

	assert.Equal(t, "papers", updated.Metadata["name"].Str, "unspecified fields must survive an update")
	assert.Equal(t, "physics", updated.Metadata["tag"].Str)
	assert.Equal(t, uint64(1), updated.Version)
}

func TestLibraryService_DeleteDropsAttachedIndices(t *testing.T) {
	h := newHarness()
	lib := h.library.CreateLibrary(nil)
	_, err := h.index.CreateIndex(lib.ID, "main", model.IndexConfig{Kind: model.IndexKindAVL, Metric: model.MetricCosine})
	require.NoError(t, err)

	require.NoError(t, h.library.DeleteLibrary(lib.ID))

	_, attached := h.index.registry.get(lib.ID, "main")
	assert.False(t, attached, "deleting a library must drop its live indices")

	_, err = h.library.GetLibrary(lib.ID)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CategoryNotFound, apiErr.Category)
}

func TestLibraryService_ListLibraries(t *testing.T) {
	h := newHarness()
	h.library.CreateLibrary(nil)
	h.library.CreateLibrary(nil)

	assert.Len(t, h.library.ListLibraries(), 2)
}
