package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

func variantGrid(marker int) models.Grid {
	return models.NewGrid(1, 1, 1).WithCellSet(0, 0, 0, marker)
}

func TestVariantStoreEvictsOldestAtCapacity(t *testing.T) {
	store := newVariantStore(3)
	store.Add(variantGrid(1))
	store.Add(variantGrid(2))
	store.Add(variantGrid(3))
	store.Add(variantGrid(4))

	require.Equal(t, 3, store.Len())
	first, ok := store.Get(0)
	require.True(t, ok)
	assert.Equal(t, 2, first.Get(0, 0, 0), "oldest variant is evicted first")
	assert.Equal(t, 2, store.Selected(), "a fresh variant is always selected")
}

func TestVariantStoreSelectRejectsMissingIndex(t *testing.T) {
	store := newVariantStore(3)
	store.Add(variantGrid(1))

	assert.False(t, store.Select(-1))
	assert.False(t, store.Select(1))
	assert.True(t, store.Select(0))
}

func TestVariantStoreSyncCurrentPreservesEdits(t *testing.T) {
	store := newVariantStore(3)
	store.Add(variantGrid(1))
	store.Add(variantGrid(2))

	// Edit variant 1, switch away and back: the edit survives.
	require.True(t, store.Select(1))
	edited := variantGrid(2).WithCellSet(0, 0, 0, 99)
	store.SyncCurrent(edited)

	require.True(t, store.Select(0))
	require.True(t, store.Select(1))
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, 99, got.Get(0, 0, 0))
}

func TestVariantStoreSyncCurrentNoOpWhenEmpty(t *testing.T) {
	store := newVariantStore(3)
	store.SyncCurrent(variantGrid(1))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, -1, store.Selected())
}

func TestVariantStoreAllReturnsOldestFirst(t *testing.T) {
	store := newVariantStore(3)
	store.Add(variantGrid(1))
	store.Add(variantGrid(2))

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Get(0, 0, 0))
	assert.Equal(t, 2, all[1].Get(0, 0, 0))
}
