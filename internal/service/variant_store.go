package service

import (
	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// variantStore holds the bounded list of generated schedule variants and the
// index of the one currently being edited. The stored grid at the selected
// index always mirrors the newest state of the edit history, so switching
// away and back never loses accepted edits.
type variantStore struct {
	grids    []models.Grid
	selected int
	capacity int
}

func newVariantStore(capacity int) *variantStore {
	if capacity <= 0 {
		capacity = 3
	}
	return &variantStore{grids: make([]models.Grid, 0, capacity), selected: -1, capacity: capacity}
}

// Add appends a freshly generated variant, evicting the oldest entry when
// the store is at capacity, and selects the new entry.
func (s *variantStore) Add(grid models.Grid) {
	if len(s.grids) == s.capacity {
		s.grids = append(s.grids[:0], s.grids[1:]...)
	}
	s.grids = append(s.grids, grid)
	s.selected = len(s.grids) - 1
}

// Select switches to a stored variant. Returns false for an index without a
// stored grid.
func (s *variantStore) Select(index int) bool {
	if index < 0 || index >= len(s.grids) {
		return false
	}
	s.selected = index
	return true
}

// SyncCurrent overwrites the stored grid at the selected index. Called on
// every accepted edit history commit.
func (s *variantStore) SyncCurrent(grid models.Grid) {
	if s.selected < 0 {
		return
	}
	s.grids[s.selected] = grid
}

// Selected returns the selected index, -1 when the store is empty.
func (s *variantStore) Selected() int { return s.selected }

// Len reports how many variants are stored.
func (s *variantStore) Len() int { return len(s.grids) }

// Get returns the stored grid at index.
func (s *variantStore) Get(index int) (models.Grid, bool) {
	if index < 0 || index >= len(s.grids) {
		return models.Grid{}, false
	}
	return s.grids[index], true
}

// All returns the stored grids oldest-first.
func (s *variantStore) All() []models.Grid {
	out := make([]models.Grid, len(s.grids))
	copy(out, s.grids)
	return out
}
