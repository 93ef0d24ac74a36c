package service

import (
	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// editHistory is the linear, truncating undo/redo log for the currently
// selected variant. The cursor always addresses a valid snapshot; committing
// after an undo abandons the forward branch, which is intended behaviour,
// not data loss.
type editHistory struct {
	snapshots []models.Grid
	cursor    int
}

func newEditHistory(seed models.Grid) *editHistory {
	return &editHistory{snapshots: []models.Grid{seed}}
}

// Current returns the visible snapshot.
func (h *editHistory) Current() models.Grid {
	return h.snapshots[h.cursor]
}

// Commit truncates everything after the cursor, appends the new snapshot and
// advances onto it.
func (h *editHistory) Commit(grid models.Grid) {
	h.snapshots = append(h.snapshots[:h.cursor+1], grid)
	h.cursor = len(h.snapshots) - 1
}

// Undo steps back one snapshot; a no-op at the oldest entry.
func (h *editHistory) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo steps forward one snapshot; a no-op at the newest entry.
func (h *editHistory) Redo() bool {
	if h.cursor >= len(h.snapshots)-1 {
		return false
	}
	h.cursor++
	return true
}

// Reset discards the log and starts over from the given snapshot. Called
// whenever the selected variant changes.
func (h *editHistory) Reset(grid models.Grid) {
	h.snapshots = []models.Grid{grid}
	h.cursor = 0
}

// Len reports the snapshot count, cursor position included.
func (h *editHistory) Len() int { return len(h.snapshots) }

// Cursor reports the current position, for UI state (greying out undo/redo).
func (h *editHistory) Cursor() int { return h.cursor }
