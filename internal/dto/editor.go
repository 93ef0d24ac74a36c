package dto

import (
	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// CellRef addresses one grid cell in requests. Indices are validated against
// the session's grid shape at the handler boundary.
type CellRef struct {
	Day   int `json:"day" validate:"min=0"`
	Block int `json:"block" validate:"min=0"`
	Grade int `json:"grade" validate:"min=0"`
}

// OpenSessionRequest starts an editing session for an education level.
type OpenSessionRequest struct {
	Level string `json:"level" validate:"required"`
}

// CellEditRequest writes a course into a cell; course ID 0 clears it.
type CellEditRequest struct {
	Day      int `json:"day" validate:"min=0"`
	Block    int `json:"block" validate:"min=0"`
	Grade    int `json:"grade" validate:"min=0"`
	CourseID int `json:"course_id" validate:"min=0"`
}

// SwapRequest attempts a drag-and-drop move between two cells.
type SwapRequest struct {
	Source      CellRef `json:"source"`
	Destination CellRef `json:"destination"`
}

// EditResult reports the outcome of a manual edit attempt. A rejection is a
// normal, displayable result, not an error: the grid stays unchanged and no
// history entry is created.
type EditResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Version  int    `json:"version"`
}

// HistoryState exposes undo/redo availability for the UI.
type HistoryState struct {
	Cursor  int  `json:"cursor"`
	Length  int  `json:"length"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// VariantState summarises the stored variant list.
type VariantState struct {
	Count    int `json:"count"`
	Selected int `json:"selected"`
	Capacity int `json:"capacity"`
}

// GridResponse carries the currently visible grid plus editor state.
type GridResponse struct {
	Level    string         `json:"level"`
	Days     int            `json:"days"`
	Blocks   int            `json:"blocks"`
	Grades   int            `json:"grades"`
	Cells    [][][]int      `json:"cells"`
	Colors   map[int]string `json:"colors"`
	Version  int            `json:"version"`
	History  HistoryState   `json:"history"`
	Variants VariantState   `json:"variants"`
}

// SessionResponse describes a freshly opened session.
type SessionResponse struct {
	Level    string       `json:"level"`
	Teachers int          `json:"teachers"`
	Courses  int          `json:"courses"`
	Variants VariantState `json:"variants"`
}

// AdviceResponse lists the courses legally insertable into an empty cell.
// An empty list is a valid, displayable answer.
type AdviceResponse struct {
	Cell    CellRef `json:"cell"`
	Courses []int   `json:"courses"`
}

// StatsResponse wraps completion statistics for the visible grid.
type StatsResponse struct {
	Level string                 `json:"level"`
	Stats models.CompletionStats `json:"stats"`
}

// UndoRedoResult reports whether the cursor actually moved.
type UndoRedoResult struct {
	Moved   bool         `json:"moved"`
	Version int          `json:"version"`
	History HistoryState `json:"history"`
}
