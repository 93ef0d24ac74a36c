package models

import (
	"encoding/json"
	"fmt"
)

// Grid is one weekly timetable: day × block × grade → course ID, 0 = empty.
// A Grid is never mutated in place; WithCellSet returns an independent copy,
// so every snapshot held by the edit history owns its cells exclusively.
type Grid struct {
	cells [][][]int
}

// NewGrid builds an empty grid with the given dimensions.
func NewGrid(days, blocks, grades int) Grid {
	cells := make([][][]int, days)
	for d := range cells {
		cells[d] = make([][]int, blocks)
		for b := range cells[d] {
			cells[d][b] = make([]int, grades)
		}
	}
	return Grid{cells: cells}
}

// GridFromCells validates a raw cells array (e.g. a solver response or a
// persisted payload) and wraps it. The array must be rectangular with at
// least one day, one block and one grade, and every cell non-negative.
func GridFromCells(cells [][][]int) (Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 || len(cells[0][0]) == 0 {
		return Grid{}, fmt.Errorf("grid payload has empty dimensions")
	}
	blocks := len(cells[0])
	grades := len(cells[0][0])
	copied := make([][][]int, len(cells))
	for d, day := range cells {
		if len(day) != blocks {
			return Grid{}, fmt.Errorf("grid day %d has %d blocks, want %d", d, len(day), blocks)
		}
		copied[d] = make([][]int, blocks)
		for b, block := range day {
			if len(block) != grades {
				return Grid{}, fmt.Errorf("grid cell (%d,%d) has %d grades, want %d", d, b, len(block), grades)
			}
			copied[d][b] = make([]int, grades)
			for g, course := range block {
				if course < 0 {
					return Grid{}, fmt.Errorf("grid cell (%d,%d,%d) holds negative course id %d", d, b, g, course)
				}
				copied[d][b][g] = course
			}
		}
	}
	return Grid{cells: copied}, nil
}

// Days returns the day count.
func (g Grid) Days() int { return len(g.cells) }

// Blocks returns the per-day block count.
func (g Grid) Blocks() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

// Grades returns the per-block grade-slot count.
func (g Grid) Grades() int {
	if len(g.cells) == 0 || len(g.cells[0]) == 0 {
		return 0
	}
	return len(g.cells[0][0])
}

// Get returns the course ID at the cell. Out-of-range indices are a
// programming error and panic; callers validate UI-originated indices at
// the handler boundary.
func (g Grid) Get(day, block, grade int) int {
	return g.cells[day][block][grade]
}

// InRange reports whether the cell reference addresses a valid cell.
func (g Grid) InRange(day, block, grade int) bool {
	return day >= 0 && day < g.Days() &&
		block >= 0 && block < g.Blocks() &&
		grade >= 0 && grade < g.Grades()
}

// WithCellSet returns a deep copy of the grid with exactly one cell changed.
// This is the only mutation primitive; a swap is two calls on the same base.
func (g Grid) WithCellSet(day, block, grade, courseID int) Grid {
	copied := make([][][]int, len(g.cells))
	for d := range g.cells {
		copied[d] = make([][]int, len(g.cells[d]))
		for b := range g.cells[d] {
			copied[d][b] = make([]int, len(g.cells[d][b]))
			copy(copied[d][b], g.cells[d][b])
		}
	}
	copied[day][block][grade] = courseID
	return Grid{cells: copied}
}

// IsEmpty reports whether every cell is 0. Solvers occasionally return a
// well-formed all-zero grid; callers treat that as a generation failure.
func (g Grid) IsEmpty() bool {
	for _, day := range g.cells {
		for _, block := range day {
			for _, course := range block {
				if course != 0 {
					return false
				}
			}
		}
	}
	return true
}

// Equal reports cell-for-cell equality, including dimensions.
func (g Grid) Equal(other Grid) bool {
	if g.Days() != other.Days() || g.Blocks() != other.Blocks() || g.Grades() != other.Grades() {
		return false
	}
	for d, day := range g.cells {
		for b, block := range day {
			for gr, course := range block {
				if other.cells[d][b][gr] != course {
					return false
				}
			}
		}
	}
	return true
}

// Cells returns a deep copy of the underlying array for serialization.
func (g Grid) Cells() [][][]int {
	copied := make([][][]int, len(g.cells))
	for d := range g.cells {
		copied[d] = make([][]int, len(g.cells[d]))
		for b := range g.cells[d] {
			copied[d][b] = make([]int, len(g.cells[d][b]))
			copy(copied[d][b], g.cells[d][b])
		}
	}
	return copied
}

// MarshalJSON encodes the grid as its raw cells array.
func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.cells)
}

// UnmarshalJSON decodes and validates a raw cells array.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var cells [][][]int
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	grid, err := GridFromCells(cells)
	if err != nil {
		return err
	}
	*g = grid
	return nil
}
