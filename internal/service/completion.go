package service

import (
	"sort"

	"github.com/samber/lo"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// CompletionAccountant computes placed-versus-required hour statistics over
// the currently visible grid. It is a read-only observer.
type CompletionAccountant struct {
	quotas []models.HourQuota
}

// NewCompletionAccountant wraps the hour quotas of the active level.
func NewCompletionAccountant(quotas []models.HourQuota) *CompletionAccountant {
	return &CompletionAccountant{quotas: quotas}
}

// RequiredTotal sums the quota hours of every (course, grade) pair.
func (a *CompletionAccountant) RequiredTotal() int {
	return lo.SumBy(a.quotas, func(q models.HourQuota) int { return q.Hours })
}

// PlacedTotal counts the non-empty cells of the grid.
func (a *CompletionAccountant) PlacedTotal(grid models.Grid) int {
	placed := 0
	for day := 0; day < grid.Days(); day++ {
		for block := 0; block < grid.Blocks(); block++ {
			for grade := 0; grade < grid.Grades(); grade++ {
				if grid.Get(day, block, grade) != 0 {
					placed++
				}
			}
		}
	}
	return placed
}

// CompletionRatio is placed over required, 0 when nothing is required.
func (a *CompletionAccountant) CompletionRatio(grid models.Grid) float64 {
	required := a.RequiredTotal()
	if required == 0 {
		return 0
	}
	return float64(a.PlacedTotal(grid)) / float64(required)
}

// MissingHours returns the unmet quota for one (course, grade) pair, never
// negative even when more hours are placed than required.
func (a *CompletionAccountant) MissingHours(grid models.Grid, courseID, grade int) int {
	required := 0
	for _, q := range a.quotas {
		if q.CourseID == courseID && q.Grade == grade {
			required = q.Hours
			break
		}
	}
	missing := required - placedHours(grid, courseID, grade)
	if missing < 0 {
		return 0
	}
	return missing
}

// Shortfalls lists every (course, grade) pair alongside its placed and
// missing hours, ordered by grade then course for stable rendering.
func (a *CompletionAccountant) Shortfalls(grid models.Grid) []models.ShortfallRow {
	rows := lo.Map(a.quotas, func(q models.HourQuota, _ int) models.ShortfallRow {
		placed := placedHours(grid, q.CourseID, q.Grade)
		missing := q.Hours - placed
		if missing < 0 {
			missing = 0
		}
		return models.ShortfallRow{
			CourseID: q.CourseID,
			Grade:    q.Grade,
			Required: q.Hours,
			Placed:   placed,
			Missing:  missing,
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Grade == rows[j].Grade {
			return rows[i].CourseID < rows[j].CourseID
		}
		return rows[i].Grade < rows[j].Grade
	})
	return rows
}
