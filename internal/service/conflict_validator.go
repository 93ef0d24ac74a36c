package service

import (
	"sort"

	"github.com/noah-isme/sma-timetable-editor/internal/dto"
	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// ConflictValidator holds the pure predicates that gate every manual edit.
type ConflictValidator struct {
	index  *AssignmentIndex
	quotas map[assignmentKey]int
}

// NewConflictValidator builds a validator over an assignment index and the
// externally supplied hour quotas.
func NewConflictValidator(index *AssignmentIndex, quotas []models.HourQuota) *ConflictValidator {
	quotaMap := make(map[assignmentKey]int, len(quotas))
	for _, q := range quotas {
		quotaMap[assignmentKey{courseID: q.CourseID, grade: q.Grade}] = q.Hours
	}
	return &ConflictValidator{index: index, quotas: quotaMap}
}

// CanPlace decides whether courseID may be written into the cell. Clearing a
// cell (courseID 0) and courses without an assigned teacher are always legal.
func (v *ConflictValidator) CanPlace(grid models.Grid, day, block, grade, courseID int) bool {
	if courseID == 0 {
		return true
	}
	teacherID, ok := v.index.TeacherFor(courseID, grade)
	if !ok {
		return true
	}
	return v.index.IsTeacherFree(grid, teacherID, day, block, grade)
}

// CanSwap decides whether the course at src may be dropped onto dst. The
// destination grade-slot itself is excluded from the availability scan: its
// resident course is displaced by the swap, not double-booked against.
func (v *ConflictValidator) CanSwap(grid models.Grid, src, dst dto.CellRef) bool {
	movingCourse := grid.Get(src.Day, src.Block, src.Grade)
	if movingCourse == 0 {
		return true
	}
	teacherID, ok := v.index.TeacherFor(movingCourse, dst.Grade)
	if !ok {
		return true
	}
	return v.index.IsTeacherFree(grid, teacherID, dst.Day, dst.Block, dst.Grade)
}

// ApplySwap produces the post-swap grid: destination receives the moving
// course and the displaced resident moves back to the source, so the multiset
// of placed cells is conserved. Callers must have accepted CanSwap first.
func (v *ConflictValidator) ApplySwap(grid models.Grid, src, dst dto.CellRef) models.Grid {
	movingCourse := grid.Get(src.Day, src.Block, src.Grade)
	residentCourse := grid.Get(dst.Day, dst.Block, dst.Grade)
	swapped := grid.WithCellSet(dst.Day, dst.Block, dst.Grade, movingCourse)
	return swapped.WithCellSet(src.Day, src.Block, src.Grade, residentCourse)
}

// EligibleCourses computes the slot-fill advice for an empty cell: courses of
// that grade with unmet hour quota whose teacher is absent from the whole
// block. An empty result is a valid answer.
func (v *ConflictValidator) EligibleCourses(grid models.Grid, day, block, grade int) []int {
	candidates := make([]int, 0)
	for key, required := range v.quotas {
		if key.grade != grade {
			continue
		}
		placed := placedHours(grid, key.courseID, grade)
		if placed >= required {
			continue
		}
		teacherID, ok := v.index.TeacherFor(key.courseID, grade)
		if ok && !v.index.IsTeacherFree(grid, teacherID, day, block, NoGradeExclusion) {
			continue
		}
		candidates = append(candidates, key.courseID)
	}
	sort.Ints(candidates)
	return candidates
}

func placedHours(grid models.Grid, courseID, grade int) int {
	placed := 0
	for day := 0; day < grid.Days(); day++ {
		for block := 0; block < grid.Blocks(); block++ {
			if grid.Get(day, block, grade) == courseID {
				placed++
			}
		}
	}
	return placed
}
