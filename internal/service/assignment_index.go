package service

import (
	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// NoGradeExclusion disables the excluded grade-slot when probing teacher
// availability, used by the slot-fill advisor on empty cells.
const NoGradeExclusion = -1

// AssignmentIndex resolves the teacher responsible for a (course, grade)
// pair. Occupancy is recomputed from the grid on every availability probe
// instead of keeping a reverse index: the grids are copy-on-write snapshots
// and a secondary index would have to be rebuilt per snapshot anyway.
// Cost is O(grades) per probe, which is trivial at interactive scale.
type AssignmentIndex struct {
	teachers map[assignmentKey]int
}

type assignmentKey struct {
	courseID int
	grade    int
}

// NewAssignmentIndex builds the index from externally supplied assignments.
// Later duplicates of the same (course, grade) pair win, matching the
// record store's upsert semantics.
func NewAssignmentIndex(assignments []models.TeacherAssignment) *AssignmentIndex {
	teachers := make(map[assignmentKey]int, len(assignments))
	for _, a := range assignments {
		teachers[assignmentKey{courseID: a.CourseID, grade: a.Grade}] = a.TeacherID
	}
	return &AssignmentIndex{teachers: teachers}
}

// TeacherFor returns the teacher assigned to the (course, grade) pair. The
// second return is false when no teacher is assigned; edits involving such
// a course are permitted since they cannot double-book anyone.
func (idx *AssignmentIndex) TeacherFor(courseID, grade int) (int, bool) {
	teacherID, ok := idx.teachers[assignmentKey{courseID: courseID, grade: grade}]
	return teacherID, ok
}

// IsTeacherFree scans every grade-slot of grid[day][block] except
// excludeGrade and reports whether the teacher is absent from all of them.
// Pass NoGradeExclusion to scan the full block.
func (idx *AssignmentIndex) IsTeacherFree(grid models.Grid, teacherID, day, block, excludeGrade int) bool {
	for grade := 0; grade < grid.Grades(); grade++ {
		if grade == excludeGrade {
			continue
		}
		courseID := grid.Get(day, block, grade)
		if courseID == 0 {
			continue
		}
		if assigned, ok := idx.TeacherFor(courseID, grade); ok && assigned == teacherID {
			return false
		}
	}
	return true
}
