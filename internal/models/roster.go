package models

import "time"

// Teacher represents an instructor record for one education level.
type Teacher struct {
	ID          int       `db:"id" json:"id"`
	FullName    string    `db:"full_name" json:"full_name"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	Level       string    `db:"level" json:"level"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Course represents a teachable subject.
type Course struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Level     string    `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherAssignment binds a (course, grade) pair to the responsible teacher.
type TeacherAssignment struct {
	CourseID  int `db:"course_id" json:"course_id"`
	Grade     int `db:"grade" json:"grade"`
	TeacherID int `db:"teacher_id" json:"teacher_id"`
}

// HourQuota records the required weekly hours for a course within a grade.
type HourQuota struct {
	CourseID int `db:"course_id" json:"course_id"`
	Grade    int `db:"grade" json:"grade"`
	Hours    int `db:"hours" json:"hours"`
}

// RestrictionRule is an externally managed constraint flag passed through to
// the generation service untouched.
type RestrictionRule struct {
	ID      int    `db:"id" json:"id"`
	Level   string `db:"level" json:"level"`
	Rule    string `db:"rule" json:"rule"`
	Enabled bool   `db:"enabled" json:"enabled"`
}

// RosterSnapshot is the immutable per-session view of the externally managed
// records an editing session needs. It is loaded once at session open and
// never refreshed while the session lives.
type RosterSnapshot struct {
	Level        string              `json:"level"`
	Teachers     []Teacher           `json:"teachers"`
	Courses      []Course            `json:"courses"`
	Assignments  []TeacherAssignment `json:"assignments"`
	Quotas       []HourQuota         `json:"quotas"`
	Restrictions []RestrictionRule   `json:"restrictions"`
}

// CourseName resolves a course name for display/export. Returns the empty
// string when the roster does not know the course.
func (s RosterSnapshot) CourseName(courseID int) string {
	for _, course := range s.Courses {
		if course.ID == courseID {
			return course.Name
		}
	}
	return ""
}

// TeacherName resolves a teacher's display name.
func (s RosterSnapshot) TeacherName(teacherID int) string {
	for _, teacher := range s.Teachers {
		if teacher.ID == teacherID {
			return teacher.FullName
		}
	}
	return ""
}
