package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// RosterRepository loads the externally managed records an editing session
// reads: teachers, courses, assignments, hour quotas and restriction rules.
// The editor never writes these tables; other services own their lifecycle.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Snapshot loads the complete roster view for one education level in a
// single pass. Sessions hold on to the result unchanged for their lifetime.
func (r *RosterRepository) Snapshot(ctx context.Context, level string) (models.RosterSnapshot, error) {
	snapshot := models.RosterSnapshot{Level: level}

	const teacherQuery = `SELECT id, full_name, weekly_hours, level, active, created_at, updated_at
FROM teachers WHERE level = $1 AND active = TRUE ORDER BY id`
	if err := r.db.SelectContext(ctx, &snapshot.Teachers, teacherQuery, level); err != nil {
		return models.RosterSnapshot{}, fmt.Errorf("load teachers: %w", err)
	}

	const courseQuery = `SELECT id, name, level, created_at, updated_at
FROM courses WHERE level = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &snapshot.Courses, courseQuery, level); err != nil {
		return models.RosterSnapshot{}, fmt.Errorf("load courses: %w", err)
	}

	const assignmentQuery = `SELECT ta.course_id, ta.grade, ta.teacher_id
FROM teacher_assignments ta
JOIN courses c ON c.id = ta.course_id
WHERE c.level = $1 ORDER BY ta.course_id, ta.grade`
	if err := r.db.SelectContext(ctx, &snapshot.Assignments, assignmentQuery, level); err != nil {
		return models.RosterSnapshot{}, fmt.Errorf("load teacher assignments: %w", err)
	}

	const quotaQuery = `SELECT hq.course_id, hq.grade, hq.hours
FROM hour_quotas hq
JOIN courses c ON c.id = hq.course_id
WHERE c.level = $1 ORDER BY hq.grade, hq.course_id`
	if err := r.db.SelectContext(ctx, &snapshot.Quotas, quotaQuery, level); err != nil {
		return models.RosterSnapshot{}, fmt.Errorf("load hour quotas: %w", err)
	}

	const restrictionQuery = `SELECT id, level, rule, enabled
FROM restriction_rules WHERE level = $1 AND enabled = TRUE ORDER BY id`
	if err := r.db.SelectContext(ctx, &snapshot.Restrictions, restrictionQuery, level); err != nil {
		return models.RosterSnapshot{}, fmt.Errorf("load restriction rules: %w", err)
	}

	return snapshot, nil
}
