package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRosterRepositorySnapshot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT id, full_name, weekly_hours, level, active, created_at, updated_at").
		WithArgs("senior").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "weekly_hours", "level", "active", "created_at", "updated_at"}).
			AddRow(7, "Dewi Sartika", 24, "senior", true, now, now).
			AddRow(8, "Rudi Hartono", 20, "senior", true, now, now))

	mock.ExpectQuery("SELECT id, name, level, created_at, updated_at").
		WithArgs("senior").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "created_at", "updated_at"}).
			AddRow(10, "Mathematics", "senior", now, now).
			AddRow(11, "Physics", "senior", now, now))

	mock.ExpectQuery("SELECT ta.course_id, ta.grade, ta.teacher_id").
		WithArgs("senior").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "grade", "teacher_id"}).
			AddRow(10, 0, 7).
			AddRow(11, 1, 7))

	mock.ExpectQuery("SELECT hq.course_id, hq.grade, hq.hours").
		WithArgs("senior").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "grade", "hours"}).
			AddRow(10, 0, 4).
			AddRow(11, 1, 3))

	mock.ExpectQuery("SELECT id, level, rule, enabled").
		WithArgs("senior").
		WillReturnRows(sqlmock.NewRows([]string{"id", "level", "rule", "enabled"}).
			AddRow(1, "senior", "no_first_block:7", true))

	snapshot, err := repo.Snapshot(context.Background(), "senior")
	require.NoError(t, err)
	assert.Equal(t, "senior", snapshot.Level)
	assert.Len(t, snapshot.Teachers, 2)
	assert.Len(t, snapshot.Courses, 2)
	assert.Len(t, snapshot.Assignments, 2)
	assert.Len(t, snapshot.Quotas, 2)
	assert.Len(t, snapshot.Restrictions, 1)
	assert.Equal(t, "Mathematics", snapshot.CourseName(10))
	assert.Equal(t, "Dewi Sartika", snapshot.TeacherName(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositorySnapshotQueryError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectQuery("SELECT id, full_name, weekly_hours, level, active, created_at, updated_at").
		WithArgs("senior").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Snapshot(context.Background(), "senior")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
