package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

type stubGridSource struct {
	grid     models.Grid
	snapshot models.RosterSnapshot
	err      error
}

func (s *stubGridSource) CurrentGrid(level string) (models.Grid, models.RosterSnapshot, error) {
	if s.err != nil {
		return models.Grid{}, models.RosterSnapshot{}, s.err
	}
	return s.grid, s.snapshot, nil
}

func exportFixture() *stubGridSource {
	return &stubGridSource{
		grid: models.NewGrid(1, 2, 2).WithCellSet(0, 0, 0, 10),
		snapshot: models.RosterSnapshot{
			Level:    "senior",
			Teachers: []models.Teacher{{ID: 7, FullName: "Dewi Sartika"}},
			Courses:  []models.Course{{ID: 10, Name: "Mathematics"}},
			Assignments: []models.TeacherAssignment{
				{CourseID: 10, Grade: 0, TeacherID: 7},
			},
		},
	}
}

func TestExportServiceRendersCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), nil, nil, nil)

	result, err := svc.Render("senior", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "timetable_senior_"))

	body := string(result.Payload)
	assert.Contains(t, body, "Day,Block,Grade 1,Grade 2")
	assert.Contains(t, body, "Mathematics (Dewi Sartika)")
}

func TestExportServiceRendersPDF(t *testing.T) {
	svc := NewExportService(exportFixture(), nil, nil, nil)

	result, err := svc.Render("senior", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportServiceUnknownCourseFallsBackToID(t *testing.T) {
	source := exportFixture()
	source.grid = source.grid.WithCellSet(0, 1, 1, 99)
	svc := NewExportService(source, nil, nil, nil)

	result, err := svc.Render("senior", ExportFormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(result.Payload), "#99")
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(exportFixture(), nil, nil, nil)

	_, err := svc.Render("senior", ExportFormat("xlsx"))
	require.Error(t, err)
}
