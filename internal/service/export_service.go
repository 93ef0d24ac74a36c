package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
	"github.com/noah-isme/sma-timetable-editor/pkg/export"
)

// ExportFormat enumerates supported download formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type gridSource interface {
	CurrentGrid(level string) (models.Grid, models.RosterSnapshot, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the currently visible grid of a session into a
// downloadable document. Course and teacher names come from the session's
// roster snapshot; unknown IDs fall back to their numeric form.
type ExportService struct {
	source gridSource
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(source gridSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{source: source, csv: csv, pdf: pdf, logger: logger}
}

// Render produces the download for the level's visible grid.
func (s *ExportService) Render(level string, format ExportFormat) (*ExportResult, error) {
	grid, snapshot, err := s.source.CurrentGrid(level)
	if err != nil {
		return nil, err
	}

	dataset := buildTimetableDataset(grid, snapshot)
	title := fmt.Sprintf("Weekly Timetable %s", level)
	filename := fmt.Sprintf("timetable_%s_%s.%s", sanitizeFilename(level), time.Now().UTC().Format("20060102_150405"), format)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
		return &ExportResult{Filename: filename, ContentType: "text/csv", Payload: payload}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportResult{Filename: filename, ContentType: "application/pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// buildTimetableDataset lays the grid out one row per (day, block) with a
// column per grade.
func buildTimetableDataset(grid models.Grid, snapshot models.RosterSnapshot) export.Dataset {
	headers := []string{"Day", "Block"}
	for grade := 0; grade < grid.Grades(); grade++ {
		headers = append(headers, fmt.Sprintf("Grade %d", grade+1))
	}

	rows := make([]map[string]string, 0, grid.Days()*grid.Blocks())
	for day := 0; day < grid.Days(); day++ {
		for block := 0; block < grid.Blocks(); block++ {
			row := map[string]string{
				"Day":   fmt.Sprintf("%d", day+1),
				"Block": fmt.Sprintf("%d", block+1),
			}
			for grade := 0; grade < grid.Grades(); grade++ {
				row[fmt.Sprintf("Grade %d", grade+1)] = describeCell(grid, snapshot, day, block, grade)
			}
			rows = append(rows, row)
		}
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

func describeCell(grid models.Grid, snapshot models.RosterSnapshot, day, block, grade int) string {
	courseID := grid.Get(day, block, grade)
	if courseID == 0 {
		return ""
	}
	name := snapshot.CourseName(courseID)
	if name == "" {
		name = fmt.Sprintf("#%d", courseID)
	}
	for _, assignment := range snapshot.Assignments {
		if assignment.CourseID == courseID && assignment.Grade == grade {
			if teacher := snapshot.TeacherName(assignment.TeacherID); teacher != "" {
				return fmt.Sprintf("%s (%s)", name, teacher)
			}
			break
		}
	}
	return name
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
