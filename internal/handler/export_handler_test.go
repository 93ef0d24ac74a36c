package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-editor/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
)

type exportRendererMock struct {
	capturedLevel  string
	capturedFormat service.ExportFormat
	err            error
}

func (m *exportRendererMock) Render(level string, format service.ExportFormat) (*service.ExportResult, error) {
	m.capturedLevel = level
	m.capturedFormat = format
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportResult{
		Filename:    "timetable_senior_20250101_000000.csv",
		ContentType: "text/csv",
		Payload:     []byte("Day,Block\n"),
	}, nil
}

func exportRouter(mock *exportRendererMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: mock}
	router := gin.New()
	router.GET("/editor/:level/export", handler.Download)
	return router
}

func TestExportDownloadDefaultsToCSV(t *testing.T) {
	mock := &exportRendererMock{}
	router := exportRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/editor/senior/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "senior", mock.capturedLevel)
	require.Equal(t, service.ExportFormatCSV, mock.capturedFormat)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestExportDownloadRejectsUnknownFormat(t *testing.T) {
	router := exportRouter(&exportRendererMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/editor/senior/export?format=xlsx", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportDownloadNoSession(t *testing.T) {
	mock := &exportRendererMock{err: appErrors.Clone(appErrors.ErrNotFound, "no editing session for this level")}
	router := exportRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/editor/senior/export?format=pdf", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
