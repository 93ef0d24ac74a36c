package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-editor/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
)

type editorServiceMock struct {
	capturedLevel string
	capturedEdit  dto.CellEditRequest
	capturedSwap  dto.SwapRequest
	capturedCell  dto.CellRef
	capturedIndex int
	err           error
}

func (m *editorServiceMock) OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SessionResponse{Level: req.Level, Teachers: 2, Courses: 3}, nil
}

func (m *editorServiceMock) CloseSession(level string) error {
	m.capturedLevel = level
	return m.err
}

func (m *editorServiceMock) Grid(level string) (*dto.GridResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.GridResponse{Level: level, Days: 5, Blocks: 6, Grades: 4}, nil
}

func (m *editorServiceMock) PlaceCourse(ctx context.Context, level string, req dto.CellEditRequest) (*dto.EditResult, error) {
	m.capturedLevel = level
	m.capturedEdit = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EditResult{Accepted: true, Version: 1}, nil
}

func (m *editorServiceMock) AttemptSwap(ctx context.Context, level string, req dto.SwapRequest) (*dto.EditResult, error) {
	m.capturedLevel = level
	m.capturedSwap = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EditResult{Accepted: false, Reason: "the moved course's teacher is already booked in the destination block"}, nil
}

func (m *editorServiceMock) Undo(ctx context.Context, level string) (*dto.UndoRedoResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UndoRedoResult{Moved: true, Version: 2}, nil
}

func (m *editorServiceMock) Redo(ctx context.Context, level string) (*dto.UndoRedoResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UndoRedoResult{Moved: false, Version: 2}, nil
}

func (m *editorServiceMock) Generate(ctx context.Context, level string) (*dto.GenerateResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.GenerateResponse{Level: level, Variants: dto.VariantState{Count: 1, Selected: 0, Capacity: 3}}, nil
}

func (m *editorServiceMock) Variants(level string) ([]dto.VariantSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.VariantSummary{{Index: 0, Selected: true, Placed: 12}}, nil
}

func (m *editorServiceMock) SelectVariant(ctx context.Context, level string, index int) (*dto.SelectVariantResponse, error) {
	m.capturedIndex = index
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SelectVariantResponse{Level: level}, nil
}

func (m *editorServiceMock) Stats(ctx context.Context, level string) (*dto.StatsResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.StatsResponse{Level: level}, nil
}

func (m *editorServiceMock) Advice(level string, cell dto.CellRef) (*dto.AdviceResponse, error) {
	m.capturedCell = cell
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AdviceResponse{Cell: cell, Courses: []int{12}}, nil
}

func editorRouter(mock *editorServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &EditorHandler{service: mock}
	router := gin.New()
	router.POST("/editor/sessions", handler.OpenSession)
	router.DELETE("/editor/sessions/:level", handler.CloseSession)
	router.GET("/editor/:level/grid", handler.Grid)
	router.PUT("/editor/:level/cells", handler.PlaceCourse)
	router.POST("/editor/:level/swap", handler.Swap)
	router.POST("/editor/:level/undo", handler.Undo)
	router.POST("/editor/:level/redo", handler.Redo)
	router.POST("/editor/:level/generate", handler.Generate)
	router.GET("/editor/:level/variants", handler.Variants)
	router.PUT("/editor/:level/variants/:index", handler.SelectVariant)
	router.GET("/editor/:level/stats", handler.Stats)
	router.GET("/editor/:level/advice", handler.Advice)
	return router
}

func TestOpenSessionEndpoint(t *testing.T) {
	router := editorRouter(&editorServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/editor/sessions", bytes.NewReader([]byte(`{"level":"senior"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"level":"senior"`)
}

func TestOpenSessionEndpointBadPayload(t *testing.T) {
	router := editorRouter(&editorServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/editor/sessions", bytes.NewReader([]byte(`{"level":`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceCourseEndpoint(t *testing.T) {
	mock := &editorServiceMock{}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/editor/senior/cells", bytes.NewReader([]byte(`{"day":0,"block":1,"grade":2,"course_id":10}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "senior", mock.capturedLevel)
	require.Equal(t, dto.CellEditRequest{Day: 0, Block: 1, Grade: 2, CourseID: 10}, mock.capturedEdit)
}

func TestSwapEndpointRejectionIsStillOK(t *testing.T) {
	mock := &editorServiceMock{}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	payload := `{"source":{"day":0,"block":0,"grade":0},"destination":{"day":0,"block":1,"grade":0}}`
	req, _ := http.NewRequest(http.MethodPost, "/editor/senior/swap", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.EditResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.False(t, envelope.Data.Accepted)
	require.NotEmpty(t, envelope.Data.Reason)
}

func TestSessionNotFoundMapsTo404(t *testing.T) {
	mock := &editorServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "no editing session for this level")}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/editor/senior/grid", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerationBusyMapsTo409(t *testing.T) {
	mock := &editorServiceMock{err: appErrors.Clone(appErrors.ErrGenerationBusy, "")}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/editor/senior/generate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestGenerationFailedMapsTo502(t *testing.T) {
	mock := &editorServiceMock{err: appErrors.Clone(appErrors.ErrGenerationFailed, "generation service unreachable")}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/editor/senior/generate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSelectVariantEndpointParsesIndex(t *testing.T) {
	mock := &editorServiceMock{}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/editor/senior/variants/2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, mock.capturedIndex)
}

func TestSelectVariantEndpointRejectsNonInteger(t *testing.T) {
	router := editorRouter(&editorServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/editor/senior/variants/abc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdviceEndpointParsesCell(t *testing.T) {
	mock := &editorServiceMock{}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/editor/senior/advice?day=1&block=2&grade=3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, dto.CellRef{Day: 1, Block: 2, Grade: 3}, mock.capturedCell)
}

func TestAdviceEndpointMissingQuery(t *testing.T) {
	router := editorRouter(&editorServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/editor/senior/advice?day=1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUndoEndpoint(t *testing.T) {
	router := editorRouter(&editorServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/editor/senior/undo", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"moved":true`)
}

func TestCloseSessionEndpoint(t *testing.T) {
	mock := &editorServiceMock{}
	router := editorRouter(mock)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/editor/sessions/senior", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "senior", mock.capturedLevel)
}
