package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-editor/internal/dto"
	"github.com/noah-isme/sma-timetable-editor/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
	"github.com/noah-isme/sma-timetable-editor/pkg/response"
)

type editorService interface {
	OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	CloseSession(level string) error
	Grid(level string) (*dto.GridResponse, error)
	PlaceCourse(ctx context.Context, level string, req dto.CellEditRequest) (*dto.EditResult, error)
	AttemptSwap(ctx context.Context, level string, req dto.SwapRequest) (*dto.EditResult, error)
	Undo(ctx context.Context, level string) (*dto.UndoRedoResult, error)
	Redo(ctx context.Context, level string) (*dto.UndoRedoResult, error)
	Generate(ctx context.Context, level string) (*dto.GenerateResponse, error)
	Variants(level string) ([]dto.VariantSummary, error)
	SelectVariant(ctx context.Context, level string, index int) (*dto.SelectVariantResponse, error)
	Stats(ctx context.Context, level string) (*dto.StatsResponse, error)
	Advice(level string, cell dto.CellRef) (*dto.AdviceResponse, error)
}

// EditorHandler exposes the interactive timetable editing endpoints.
type EditorHandler struct {
	service editorService
}

// NewEditorHandler constructs the handler.
func NewEditorHandler(svc *service.EditorService) *EditorHandler {
	return &EditorHandler{service: svc}
}

// OpenSession godoc
// @Summary Open an editing session for an education level
// @Tags Editor
// @Accept json
// @Produce json
// @Param payload body dto.OpenSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /editor/sessions [post]
func (h *EditorHandler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	result, err := h.service.OpenSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// CloseSession godoc
// @Summary Close an editing session
// @Tags Editor
// @Param level path string true "Education level"
// @Success 204
// @Router /editor/sessions/{level} [delete]
func (h *EditorHandler) CloseSession(c *gin.Context) {
	if err := h.service.CloseSession(c.Param("level")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Grid godoc
// @Summary Get the visible grid with editor state
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/grid [get]
func (h *EditorHandler) Grid(c *gin.Context) {
	result, err := h.service.Grid(c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// PlaceCourse godoc
// @Summary Place a course into a cell, course ID 0 clears it
// @Description A conflicting placement returns accepted=false with a reason; it is not an HTTP error.
// @Tags Editor
// @Accept json
// @Produce json
// @Param level path string true "Education level"
// @Param payload body dto.CellEditRequest true "Cell edit payload"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/cells [put]
func (h *EditorHandler) PlaceCourse(c *gin.Context) {
	var req dto.CellEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cell edit payload"))
		return
	}
	result, err := h.service.PlaceCourse(c.Request.Context(), c.Param("level"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Swap godoc
// @Summary Swap the contents of two cells
// @Tags Editor
// @Accept json
// @Produce json
// @Param level path string true "Education level"
// @Param payload body dto.SwapRequest true "Swap payload"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/swap [post]
func (h *EditorHandler) Swap(c *gin.Context) {
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	result, err := h.service.AttemptSwap(c.Request.Context(), c.Param("level"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Undo godoc
// @Summary Step the edit history back one snapshot
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/undo [post]
func (h *EditorHandler) Undo(c *gin.Context) {
	result, err := h.service.Undo(c.Request.Context(), c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Redo godoc
// @Summary Step the edit history forward one snapshot
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/redo [post]
func (h *EditorHandler) Redo(c *gin.Context) {
	result, err := h.service.Redo(c.Request.Context(), c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Generate godoc
// @Summary Request a fresh schedule variant from the generation service
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/generate [post]
func (h *EditorHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context(), c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Variants godoc
// @Summary List stored schedule variants
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/variants [get]
func (h *EditorHandler) Variants(c *gin.Context) {
	result, err := h.service.Variants(c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// SelectVariant godoc
// @Summary Switch the session to a stored variant
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Param index path int true "Variant index"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/variants/{index} [put]
func (h *EditorHandler) SelectVariant(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "variant index must be an integer"))
		return
	}
	result, err := h.service.SelectVariant(c.Request.Context(), c.Param("level"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Stats godoc
// @Summary Completion statistics for the visible grid
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/stats [get]
func (h *EditorHandler) Stats(c *gin.Context) {
	result, err := h.service.Stats(c.Request.Context(), c.Param("level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Advice godoc
// @Summary Courses legally insertable into an empty cell
// @Tags Editor
// @Produce json
// @Param level path string true "Education level"
// @Param day query int true "Day index"
// @Param block query int true "Block index"
// @Param grade query int true "Grade index"
// @Success 200 {object} response.Envelope
// @Router /editor/{level}/advice [get]
func (h *EditorHandler) Advice(c *gin.Context) {
	cell, err := cellFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Advice(c.Param("level"), cell)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func cellFromQuery(c *gin.Context) (dto.CellRef, error) {
	var cell dto.CellRef
	for _, field := range []struct {
		name string
		dest *int
	}{
		{"day", &cell.Day},
		{"block", &cell.Block},
		{"grade", &cell.Grade},
	} {
		value, err := strconv.Atoi(c.Query(field.name))
		if err != nil {
			return dto.CellRef{}, appErrors.Clone(appErrors.ErrValidation, field.name+" must be an integer")
		}
		*field.dest = value
	}
	return cell, nil
}
