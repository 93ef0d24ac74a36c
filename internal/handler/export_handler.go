package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-editor/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
	"github.com/noah-isme/sma-timetable-editor/pkg/response"
)

type exportRenderer interface {
	Render(level string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams rendered timetable downloads.
type ExportHandler struct {
	service exportRenderer
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Download godoc
// @Summary Download the visible grid as CSV or PDF
// @Tags Editor
// @Produce octet-stream
// @Param level path string true "Education level"
// @Param format query string true "Export format" Enums(csv, pdf)
// @Success 200 {file} binary
// @Router /editor/{level}/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	if format != service.ExportFormatCSV && format != service.ExportFormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	result, err := h.service.Render(c.Param("level"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
