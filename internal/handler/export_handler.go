package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/service"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/response"
)

// ExportHandler streams rendered CSV/PDF exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Records godoc
// @Summary Export filtered records
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param X-Session-ID header string true "Session ID"
// @Param course query string false "Restrict to one course code"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/records [get]
func (h *ExportHandler) Records(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	file, err := h.exports.Records(c.Request.Context(), middleware.SessionID(c), courseFilter(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}

// Statistics godoc
// @Summary Export per-course statistics
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param X-Session-ID header string true "Session ID"
// @Param course query string false "Restrict to one course code"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/statistics [get]
func (h *ExportHandler) Statistics(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	file, err := h.exports.Statistics(c.Request.Context(), middleware.SessionID(c), courseFilter(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExport(c, file)
}

func writeExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
