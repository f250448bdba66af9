package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/service"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/response"
)

// UploadHandler accepts result spreadsheets and manages session datasets.
type UploadHandler struct {
	datasets *service.DatasetService
	maxBytes int64
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(datasets *service.DatasetService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &UploadHandler{datasets: datasets, maxBytes: maxBytes}
}

// uploadSummary is the response body for a successful upload.
type uploadSummary struct {
	SessionID   string   `json:"session_id"`
	FileName    string   `json:"file_name"`
	RecordCount int      `json:"record_count"`
	Diagnostics []string `json:"diagnostics"`
}

// Upload godoc
// @Summary Upload a result spreadsheet
// @Description Parses a CSV or XLSX result sheet and installs it as the session's dataset. Omit X-Session-ID to start a new session.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Result spreadsheet (.csv or .xlsx)"
// @Param X-Session-ID header string false "Existing session to replace"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.datasets == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing or oversized file upload"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read uploaded file"))
		return
	}
	defer file.Close()

	sessionID := strings.TrimSpace(c.GetHeader(middleware.SessionHeader))
	dataset, err := h.datasets.Upload(c.Request.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	diagnostics := dataset.Diagnostics
	if diagnostics == nil {
		diagnostics = []string{}
	}
	response.Created(c, uploadSummary{
		SessionID:   dataset.SessionID,
		FileName:    dataset.FileName,
		RecordCount: len(dataset.Records),
		Diagnostics: diagnostics,
	})
}

// Session godoc
// @Summary Session dataset summary
// @Tags Uploads
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /session [get]
func (h *UploadHandler) Session(c *gin.Context) {
	dataset, err := h.datasets.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	diagnostics := dataset.Diagnostics
	if diagnostics == nil {
		diagnostics = []string{}
	}
	response.JSON(c, http.StatusOK, uploadSummary{
		SessionID:   dataset.SessionID,
		FileName:    dataset.FileName,
		RecordCount: len(dataset.Records),
		Diagnostics: diagnostics,
	}, nil)
}

// Clear godoc
// @Summary Delete the session and its data
// @Tags Uploads
// @Param X-Session-ID header string true "Session ID"
// @Success 204
// @Router /session [delete]
func (h *UploadHandler) Clear(c *gin.Context) {
	if err := h.datasets.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

