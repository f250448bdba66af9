package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/internal/service"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/response"
)

// InsightHandler exposes narrative insight generation endpoints.
type InsightHandler struct {
	insights *service.InsightService
}

// NewInsightHandler constructs an insight handler.
func NewInsightHandler(insights *service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Generate godoc
// @Summary Start insight generation for the session
// @Description Snapshots the session's records and generates narrative insights in the background. A later request supersedes an earlier one.
// @Tags Insights
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /insights/generate [post]
func (h *InsightHandler) Generate(c *gin.Context) {
	if h.insights == nil {
		response.Error(c, appErrors.ErrInsightsDisabled)
		return
	}
	state, err := h.insights.Request(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if state.Status == models.InsightStatusReady {
		response.JSON(c, http.StatusOK, state, nil)
		return
	}
	response.Accepted(c, state)
}

// Status godoc
// @Summary Insight generation status and result
// @Tags Insights
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /insights [get]
func (h *InsightHandler) Status(c *gin.Context) {
	if h.insights == nil {
		response.Error(c, appErrors.ErrInsightsDisabled)
		return
	}
	state, err := h.insights.Status(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}
