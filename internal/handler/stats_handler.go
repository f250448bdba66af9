package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/service"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/response"
)

// StatsHandler exposes statistics and record listing endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs a statistics handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// overviewBody pairs per-course statistics with cohort metrics.
type overviewBody struct {
	Courses interface{} `json:"courses"`
	Cohort  interface{} `json:"cohort"`
}

// Overview godoc
// @Summary Per-course statistics and cohort metrics
// @Tags Statistics
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param course query string false "Restrict to one course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /statistics [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	if h.stats == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courses, cohort, cacheHit, err := h.stats.Overview(c.Request.Context(), middleware.SessionID(c), courseFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, overviewBody{Courses: courses, Cohort: cohort}, nil, middleware.ExtractMeta(c))
}

// Records godoc
// @Summary List normalised course records
// @Tags Statistics
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param course query string false "Restrict to one course code"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *StatsHandler) Records(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 50)
	records, pagination, err := h.stats.Records(c.Request.Context(), middleware.SessionID(c), courseFilter(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Courses godoc
// @Summary Distinct course codes of the full dataset
// @Tags Statistics
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *StatsHandler) Courses(c *gin.Context) {
	courses, err := h.stats.AvailableCourses(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Derived godoc
// @Summary Deterministic performance insights
// @Description Locally computed counterparts of the narrative insight categories.
// @Tags Statistics
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param course query string false "Restrict to one course code"
// @Success 200 {object} response.Envelope
// @Router /insights/derived [get]
func (h *StatsHandler) Derived(c *gin.Context) {
	derived, cacheHit, err := h.stats.Derived(c.Request.Context(), middleware.SessionID(c), courseFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, derived, nil, middleware.ExtractMeta(c))
}
