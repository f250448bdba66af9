package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

func courseFilter(c *gin.Context) models.RecordFilter {
	course := strings.TrimSpace(c.Query("course"))
	if course == "" {
		return models.RecordFilter{}
	}
	return models.RecordFilter{Course: &course}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
