package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/internal/repository"
	"github.com/noah-isme/sra-panel-api/internal/service"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, models.GeneratorRequest) (*models.AiInsights, error) {
	return models.EmptyAiInsights(), nil
}

func insightFixture(t *testing.T, records []models.CourseRecord) *InsightHandler {
	t.Helper()
	store := repository.NewMemorySessionStore(time.Hour)
	require.NoError(t, store.SaveDataset(context.Background(), &models.Dataset{SessionID: "s1", Records: records}))

	svc := service.NewInsightService(service.InsightServiceParams{
		Store:   store,
		Client:  stubGenerator{},
		Enabled: true,
		Workers: 1,
	})
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return NewInsightHandler(svc)
}

func postGenerate(handler *InsightHandler, sessionID string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/insights/generate", nil)
	c.Request.Header.Set(middleware.SessionHeader, sessionID)
	handler.Generate(c)
	return rec
}

func TestInsightHandlerGenerateAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := insightFixture(t, []models.CourseRecord{
		{MatricNo: "U001", StudentName: "Ada", CourseCode: "MTH101", GradePoint: 4},
	})

	rec := postGenerate(handler, "s1")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "running", envelope.Data["status"])
}

func TestInsightHandlerGenerateEmptyDatasetCompletesImmediately(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := insightFixture(t, []models.CourseRecord{})

	rec := postGenerate(handler, "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "ready", envelope.Data["status"])
}

func TestInsightHandlerGenerateUnknownSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := insightFixture(t, nil)

	rec := postGenerate(handler, "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsightHandlerStatusIdle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := insightFixture(t, []models.CourseRecord{
		{MatricNo: "U001", StudentName: "Ada", CourseCode: "MTH101", GradePoint: 4},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/insights", nil)
	c.Request.Header.Set(middleware.SessionHeader, "s1")
	handler.Status(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "idle", envelope.Data["status"])
}
