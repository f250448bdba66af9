package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sra-panel-api/internal/middleware"
	"github.com/noah-isme/sra-panel-api/internal/repository"
	"github.com/noah-isme/sra-panel-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

const resultsCSV = `Matric No,Student Name,Course Code,Credit Units,Grade,GP,GPA,CGPA
U2020/001,Ada Obi,MTH101,3,A,4.0,3.8,3.75
U2020/002,Bayo Ade,MTH101,3,F,0,1.2,1.10
U2020/003,Chi Eze,MTH101,3,B,3.0,3.0,3.00
`

func multipartUpload(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func newUploadFixture(t *testing.T) (*UploadHandler, repository.SessionStore) {
	t.Helper()
	store := repository.NewMemorySessionStore(time.Hour)
	svc := service.NewDatasetService(store, nil, nil)
	return NewUploadHandler(svc, 1<<20), store
}

func TestUploadHandlerCreatesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, store := newUploadFixture(t)

	body, contentType := multipartUpload(t, "results.csv", resultsCSV)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	sessionID, _ := envelope.Data["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, float64(3), envelope.Data["record_count"])

	dataset, err := store.GetDataset(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Len(t, dataset.Records, 3)
}

func TestUploadHandlerRejectsUnsupportedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUploadFixture(t)

	body, contentType := multipartUpload(t, "results.txt", "plain text")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "UNSUPPORTED_FILE", envelope.Error["code"])
}

func TestUploadHandlerRejectsEmptySheet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUploadFixture(t)

	header := "Matric No,Student Name,Course Code,Credit Units,Grade,GP,GPA,CGPA\n"
	body, contentType := multipartUpload(t, "empty.csv", header)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "EMPTY_DATASET", envelope.Error["code"])
}

func TestUploadHandlerMissingFilePart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUploadFixture(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", nil)

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandlerSessionSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, store := newUploadFixture(t)

	body, contentType := multipartUpload(t, "results.csv", resultsCSV)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", body)
	c.Request.Header.Set("Content-Type", contentType)
	handler.Upload(c)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	sessionID := created.Data["session_id"].(string)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/session", nil)
	c.Request.Header.Set(middleware.SessionHeader, sessionID)
	handler.Session(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var summary responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "results.csv", summary.Data["file_name"])

	_, err := store.GetDataset(context.Background(), sessionID)
	assert.NoError(t, err)
}

func TestUploadHandlerClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, store := newUploadFixture(t)

	body, contentType := multipartUpload(t, "results.csv", resultsCSV)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", body)
	c.Request.Header.Set("Content-Type", contentType)
	handler.Upload(c)
	var created responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	sessionID := created.Data["session_id"].(string)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/session", nil)
	c.Request.Header.Set(middleware.SessionHeader, sessionID)
	handler.Clear(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err := store.GetDataset(context.Background(), sessionID)
	assert.Error(t, err)
}
