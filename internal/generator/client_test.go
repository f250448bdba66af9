package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sra-panel-api/internal/models"
	"github.com/noah-isme/sra-panel-api/pkg/config"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

func testClient(url string) *Client {
	return NewClient(config.InsightsConfig{
		GatewayURL:     url,
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
		MaxElapsed:     2 * time.Second,
	}, nil)
}

func sampleRequest() models.GeneratorRequest {
	return models.GeneratorRequest{
		StudentResults: []models.GeneratorRecord{
			{MatricNo: "U2020/001", StudentName: "Ada Obi", CourseCode: "MTH101", Grade: "A", GP: 4, GPA: 3.8, CGPA: 3.75},
		},
	}
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		results, ok := req["studentResults"].([]interface{})
		require.True(t, ok)
		require.Len(t, results, 1)
		first := results[0].(map[string]interface{})
		assert.Equal(t, "U2020/001", first["Matric No"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"topPerformingStudents":[{"name":"Ada Obi","matricNo":"U2020/001","cgpa":3.75}]}`))
	}))
	defer srv.Close()

	insights, err := testClient(srv.URL).Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Len(t, insights.TopPerformingStudents, 1)
	assert.Equal(t, "Ada Obi", insights.TopPerformingStudents[0].Name)
	assert.NotNil(t, insights.HighFailureCourses, "absent categories normalise to empty slices")
	assert.Empty(t, insights.HighFailureCourses)
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	insights, err := testClient(srv.URL).Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.NotNil(t, insights)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestGenerateClientErrorIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeneratorFailure.Code, appErrors.FromError(err).Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateMalformedBodyIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateUnconfiguredGateway(t *testing.T) {
	client := NewClient(config.InsightsConfig{}, nil)
	_, err := client.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsightsDisabled.Code, appErrors.FromError(err).Code)
}

func TestDecodeResponseRepairsLegacyFields(t *testing.T) {
	body := []byte(`{
		"atRiskStudents": [{"name": "Chi Eze", "matricNo": "U2020/003", "averageScore": 0.8, "reason": "CGPA below 1.0"}],
		"scoreClusters": [{"course": "MTH101", "distribution": [{"grade": "F", "count": 3, "percentage": 100}]}]
	}`)

	insights, err := DecodeResponse(body)
	require.NoError(t, err)
	require.Len(t, insights.StudentsOnProbation, 1)
	assert.Equal(t, "Chi Eze", insights.StudentsOnProbation[0].Name)
	require.Len(t, insights.CourseGradeDistributions, 1)
	assert.Equal(t, "MTH101", insights.CourseGradeDistributions[0].Course)
}

func TestRepairLegacyFieldsKeepsCurrentKey(t *testing.T) {
	raw := map[string]json.RawMessage{
		"atRiskStudents":      json.RawMessage(`[{"name":"Old"}]`),
		"studentsOnProbation": json.RawMessage(`[{"name":"New"}]`),
	}
	repaired := RepairLegacyFields(raw)
	assert.NotContains(t, repaired, "atRiskStudents")
	assert.JSONEq(t, `[{"name":"New"}]`, string(repaired["studentsOnProbation"]))
}

func TestDecodeResponseRejectsNonObject(t *testing.T) {
	_, err := DecodeResponse([]byte(`[1,2,3]`))
	assert.Error(t, err)
}
