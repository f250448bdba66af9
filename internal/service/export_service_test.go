package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sra-panel-api/internal/models"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	store := seedStore(t, sampleRecords())
	stats := NewStatsService(store, nil, nil, nil)
	return NewExportService(ExportServiceParams{Stats: stats, Enabled: true})
}

func TestExportServiceRecordsCSV(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.Records(context.Background(), "s1", models.RecordFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.FileName, "records-all-")

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus four records")
	assert.Equal(t, "Matric No", rows[0][0])
	assert.Equal(t, "U001", rows[1][0])
}

func TestExportServiceRecordsFiltered(t *testing.T) {
	svc := newExportFixture(t)

	course := "PHY101"
	file, err := svc.Records(context.Background(), "s1", models.RecordFilter{Course: &course}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Contains(t, file.FileName, "records-PHY101-")

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportServiceStatisticsCSVIncludesCohortRow(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.Statistics(context.Background(), "s1", models.RecordFilter{}, ExportFormatCSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two courses, cohort summary")
	assert.Equal(t, "Cohort", rows[3][0])
}

func TestExportServiceStatisticsPDF(t *testing.T) {
	svc := newExportFixture(t)

	file, err := svc.Statistics(context.Background(), "s1", models.RecordFilter{}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Records(context.Background(), "s1", models.RecordFilter{}, "xml")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceDisabled(t *testing.T) {
	store := seedStore(t, sampleRecords())
	stats := NewStatsService(store, nil, nil, nil)
	svc := NewExportService(ExportServiceParams{Stats: stats, Enabled: false})

	_, err := svc.Records(context.Background(), "s1", models.RecordFilter{}, ExportFormatCSV)
	assert.Error(t, err)
}

func TestExportServiceUnknownSession(t *testing.T) {
	svc := newExportFixture(t)
	_, err := svc.Records(context.Background(), "missing", models.RecordFilter{}, ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, appErrors.FromError(err).Code)
}
