package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

const sampleCSV = `Matric No,Student Name,Course Code,Credit Units,Grade,GP,GPA,CGPA
U2020/001,Ada Obi,MTH101,3,A,4.0,3.8,3.75
U2020/002,Bayo Ade,MTH101,3,F,0,1.2,1.10

U2020/003,Chi Eze,PHY101,2,B,3.0,3.0,3.00
`

func TestReadCSV(t *testing.T) {
	headers, rows, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, headers, 8)
	require.Len(t, rows, 3, "blank rows are skipped")
	assert.Equal(t, "Ada Obi", rows[0]["Student Name"])
	assert.Equal(t, "PHY101", rows[2]["Course Code"])
}

func TestReadCSVShortRows(t *testing.T) {
	csv := "Matric No,Student Name,Course Code\nU2020/001,Ada Obi\n"
	_, rows, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["Course Code"])
}

func TestReadCSVEmpty(t *testing.T) {
	headers, rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, headers)
	assert.Nil(t, rows)
}

func buildXLSX(t *testing.T, cells [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadXLSX(t *testing.T) {
	buf := buildXLSX(t, [][]interface{}{
		{"Matric No", "Student Name", "Course Code", "Credit Units", "Grade", "GP", "GPA", "CGPA"},
		{"U2020/001", "Ada Obi", "MTH101", 3, "A", 4.0, 3.8, 3.75},
	})

	headers, rows, err := ReadXLSX(buf)
	require.NoError(t, err)
	assert.Len(t, headers, 8)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Obi", rows[0]["Student Name"])
	assert.Equal(t, "MTH101", rows[0]["Course Code"])
}

func TestReadXLSXInvalid(t *testing.T) {
	_, _, err := ReadXLSX(strings.NewReader("not an xlsx file"))
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	report, err := Parse("results.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, report.Records, 3)
	assert.Empty(t, report.Diagnostics)
}

func TestParseXLSX(t *testing.T) {
	buf := buildXLSX(t, [][]interface{}{
		{"Matric No", "Student Name", "Course Code", "Credit Units", "Grade", "GP", "GPA", "CGPA"},
		{"U2020/001", "Ada Obi", "MTH101", 3, "A", 4.0, 3.8, 3.75},
	})
	report, err := Parse("Results Sheet.XLSX", buf)
	require.NoError(t, err)
	assert.Len(t, report.Records, 1)
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("results.pdf", strings.NewReader("data"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnsupportedFile.Code, appErr.Code)
}
