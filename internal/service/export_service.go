package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sra-panel-api/internal/models"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/export"
)

// Export formats supported by ExportService.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	FileName    string
}

// ExportService renders filtered records and computed statistics as CSV or PDF.
type ExportService struct {
	stats     *StatsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	maxRows   int
	pdfTitle  string
	enabled   bool
	logger    *zap.Logger
}

// ExportServiceParams configures ExportService construction.
type ExportServiceParams struct {
	Stats     *StatsService
	Validator *validator.Validate
	MaxRows   int
	PDFTitle  string
	Enabled   bool
	Logger    *zap.Logger
}

type exportRequest struct {
	Format string `validate:"required,oneof=csv pdf"`
}

// NewExportService constructs an export service.
func NewExportService(params ExportServiceParams) *ExportService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.MaxRows <= 0 {
		params.MaxRows = 10000
	}
	if params.PDFTitle == "" {
		params.PDFTitle = "Student Result Analysis"
	}
	return &ExportService{
		stats:     params.Stats,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: params.Validator,
		maxRows:   params.MaxRows,
		pdfTitle:  params.PDFTitle,
		enabled:   params.Enabled,
		logger:    params.Logger,
	}
}

// Records renders the session's filtered records in the requested format.
func (s *ExportService) Records(ctx context.Context, sessionID string, filter models.RecordFilter, format string) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exports are disabled")
	}
	format = strings.ToLower(format)
	if err := s.validator.Struct(exportRequest{Format: format}); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
	records, _, err := s.stats.Records(ctx, sessionID, filter, 1, s.maxRows)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Matric No", "Student Name", "Course Code", "Course Title", "Credit Units", "Level", "Semester", "Grade", "GP", "GPA", "CGPA"},
	}
	for _, r := range records {
		data.Rows = append(data.Rows, map[string]string{
			"Matric No":    r.MatricNo,
			"Student Name": r.StudentName,
			"Course Code":  r.CourseCode,
			"Course Title": r.CourseTitle,
			"Credit Units": formatFloat(r.CreditUnits),
			"Level":        r.Level,
			"Semester":     r.Semester,
			"Grade":        r.Grade,
			"GP":           formatFloat(r.GradePoint),
			"GPA":          formatFloat(r.GPA),
			"CGPA":         formatFloat(r.CGPA),
		})
	}
	return s.render(data, format, "records", filter)
}

// Statistics renders the session's per-course statistics in the requested format.
func (s *ExportService) Statistics(ctx context.Context, sessionID string, filter models.RecordFilter, format string) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exports are disabled")
	}
	format = strings.ToLower(format)
	if err := s.validator.Struct(exportRequest{Format: format}); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
	courses, cohort, _, err := s.stats.Overview(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Course", "Students", "Passed", "Failed", "Pass Rate %", "Mean GPA", "Median GPA", "Mode GPA", "Std Dev"},
	}
	for _, c := range courses {
		data.Rows = append(data.Rows, map[string]string{
			"Course":      c.Course,
			"Students":    strconv.Itoa(c.StudentCount),
			"Passed":      strconv.Itoa(c.PassCount),
			"Failed":      strconv.Itoa(c.FailCount),
			"Pass Rate %": formatFloat(c.PassRate),
			"Mean GPA":    formatFloat(c.MeanGpa),
			"Median GPA":  formatFloat(c.MedianGpa),
			"Mode GPA":    c.ModeGpa,
			"Std Dev":     formatFloat(c.StdDevGpa),
		})
	}
	data.Rows = append(data.Rows, map[string]string{
		"Course":      "Cohort",
		"Students":    strconv.Itoa(cohort.TotalUniqueStudents),
		"Pass Rate %": formatFloat(cohort.OverallPassRate),
		"Mean GPA":    formatFloat(cohort.OverallAverageScore),
		"Median GPA":  formatFloat(cohort.MedianScore),
		"Mode GPA":    cohort.ModeScore,
		"Std Dev":     formatFloat(cohort.StandardDeviation),
	})
	return s.render(data, format, "statistics", filter)
}

func (s *ExportService) render(data export.Dataset, format, subject string, filter models.RecordFilter) (*ExportFile, error) {
	scope := "all"
	if filter.Course != nil && strings.TrimSpace(*filter.Course) != "" {
		scope = strings.TrimSpace(*filter.Course)
	}
	stamp := time.Now().UTC().Format("20060102-150405")

	switch strings.ToLower(format) {
	case ExportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv",
			FileName:    fmt.Sprintf("%s-%s-%s.csv", subject, scope, stamp),
		}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("%s - %s", s.pdfTitle, subject)
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			FileName:    fmt.Sprintf("%s-%s-%s.pdf", subject, scope, stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
