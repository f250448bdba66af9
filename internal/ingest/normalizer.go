// Package ingest converts uploaded spreadsheet files into canonical course
// records. Parsing is best-effort: structural problems become diagnostics,
// not failures, and imperfect rows are repaired rather than rejected.
package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

// Canonical header names recognised by the normalizer.
const (
	headerMatricNo      = "Matric No"
	headerStudentName   = "Student Name"
	headerCourseCode    = "Course Code"
	headerCourseTitle   = "Course Title"
	headerCreditUnits   = "Credit Units"
	headerLevel         = "Level"
	headerSemester      = "Semester"
	headerGrade         = "Grade"
	headerGP            = "GP"
	headerGPA           = "GPA"
	headerCGPA          = "CGPA"
	headerQualityPoints = "Quality Points"
)

var requiredColumns = []string{
	headerMatricNo,
	headerStudentName,
	headerCourseCode,
	headerCreditUnits,
	headerGrade,
	headerGP,
	headerGPA,
	headerCGPA,
}

// headerSynonyms maps lower-cased, period-stripped spellings to canonical
// names. Spreadsheets from different departments disagree on singular vs
// plural and trailing punctuation.
var headerSynonyms = map[string]string{
	"matric no":      headerMatricNo,
	"matric number":  headerMatricNo,
	"student name":   headerStudentName,
	"course code":    headerCourseCode,
	"course title":   headerCourseTitle,
	"credit unit":    headerCreditUnits,
	"credit units":   headerCreditUnits,
	"level":          headerLevel,
	"semester":       headerSemester,
	"grade":          headerGrade,
	"gp":             headerGP,
	"gpa":            headerGPA,
	"cgpa":           headerCGPA,
	"quality point":  headerQualityPoints,
	"quality points": headerQualityPoints,
}

var canonicalFields = map[string]struct{}{
	headerMatricNo:      {},
	headerStudentName:   {},
	headerCourseCode:    {},
	headerCourseTitle:   {},
	headerCreditUnits:   {},
	headerLevel:         {},
	headerSemester:      {},
	headerGrade:         {},
	headerGP:            {},
	headerGPA:           {},
	headerCGPA:          {},
	headerQualityPoints: {},
}

// NormalizeHeader trims whitespace, strips periods, and resolves known
// synonyms to the canonical spelling. Unrecognised headers pass through
// unchanged so extra columns survive into the Extra map.
func NormalizeHeader(header string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(header), ".", "")
	if canonical, ok := headerSynonyms[strings.ToLower(cleaned)]; ok {
		return canonical
	}
	return cleaned
}

// MissingColumns reports which required columns are absent after header
// normalization.
func MissingColumns(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[NormalizeHeader(h)] = struct{}{}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Normalize turns raw header-keyed rows into canonical course records.
// Rows missing the minimal join keys (matric no, student name, course code)
// are dropped; everything else is coerced with zero defaults. Output order
// equals input order.
func Normalize(headers []string, rows []map[string]string) *models.ParseReport {
	report := &models.ParseReport{Records: []models.CourseRecord{}}

	if missing := MissingColumns(headers); len(missing) > 0 {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	if len(rows) == 0 {
		report.Diagnostics = append(report.Diagnostics, "file contains no data rows")
		return report
	}

	for i, raw := range rows {
		row := normalizeKeys(raw)
		matricNo := strings.TrimSpace(row[headerMatricNo])
		studentName := strings.TrimSpace(row[headerStudentName])
		courseCode := strings.TrimSpace(row[headerCourseCode])
		if matricNo == "" || studentName == "" || courseCode == "" {
			continue
		}

		rec := models.CourseRecord{
			ID:          fmt.Sprintf("%s-%s-%d", matricNo, courseCode, i),
			MatricNo:    matricNo,
			StudentName: studentName,
			CourseCode:  courseCode,
			CourseTitle: strings.TrimSpace(row[headerCourseTitle]),
			CreditUnits: parseNumber(row[headerCreditUnits]),
			Level:       strings.TrimSpace(row[headerLevel]),
			Semester:    strings.TrimSpace(row[headerSemester]),
			Grade:       strings.TrimSpace(row[headerGrade]),
			GradePoint:  parseNumber(row[headerGP]),
			GPA:         parseNumber(row[headerGPA]),
			CGPA:        parseNumber(row[headerCGPA]),
		}

		if qp, ok := row[headerQualityPoints]; ok && strings.TrimSpace(qp) != "" {
			rec.QualityPoints = parseNumber(qp)
		} else {
			rec.QualityPoints = rec.GradePoint * rec.CreditUnits
		}

		rec.Extra = extraColumns(row)
		report.Diagnostics = append(report.Diagnostics, rangeDiagnostics(i, rec)...)
		report.Records = append(report.Records, rec)
	}

	return report
}

func normalizeKeys(raw map[string]string) map[string]string {
	row := make(map[string]string, len(raw))
	for key, value := range raw {
		row[NormalizeHeader(key)] = value
	}
	return row
}

func extraColumns(row map[string]string) map[string]string {
	var extra map[string]string
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := canonicalFields[key]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[key] = row[key]
	}
	return extra
}

// rangeDiagnostics flags grade-point fields outside [0, 4]. Out-of-range
// values are reported, never clamped.
func rangeDiagnostics(rowIndex int, rec models.CourseRecord) []string {
	var diags []string
	check := func(field string, value float64) {
		if value < 0 || value > 4 {
			diags = append(diags,
				fmt.Sprintf("row %d: %s %.2f outside the 0.00-4.00 scale", rowIndex+1, field, value))
		}
	}
	check("GP", rec.GradePoint)
	check("GPA", rec.GPA)
	check("CGPA", rec.CGPA)
	return diags
}

func parseNumber(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return v
}
