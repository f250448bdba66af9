package stats

import (
	"sort"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

// ApplyFilter returns the subset of records matching the filter, preserving
// input order. A nil course filter passes everything through.
func ApplyFilter(records []models.CourseRecord, filter models.RecordFilter) []models.CourseRecord {
	if filter.Course == nil || *filter.Course == "" {
		return records
	}
	filtered := make([]models.CourseRecord, 0, len(records))
	for _, rec := range records {
		if rec.CourseCode == *filter.Course {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// AvailableCourses lists the distinct course codes of the unfiltered record
// set, sorted ascending. Filter state never narrows the offered choices.
func AvailableCourses(records []models.CourseRecord) []string {
	seen := make(map[string]struct{}, len(records))
	courses := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.CourseCode]; ok {
			continue
		}
		seen[rec.CourseCode] = struct{}{}
		courses = append(courses, rec.CourseCode)
	}
	sort.Strings(courses)
	return courses
}
