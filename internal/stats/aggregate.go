// Package stats implements the aggregation engine: pure, deterministic
// functions over course records. No I/O, no mutation of input, results
// independent of input ordering.
package stats

import (
	"sort"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

// CourseStatistics groups records by course code and computes descriptive
// statistics per group. Courses are sorted by display name ascending.
func CourseStatistics(records []models.CourseRecord) []models.CourseStatistics {
	if len(records) == 0 {
		return []models.CourseStatistics{}
	}

	byCourse := make(map[string][]models.CourseRecord)
	for _, rec := range records {
		byCourse[rec.CourseCode] = append(byCourse[rec.CourseCode], rec)
	}

	result := make([]models.CourseStatistics, 0, len(byCourse))
	for code, entries := range byCourse {
		result = append(result, courseStats(code, entries))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Course == result[j].Course {
			return result[i].CourseCode < result[j].CourseCode
		}
		return result[i].Course < result[j].Course
	})
	return result
}

func courseStats(code string, entries []models.CourseRecord) models.CourseStatistics {
	students := make(map[string]struct{}, len(entries))
	gradePoints := make([]float64, 0, len(entries))
	passCount := 0
	for _, e := range entries {
		students[e.MatricNo] = struct{}{}
		gradePoints = append(gradePoints, e.GradePoint)
		if e.GradePoint > 0 {
			passCount++
		}
	}
	failCount := len(entries) - passCount

	return models.CourseStatistics{
		Course:       entries[0].DisplayName(),
		CourseCode:   code,
		StudentCount: len(students),
		PassCount:    passCount,
		FailCount:    failCount,
		PassRate:     Round2(float64(passCount) / float64(len(entries)) * 100),
		MeanGpa:      Round2(Mean(gradePoints)),
		MedianGpa:    Round2(Median(gradePoints)),
		ModeGpa:      FormatModes(Modes(gradePoints)),
		StdDevGpa:    Round2(StdDevSample(gradePoints)),
	}
}

// CohortMetrics summarises the entire record set. The mean is taken over all
// records, not per student; the standard deviation uses the population
// divisor, unlike the per-course sample statistics.
func CohortMetrics(records []models.CourseRecord) models.CohortMetrics {
	if len(records) == 0 {
		return models.CohortMetrics{ModeScore: "N/A"}
	}

	students := make(map[string]struct{}, len(records))
	scores := make([]float64, 0, len(records))
	passCount := 0
	for _, rec := range records {
		students[rec.MatricNo] = struct{}{}
		scores = append(scores, rec.GradePoint)
		if rec.GradePoint > 0 {
			passCount++
		}
	}

	return models.CohortMetrics{
		TotalUniqueStudents: len(students),
		OverallAverageScore: Round2(Mean(scores)),
		OverallPassRate:     Round2(float64(passCount) / float64(len(records)) * 100),
		MedianScore:         Round2(Median(scores)),
		ModeScore:           FormatModes(Modes(scores)),
		StandardDeviation:   Round2(StdDevPopulation(scores)),
	}
}
