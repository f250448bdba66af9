package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

func record(matric, name, course, grade string, gp float64) models.CourseRecord {
	return models.CourseRecord{
		MatricNo:    matric,
		StudentName: name,
		CourseCode:  course,
		Grade:       grade,
		GradePoint:  gp,
	}
}

func TestCourseStatisticsSingleCourse(t *testing.T) {
	records := []models.CourseRecord{
		record("U001", "Ada", "MTH101", "A", 4.0),
		record("U002", "Bayo", "MTH101", "C", 3.0),
		record("U003", "Chi", "MTH101", "F", 0.0),
	}

	result := CourseStatistics(records)
	require.Len(t, result, 1)

	stats := result[0]
	assert.Equal(t, "MTH101", stats.CourseCode)
	assert.Equal(t, 3, stats.StudentCount)
	assert.Equal(t, 2, stats.PassCount)
	assert.Equal(t, 1, stats.FailCount)
	assert.Equal(t, 66.67, stats.PassRate)
	assert.Equal(t, 2.33, stats.MeanGpa)
	assert.Equal(t, 3.00, stats.MedianGpa)
	assert.Equal(t, "0.00, 3.00, 4.00", stats.ModeGpa)
	assert.Equal(t, 2.08, stats.StdDevGpa)
}

func TestCourseStatisticsUsesCourseTitleWhenPresent(t *testing.T) {
	records := []models.CourseRecord{
		{MatricNo: "U001", StudentName: "Ada", CourseCode: "MTH101", CourseTitle: "Calculus I", GradePoint: 4},
	}
	result := CourseStatistics(records)
	require.Len(t, result, 1)
	assert.Equal(t, "Calculus I", result[0].Course)
}

func TestCourseStatisticsOrderIndependent(t *testing.T) {
	records := []models.CourseRecord{
		record("U001", "Ada", "MTH101", "A", 4.0),
		record("U002", "Bayo", "MTH101", "C", 3.0),
		record("U003", "Chi", "MTH101", "F", 0.0),
		record("U001", "Ada", "PHY101", "B", 3.0),
		record("U002", "Bayo", "PHY101", "F", 0.0),
	}

	baseline := CourseStatistics(records)

	shuffled := make([]models.CourseRecord, len(records))
	copy(shuffled, records)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, baseline, CourseStatistics(shuffled))
	}
}

func TestCourseStatisticsEmpty(t *testing.T) {
	assert.Empty(t, CourseStatistics(nil))
}

func TestCourseStatisticsMultimodal(t *testing.T) {
	records := []models.CourseRecord{
		record("U001", "Ada", "MTH101", "A", 4.0),
		record("U002", "Bayo", "MTH101", "A", 4.0),
		record("U003", "Chi", "MTH101", "C", 2.0),
		record("U004", "Dike", "MTH101", "C", 2.0),
		record("U005", "Eno", "MTH101", "D", 1.0),
	}
	result := CourseStatistics(records)
	require.Len(t, result, 1)
	assert.Equal(t, "2.00, 4.00", result[0].ModeGpa)
}

func TestCohortMetrics(t *testing.T) {
	records := []models.CourseRecord{
		record("U001", "Ada", "MTH101", "A", 4.0),
		record("U001", "Ada", "PHY101", "C", 3.0),
		record("U002", "Bayo", "MTH101", "F", 0.0),
	}

	cohort := CohortMetrics(records)
	assert.Equal(t, 2, cohort.TotalUniqueStudents)
	assert.Equal(t, 2.33, cohort.OverallAverageScore)
	assert.Equal(t, 66.67, cohort.OverallPassRate)
	assert.Equal(t, 3.00, cohort.MedianScore)
	assert.Equal(t, "0.00, 3.00, 4.00", cohort.ModeScore)
	// Population divisor, unlike the per-course sample statistic.
	assert.Equal(t, 1.70, cohort.StandardDeviation)
}

func TestCohortMetricsEmpty(t *testing.T) {
	cohort := CohortMetrics(nil)
	assert.Equal(t, 0, cohort.TotalUniqueStudents)
	assert.Equal(t, "N/A", cohort.ModeScore)
	assert.Equal(t, 0.0, cohort.StandardDeviation)
}

func TestCohortMetricsSingleRecordZeroStdDev(t *testing.T) {
	cohort := CohortMetrics([]models.CourseRecord{record("U001", "Ada", "MTH101", "A", 4.0)})
	assert.Equal(t, 0.0, cohort.StandardDeviation)
	assert.Equal(t, 100.0, cohort.OverallPassRate)
}
