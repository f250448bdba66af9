package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

// standingBands are the academic-standing CGPA bands on the 4.0 scale,
// highest first.
var standingBands = []models.StandingBand{
	{Standing: "First Class", Min: 3.50, Max: 4.00, Range: "3.50 - 4.00"},
	{Standing: "Second Class Upper", Min: 3.00, Max: 3.49, Range: "3.00 - 3.49"},
	{Standing: "Second Class Lower", Min: 2.00, Max: 2.99, Range: "2.00 - 2.99"},
	{Standing: "Third Class", Min: 1.00, Max: 1.99, Range: "1.00 - 1.99"},
	{Standing: "On Probation", Min: 0.00, Max: 0.99, Range: "0.00 - 0.99"},
}

var letterGrades = []string{"A", "B", "C", "D", "E", "F"}

// semesterOrdinal extracts the first integer in a semester label so that
// "Semester 10" sorts after "Semester 2". Labels without digits order first.
func semesterOrdinal(semester string) int {
	start := -1
	for i, r := range semester {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start == -1 {
		return 0
	}
	end := start
	for end < len(semester) && semester[end] >= '0' && semester[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(semester[start:end])
	if err != nil {
		return 0
	}
	return n
}

// LatestStudentSummaries resolves each unique student's latest CGPA by
// semester order, falling back to row order within the same semester.
func LatestStudentSummaries(records []models.CourseRecord) []models.StudentSummary {
	type latest struct {
		summary models.StudentSummary
		ordinal int
		row     int
	}
	byStudent := make(map[string]latest, len(records))
	for i, rec := range records {
		ord := semesterOrdinal(rec.Semester)
		current, seen := byStudent[rec.MatricNo]
		if !seen || ord > current.ordinal || (ord == current.ordinal && i > current.row) {
			byStudent[rec.MatricNo] = latest{
				summary: models.StudentSummary{
					MatricNo:    rec.MatricNo,
					StudentName: rec.StudentName,
					LatestCGPA:  rec.CGPA,
				},
				ordinal: ord,
				row:     i,
			}
		}
	}
	summaries := make([]models.StudentSummary, 0, len(byStudent))
	for _, l := range byStudent {
		summaries = append(summaries, l.summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MatricNo < summaries[j].MatricNo
	})
	return summaries
}

// TopPerformers returns up to limit students ranked by latest CGPA descending.
func TopPerformers(records []models.CourseRecord, limit int) []models.StudentSummary {
	summaries := LatestStudentSummaries(records)
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LatestCGPA > summaries[j].LatestCGPA
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	for i := range summaries {
		summaries[i].LatestCGPA = Round2(summaries[i].LatestCGPA)
	}
	return summaries
}

// HighFailureCourses lists courses whose failure share exceeds the threshold
// (a decimal, e.g. 0.40), ranked worst first. A record fails when GP is 0.
func HighFailureCourses(records []models.CourseRecord, threshold float64) []models.CourseFailureRate {
	type group struct {
		name     string
		total    int
		failures int
		students map[string]struct{}
	}
	byCourse := make(map[string]*group)
	for _, rec := range records {
		g, ok := byCourse[rec.CourseCode]
		if !ok {
			g = &group{name: rec.DisplayName(), students: make(map[string]struct{})}
			byCourse[rec.CourseCode] = g
		}
		g.total++
		g.students[rec.MatricNo] = struct{}{}
		if rec.GradePoint == 0 {
			g.failures++
		}
	}

	result := make([]models.CourseFailureRate, 0)
	for _, g := range byCourse {
		rate := float64(g.failures) / float64(g.total)
		if rate > threshold {
			result = append(result, models.CourseFailureRate{
				Course:       g.name,
				FailureRate:  Round2(rate),
				StudentCount: len(g.students),
			})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FailureRate == result[j].FailureRate {
			return result[i].Course < result[j].Course
		}
		return result[i].FailureRate > result[j].FailureRate
	})
	return result
}

// GradeDistributions computes the A-F breakdown per course, courses sorted by
// display name. Grades outside A-F are ignored.
func GradeDistributions(records []models.CourseRecord) []models.CourseGradeDistribution {
	type group struct {
		name   string
		total  int
		counts map[string]int
	}
	byCourse := make(map[string]*group)
	for _, rec := range records {
		g, ok := byCourse[rec.CourseCode]
		if !ok {
			g = &group{name: rec.DisplayName(), counts: make(map[string]int)}
			byCourse[rec.CourseCode] = g
		}
		grade := strings.ToUpper(strings.TrimSpace(rec.Grade))
		g.total++
		g.counts[grade]++
	}

	result := make([]models.CourseGradeDistribution, 0, len(byCourse))
	for _, g := range byCourse {
		slices := make([]models.GradeSlice, 0, len(letterGrades))
		for _, grade := range letterGrades {
			count := g.counts[grade]
			slices = append(slices, models.GradeSlice{
				Grade:      grade,
				Count:      count,
				Percentage: Round2(float64(count) / float64(g.total) * 100),
			})
		}
		result = append(result, models.CourseGradeDistribution{Course: g.name, Distribution: slices})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Course < result[j].Course
	})
	return result
}

// StandingDistribution buckets unique students by their latest CGPA into the
// academic-standing bands. Percentages are decimals of the unique student
// count. CGPAs outside every band (data-quality outliers) are not counted.
func StandingDistribution(records []models.CourseRecord) []models.StandingBucket {
	summaries := LatestStudentSummaries(records)
	buckets := make([]models.StandingBucket, len(standingBands))
	for i, band := range standingBands {
		buckets[i] = models.StandingBucket{Standing: band.Standing, CgpaRange: band.Range}
	}
	if len(summaries) == 0 {
		return buckets
	}
	for _, s := range summaries {
		for i, band := range standingBands {
			if s.LatestCGPA >= band.Min && s.LatestCGPA <= band.Max {
				buckets[i].Count++
				break
			}
		}
	}
	total := float64(len(summaries))
	for i := range buckets {
		buckets[i].Percentage = Round2(float64(buckets[i].Count) / total)
	}
	return buckets
}

// KPIs computes the three headline indicators: average latest CGPA across
// unique students, average semester GPA across all entries, and the overall
// pass rate.
func KPIs(records []models.CourseRecord) []models.PerformanceKPI {
	if len(records) == 0 {
		return []models.PerformanceKPI{}
	}
	summaries := LatestStudentSummaries(records)
	cgpas := make([]float64, 0, len(summaries))
	for _, s := range summaries {
		cgpas = append(cgpas, s.LatestCGPA)
	}

	gpas := make([]float64, 0, len(records))
	passCount := 0
	for _, rec := range records {
		gpas = append(gpas, rec.GPA)
		if rec.GradePoint > 0 {
			passCount++
		}
	}
	passRate := float64(passCount) / float64(len(records)) * 100

	return []models.PerformanceKPI{
		{Metric: "Overall Average CGPA", Value: fmt.Sprintf("%.2f", Round2(Mean(cgpas)))},
		{Metric: "Overall Average Semester GPA", Value: fmt.Sprintf("%.2f", Round2(Mean(gpas)))},
		{Metric: "Overall Pass Rate", Value: fmt.Sprintf("%.2f%%", Round2(passRate))},
	}
}

// DifficultyRanking ranks courses by mean grade point ascending and returns
// up to limit entries, hardest first.
func DifficultyRanking(records []models.CourseRecord, limit int) []models.CourseDifficulty {
	type group struct {
		name     string
		points   []float64
		students map[string]struct{}
	}
	byCourse := make(map[string]*group)
	for _, rec := range records {
		g, ok := byCourse[rec.CourseCode]
		if !ok {
			g = &group{name: rec.DisplayName(), students: make(map[string]struct{})}
			byCourse[rec.CourseCode] = g
		}
		g.points = append(g.points, rec.GradePoint)
		g.students[rec.MatricNo] = struct{}{}
	}

	result := make([]models.CourseDifficulty, 0, len(byCourse))
	for _, g := range byCourse {
		result = append(result, models.CourseDifficulty{
			Course:       g.name,
			AverageGp:    Round2(Mean(g.points)),
			StudentCount: len(g.students),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AverageGp == result[j].AverageGp {
			return result[i].Course < result[j].Course
		}
		return result[i].AverageGp < result[j].AverageGp
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Consistency finds the students with the lowest and highest spread of
// semester GPAs. Only students covering at least two distinct semesters
// qualify; with no qualifying students both entries are nil.
func Consistency(records []models.CourseRecord) models.ConsistencyRanking {
	type history struct {
		name      string
		bySem     map[string]float64
		latestOrd int
		latestRow int
		cgpa      float64
	}
	byStudent := make(map[string]*history)
	for i, rec := range records {
		h, ok := byStudent[rec.MatricNo]
		if !ok {
			h = &history{name: rec.StudentName, bySem: make(map[string]float64), latestOrd: -1, latestRow: -1}
			byStudent[rec.MatricNo] = h
		}
		h.bySem[rec.Semester] = rec.GPA
		ord := semesterOrdinal(rec.Semester)
		if ord > h.latestOrd || (ord == h.latestOrd && i > h.latestRow) {
			h.latestOrd = ord
			h.latestRow = i
			h.cgpa = rec.CGPA
		}
	}

	entries := make([]models.ConsistencyEntry, 0, len(byStudent))
	for matric, h := range byStudent {
		if len(h.bySem) < 2 {
			continue
		}
		gpas := make([]float64, 0, len(h.bySem))
		for _, gpa := range h.bySem {
			gpas = append(gpas, gpa)
		}
		entries = append(entries, models.ConsistencyEntry{
			MatricNo:         matric,
			StudentName:      h.name,
			CGPA:             Round2(h.cgpa),
			GpaStdDeviation:  Round2(StdDevSample(gpas)),
			SemestersCovered: len(h.bySem),
		})
	}
	if len(entries) == 0 {
		return models.ConsistencyRanking{}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].GpaStdDeviation == entries[j].GpaStdDeviation {
			return entries[i].MatricNo < entries[j].MatricNo
		}
		return entries[i].GpaStdDeviation < entries[j].GpaStdDeviation
	})
	most := entries[0]
	least := entries[len(entries)-1]
	return models.ConsistencyRanking{MostConsistent: &most, LeastConsistent: &least}
}

// DeriveInsights bundles every deterministic insight computation over one
// record set.
func DeriveInsights(records []models.CourseRecord) models.DerivedInsights {
	return models.DerivedInsights{
		TopPerformers:        TopPerformers(records, 3),
		HighFailureCourses:   HighFailureCourses(records, 0.40),
		GradeDistributions:   GradeDistributions(records),
		StandingDistribution: StandingDistribution(records),
		KPIs:                 KPIs(records),
		DifficultyRanking:    DifficultyRanking(records, 5),
		Consistency:          Consistency(records),
	}
}
