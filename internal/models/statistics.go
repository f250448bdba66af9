package models

// CourseStatistics holds the per-course descriptive statistics. The standard
// deviation here follows the sample convention (n-1) and is 0 for n<=1.
type CourseStatistics struct {
	Course       string  `json:"course"`
	CourseCode   string  `json:"course_code"`
	StudentCount int     `json:"student_count"`
	PassCount    int     `json:"pass_count"`
	FailCount    int     `json:"fail_count"`
	PassRate     float64 `json:"pass_rate"`
	MeanGpa      float64 `json:"mean_gpa"`
	MedianGpa    float64 `json:"median_gpa"`
	ModeGpa      string  `json:"mode_gpa"`
	StdDevGpa    float64 `json:"std_dev_gpa"`
}

// CohortMetrics summarises the whole filtered record set. Its standard
// deviation follows the population convention (n), deliberately differing
// from the per-course sample convention.
type CohortMetrics struct {
	TotalUniqueStudents int     `json:"total_unique_students"`
	OverallAverageScore float64 `json:"overall_average_score"`
	OverallPassRate     float64 `json:"overall_pass_rate"`
	MedianScore         float64 `json:"median_score"`
	ModeScore           string  `json:"mode_score"`
	StandardDeviation   float64 `json:"standard_deviation"`
}

// StandingBand is a named CGPA range on the 4.0 scale.
type StandingBand struct {
	Standing string  `json:"standing"`
	Min      float64 `json:"-"`
	Max      float64 `json:"-"`
	Range    string  `json:"cgpa_range"`
}

// StandingBucket counts unique students within one academic-standing band.
type StandingBucket struct {
	Standing   string  `json:"standing"`
	CgpaRange  string  `json:"cgpa_range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StudentSummary carries a student's latest cumulative position.
type StudentSummary struct {
	MatricNo    string  `json:"matric_no"`
	StudentName string  `json:"student_name"`
	LatestCGPA  float64 `json:"latest_cgpa"`
}

// GradeSlice is one letter grade's share within a course.
type GradeSlice struct {
	Grade      string  `json:"grade"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CourseGradeDistribution is the A-F breakdown for one course.
type CourseGradeDistribution struct {
	Course       string       `json:"course"`
	Distribution []GradeSlice `json:"distribution"`
}

// CourseFailureRate flags a course whose failure share crossed the threshold.
type CourseFailureRate struct {
	Course       string  `json:"course"`
	FailureRate  float64 `json:"failure_rate"`
	StudentCount int     `json:"student_count"`
}

// CourseDifficulty ranks a course by its mean grade point, ascending.
type CourseDifficulty struct {
	Course       string  `json:"course"`
	AverageGp    float64 `json:"average_gp"`
	StudentCount int     `json:"student_count"`
}

// ConsistencyEntry describes the spread of one student's semester GPAs.
// Only students with at least two distinct semesters qualify.
type ConsistencyEntry struct {
	MatricNo         string  `json:"matric_no"`
	StudentName      string  `json:"student_name"`
	CGPA             float64 `json:"cgpa"`
	GpaStdDeviation  float64 `json:"gpa_std_deviation"`
	SemestersCovered int     `json:"semesters_covered"`
}

// ConsistencyRanking singles out the most and least consistent students.
type ConsistencyRanking struct {
	MostConsistent  *ConsistencyEntry `json:"most_consistent,omitempty"`
	LeastConsistent *ConsistencyEntry `json:"least_consistent,omitempty"`
}

// PerformanceKPI is a named cohort-wide indicator.
type PerformanceKPI struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// DerivedInsights bundles the deterministic counterparts of the narrative
// generator's categories, computed locally from the record set.
type DerivedInsights struct {
	TopPerformers        []StudentSummary          `json:"top_performers"`
	HighFailureCourses   []CourseFailureRate       `json:"high_failure_courses"`
	GradeDistributions   []CourseGradeDistribution `json:"grade_distributions"`
	StandingDistribution []StandingBucket          `json:"standing_distribution"`
	KPIs                 []PerformanceKPI          `json:"kpis"`
	DifficultyRanking    []CourseDifficulty        `json:"difficulty_ranking"`
	Consistency          ConsistencyRanking        `json:"consistency"`
}
