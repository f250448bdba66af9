package models

import "time"

// GeneratorRecord mirrors the field-keyed shape the narrative generator
// expects for each course entry. Key names are part of the wire contract.
type GeneratorRecord struct {
	MatricNo    string  `json:"Matric No"`
	StudentName string  `json:"Student Name"`
	CourseCode  string  `json:"Course Code"`
	CourseTitle string  `json:"Course Title,omitempty"`
	CreditUnits float64 `json:"Credit Units"`
	Level       string  `json:"Level,omitempty"`
	Semester    string  `json:"Semester,omitempty"`
	Grade       string  `json:"Grade"`
	GP          float64 `json:"GP"`
	GPA         float64 `json:"GPA"`
	CGPA        float64 `json:"CGPA"`
}

// GeneratorRequest is the outbound payload for one insight generation call.
type GeneratorRequest struct {
	StudentResults []GeneratorRecord `json:"studentResults"`
}

// TopPerformingStudent names a student the generator ranked highly.
type TopPerformingStudent struct {
	Name     string  `json:"name"`
	MatricNo string  `json:"matricNo"`
	CGPA     float64 `json:"cgpa"`
	Reason   string  `json:"reason"`
}

// HighFailureCourse flags a course the generator found troubling.
type HighFailureCourse struct {
	Course      string  `json:"course"`
	FailureRate float64 `json:"failureRate"`
	Reason      string  `json:"reason"`
}

// GradeDistributionEntry is one letter grade's share in a course.
type GradeDistributionEntry struct {
	Grade      string  `json:"grade"`
	Count      float64 `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CourseGradeDistributionInsight is the generator's per-course A-F breakdown.
type CourseGradeDistributionInsight struct {
	Course       string                   `json:"course"`
	Distribution []GradeDistributionEntry `json:"distribution"`
	Observation  string                   `json:"observation"`
}

// AcademicStandingEntry buckets unique students by CGPA band.
type AcademicStandingEntry struct {
	Standing   string  `json:"standing"`
	Count      float64 `json:"count"`
	Percentage float64 `json:"percentage"`
	CgpaRange  string  `json:"cgpaRange"`
}

// KeyPerformanceIndicator is a dataset-wide headline metric with commentary.
type KeyPerformanceIndicator struct {
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	Observation string `json:"observation"`
}

// CourseDifficultyEntry ranks courses by average grade point.
type CourseDifficultyEntry struct {
	Course       string  `json:"course"`
	AverageGp    float64 `json:"averageGp"`
	StudentCount float64 `json:"studentCount"`
}

// ConsistentStudent marks the most or least consistent student.
type ConsistentStudent struct {
	Type                 string  `json:"type"`
	StudentName          string  `json:"studentName"`
	MatricNo             string  `json:"matricNo"`
	CGPA                 float64 `json:"cgpa"`
	GpaStandardDeviation float64 `json:"gpaStandardDeviation"`
}

// FoundationalCourseImpact names the 100-level course with the strongest
// correlation to a high final CGPA.
type FoundationalCourseImpact struct {
	Course      string `json:"course"`
	Observation string `json:"observation"`
}

// GradePointCorrelation is a free-text correlation finding.
type GradePointCorrelation struct {
	Finding string `json:"finding"`
}

// ProbationStudent is carried by legacy generator responses under the old
// atRiskStudents key and survives the rename as studentsOnProbation.
type ProbationStudent struct {
	Name         string  `json:"name"`
	MatricNo     string  `json:"matricNo"`
	AverageScore float64 `json:"averageScore"`
	Reason       string  `json:"reason"`
}

// AiInsights is the generator's full response schema. Every category is an
// array and is empty (never nil once normalised) when the generator found no
// qualifying instances. All numeric values are advisory.
type AiInsights struct {
	TopPerformingStudents        []TopPerformingStudent           `json:"topPerformingStudents"`
	HighFailureCourses           []HighFailureCourse              `json:"highFailureCourses"`
	CourseGradeDistributions     []CourseGradeDistributionInsight `json:"courseGradeDistributions"`
	AcademicStandingDistribution []AcademicStandingEntry          `json:"academicStandingDistribution"`
	KeyPerformanceIndicators     []KeyPerformanceIndicator        `json:"keyPerformanceIndicators"`
	CourseDifficultyRanking      []CourseDifficultyEntry          `json:"courseDifficultyRanking"`
	MostAndLeastConsistent       []ConsistentStudent              `json:"mostAndLeastConsistentStudents"`
	FoundationalCourseImpact     []FoundationalCourseImpact       `json:"foundationalCourseImpact"`
	GradePointCorrelation        []GradePointCorrelation          `json:"gradePointCorrelation"`
	StudentsOnProbation          []ProbationStudent               `json:"studentsOnProbation,omitempty"`
}

// EmptyAiInsights is the canonical all-empty-categories result used when
// there is nothing to analyse.
func EmptyAiInsights() *AiInsights {
	insights := &AiInsights{}
	insights.Normalize()
	return insights
}

// Normalize replaces nil category slices with empty ones so consumers can
// range without nil checks and serialisation always yields arrays.
func (a *AiInsights) Normalize() {
	if a.TopPerformingStudents == nil {
		a.TopPerformingStudents = []TopPerformingStudent{}
	}
	if a.HighFailureCourses == nil {
		a.HighFailureCourses = []HighFailureCourse{}
	}
	if a.CourseGradeDistributions == nil {
		a.CourseGradeDistributions = []CourseGradeDistributionInsight{}
	}
	if a.AcademicStandingDistribution == nil {
		a.AcademicStandingDistribution = []AcademicStandingEntry{}
	}
	if a.KeyPerformanceIndicators == nil {
		a.KeyPerformanceIndicators = []KeyPerformanceIndicator{}
	}
	if a.CourseDifficultyRanking == nil {
		a.CourseDifficultyRanking = []CourseDifficultyEntry{}
	}
	if a.MostAndLeastConsistent == nil {
		a.MostAndLeastConsistent = []ConsistentStudent{}
	}
	if a.FoundationalCourseImpact == nil {
		a.FoundationalCourseImpact = []FoundationalCourseImpact{}
	}
	if a.GradePointCorrelation == nil {
		a.GradePointCorrelation = []GradePointCorrelation{}
	}
}

// InsightStatus enumerates the per-session generation lifecycle.
type InsightStatus string

const (
	InsightStatusIdle    InsightStatus = "idle"
	InsightStatusRunning InsightStatus = "running"
	InsightStatusReady   InsightStatus = "ready"
	InsightStatusFailed  InsightStatus = "failed"
)

// InsightState is the session-scoped insight slot. Uploading new data
// destroys it; a finished generation overwrites it (latest wins).
type InsightState struct {
	Status      InsightStatus `json:"status"`
	Insights    *AiInsights   `json:"insights,omitempty"`
	Error       string        `json:"error,omitempty"`
	RequestedAt time.Time     `json:"requested_at,omitempty"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}
