package models

// CourseRecord is the canonical unit of analysis: one student's result for
// one course in one semester, normalised from an uploaded spreadsheet row.
type CourseRecord struct {
	ID            string            `json:"id"`
	MatricNo      string            `json:"matric_no"`
	StudentName   string            `json:"student_name"`
	CourseCode    string            `json:"course_code"`
	CourseTitle   string            `json:"course_title,omitempty"`
	CreditUnits   float64           `json:"credit_units"`
	Level         string            `json:"level,omitempty"`
	Semester      string            `json:"semester,omitempty"`
	Grade         string            `json:"grade"`
	GradePoint    float64           `json:"grade_point"`
	QualityPoints float64           `json:"quality_points"`
	GPA           float64           `json:"gpa"`
	CGPA          float64           `json:"cgpa"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// DisplayName returns the course title when present, falling back to the code.
func (r CourseRecord) DisplayName() string {
	if r.CourseTitle != "" {
		return r.CourseTitle
	}
	return r.CourseCode
}

// ParseReport carries salvaged rows together with non-fatal diagnostics.
type ParseReport struct {
	Records     []CourseRecord `json:"records"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
}

// RecordFilter narrows the working record set. A nil Course means no filtering.
type RecordFilter struct {
	Course *string `json:"course"`
}

// Dataset is the session-scoped state rebuilt on every upload.
type Dataset struct {
	SessionID   string         `json:"session_id"`
	FileName    string         `json:"file_name,omitempty"`
	Records     []CourseRecord `json:"records"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
