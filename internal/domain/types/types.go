// Package types contains the read shapes returned by cohort and student
// queries, shared between the application service and the HTTP API.
package types

import "github.com/classpulse/classpulse/internal/domain/spi"

// StudentSummary is the per-student row driving cohort views: raw means
// merged with the SPI result.
type StudentSummary struct {
	StudentID     string     `json:"student_id"`
	StudentName   string     `json:"student_name"`
	ClassLevel    string     `json:"class_level"`
	StudentGender string     `json:"student_gender"`
	AvgScore      float64    `json:"avg_score"`
	AvgAttendance float64    `json:"avg_attendance"`
	AvgEngagement float64    `json:"avg_engagement"`
	SPIScore      float64    `json:"spi_score"`
	Status        spi.Status `json:"status"`
	StatusColor   string     `json:"status_color"`
	AtRisk        bool       `json:"at_risk"`
}

// CohortSummary aggregates the whole student population for the
// dashboard's overview panels.
type CohortSummary struct {
	TotalStudents     int            `json:"total_students"`
	TotalRecords      int            `json:"total_records"`
	AtRiskCount       int            `json:"at_risk_count"`
	CriticalCount     int            `json:"critical_count"`
	OverallAverage    float64        `json:"overall_average"`
	AverageAttendance float64        `json:"average_attendance"`
	PassRate          float64        `json:"pass_rate"`
	FailRate          float64        `json:"fail_rate"`
	StatusCounts      map[string]int `json:"status_counts"`
	AtRiskByClass     map[string]int `json:"at_risk_by_class"`
	StudentsByClass   map[string]int `json:"students_by_class"`
}

// CourseAverage is a per-course mean score for one student.
type CourseAverage struct {
	CourseName   string  `json:"course_name"`
	AverageScore float64 `json:"average_score"`
	Passing      bool    `json:"passing"`
}

// StudentSPIDetail is the full per-student lookup payload: the SPI result
// with its breakdown plus descriptive attributes, course performance and
// derived insights.
type StudentSPIDetail struct {
	Result          spi.Result      `json:"spi"`
	StudentName     string          `json:"student_name"`
	ClassLevel      string          `json:"class_level"`
	StudentGender   string          `json:"student_gender"`
	AvgScore        float64         `json:"avg_score"`
	AvgAttendance   float64         `json:"avg_attendance"`
	AvgEngagement   float64         `json:"avg_engagement"`
	PassingCourses  int             `json:"passing_courses"`
	TotalCourses    int             `json:"total_courses"`
	CourseAverages  []CourseAverage `json:"course_averages"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
}

// CountBucket is a labelled count, e.g. one bar of the score histogram.
type CountBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AverageBucket is a labelled group mean, e.g. the average score of an
// attendance band.
type AverageBucket struct {
	Label        string  `json:"label"`
	AverageScore float64 `json:"average_score"`
	Count        int     `json:"count"`
}

// ProgressionPoint is the dataset-wide mean score of one assessment number.
type ProgressionPoint struct {
	AssessmentNo int     `json:"assessment_no"`
	AverageScore float64 `json:"average_score"`
}

// Distributions bundles the presentation-support aggregates derived from
// the raw dataset. These are grouping queries, not SPI engine output.
type Distributions struct {
	ScoreHistogram      []CountBucket      `json:"score_histogram"`
	ClassAverages       []AverageBucket    `json:"class_averages"`
	CourseAverages      []AverageBucket    `json:"course_averages"`
	Progression         []ProgressionPoint `json:"progression"`
	AttendanceImpact    []AverageBucket    `json:"attendance_impact"`
	ParticipationImpact []AverageBucket    `json:"participation_impact"`
	EngagementImpact    []AverageBucket    `json:"engagement_impact"`
}
