package seedgen

import "time"

// Config holds configuration for the seed run
type Config struct {
	BaseURL              string        // Base URL of the service
	NumStudents          int           // Number of synthetic students to generate
	CoursesPerStudent    int           // Courses each student is enrolled in
	AssessmentsPerCourse int           // Assessment occasions per course
	Workers              int           // Number of concurrent workers
	Timeout              time.Duration // HTTP request timeout
	OutputFile           string        // Output file for generated records
	LogFile              string        // Log file for run output
	Verbose              bool          // Enable verbose logging
}

// Record represents an assessment record to be submitted
type Record struct {
	RecordID           string  `json:"record_id"`
	StudentID          string  `json:"student_id"`
	StudentName        string  `json:"student_name"`
	ClassLevel         string  `json:"class_level"`
	StudentGender      string  `json:"student_gender"`
	CourseName         string  `json:"course_name"`
	AssessmentNo       int     `json:"assessment_no"`
	AssessmentScore    float64 `json:"assessment_score"`
	AttendanceRate     float64 `json:"attendance_rate"`
	RaisedHandCount    float64 `json:"raised_hand_count"`
	MoodleViews        float64 `json:"moodle_views"`
	ResourcesDownloads float64 `json:"resources_downloads"`
}

// SPIPayload is the subset of the student SPI response used for verification
type SPIPayload struct {
	SPI struct {
		StudentID string  `json:"student_id"`
		Score     float64 `json:"score"`
		Status    string  `json:"status"`
	} `json:"spi"`
	TotalCourses int `json:"total_courses"`
}

// AckResponse represents the response from record submission
type AckResponse struct {
	Status    string `json:"status"`
	RecordID  string `json:"record_id"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seed run statistics
type Stats struct {
	RecordsGenerated  int
	RecordsSubmitted  int
	RecordsSuccessful int
	RecordsDuplicate  int
	RecordsFailed     int
	StudentsVerified  int
	ScoreMismatches   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
