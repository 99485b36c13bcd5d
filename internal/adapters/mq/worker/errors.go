package worker

import "errors"

// Sentinel kinds for record validation errors.
var (
	ErrMissingStudentID = errors.New("missing student id")
	ErrMissingCourse    = errors.New("missing course name")
	ErrBadAssessmentNo  = errors.New("assessment number must be positive")
)
