// Package model contains domain models passed between layers.
package model

// AssessmentRecord is one row of the assessment dataset: a single
// (student, course, assessment occasion) observation.
// Fields mirror the dataset column contract.
type AssessmentRecord struct {
	RecordID           string  // unique row id for idempotent ingestion
	StudentID          string  // stable student identifier, repeats across rows
	StudentName        string  // descriptive, constant per student
	ClassLevel         string  // e.g. "C7"
	StudentGender      string  // descriptive, constant per student
	CourseName         string  // course the assessment belongs to
	AssessmentNo       int     // ordinal position within the term sequence
	AssessmentScore    float64 // 0-100 expected, not clamped on input
	AttendanceRate     float64 // percentage, 0-100 expected
	RaisedHandCount    float64 // class-participation signal
	MoodleViews        float64 // online engagement counter, not part of SPI
	ResourcesDownloads float64 // online engagement counter, not part of SPI
}

// StudentRecordSet holds all assessment rows for one student. It is the
// sole input unit of the SPI calculator; callers must ensure it is
// non-empty and single-student before handing it over.
type StudentRecordSet []AssessmentRecord

// StudentID returns the student id shared by the set, or "" for an empty set.
func (rs StudentRecordSet) StudentID() string {
	if len(rs) == 0 {
		return ""
	}
	return rs[0].StudentID
}

// SingleStudent reports whether every row carries the same student id.
func (rs StudentRecordSet) SingleStudent() bool {
	for i := 1; i < len(rs); i++ {
		if rs[i].StudentID != rs[0].StudentID {
			return false
		}
	}
	return true
}
