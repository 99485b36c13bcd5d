package spi

import (
	"sort"

	"github.com/classpulse/classpulse/internal/domain/model"
)

// courseSum accumulates per-course score totals.
type courseSum struct {
	sum float64
	n   int
}

// Aggregate holds the per-student sums the SPI formula consumes. It is
// built in a single pass over the rows, either from one student's record
// set or as part of a whole-dataset sweep.
type Aggregate struct {
	StudentID     string
	StudentName   string
	ClassLevel    string
	StudentGender string

	Rows int

	scoreSum      float64
	attendanceSum float64
	handSum       float64

	byCourse     map[string]*courseSum
	byAssessment map[int]*courseSum
}

// NewAggregate builds an aggregate from a single student's record set.
// Returns ErrEmptyRecordSet for empty input and ErrMixedStudents when the
// rows span more than one student id.
func NewAggregate(records model.StudentRecordSet) (*Aggregate, error) {
	if len(records) == 0 {
		return nil, ErrEmptyRecordSet
	}
	if !records.SingleStudent() {
		return nil, ErrMixedStudents
	}

	agg := newAggregate(records[0])
	for i := range records {
		agg.Add(records[i])
	}
	return agg, nil
}

// AggregateAll builds per-student aggregates in a single pass over the
// whole dataset, keyed by student id. Cohort queries use this instead of
// regrouping rows per student.
func AggregateAll(records []model.AssessmentRecord) map[string]*Aggregate {
	out := make(map[string]*Aggregate)
	for i := range records {
		agg, ok := out[records[i].StudentID]
		if !ok {
			agg = newAggregate(records[i])
			out[records[i].StudentID] = agg
		}
		agg.Add(records[i])
	}
	return out
}

func newAggregate(first model.AssessmentRecord) *Aggregate {
	return &Aggregate{
		StudentID:     first.StudentID,
		StudentName:   first.StudentName,
		ClassLevel:    first.ClassLevel,
		StudentGender: first.StudentGender,
		byCourse:      make(map[string]*courseSum),
		byAssessment:  make(map[int]*courseSum),
	}
}

// Add folds one row into the aggregate. Descriptive attributes are taken
// from the first row seen; inconsistent values across rows are undefined
// behavior per the dataset contract.
func (a *Aggregate) Add(rec model.AssessmentRecord) {
	a.Rows++
	a.scoreSum += rec.AssessmentScore
	a.attendanceSum += rec.AttendanceRate
	a.handSum += rec.RaisedHandCount

	cs, ok := a.byCourse[rec.CourseName]
	if !ok {
		cs = &courseSum{}
		a.byCourse[rec.CourseName] = cs
	}
	cs.sum += rec.AssessmentScore
	cs.n++

	as, ok := a.byAssessment[rec.AssessmentNo]
	if !ok {
		as = &courseSum{}
		a.byAssessment[rec.AssessmentNo] = as
	}
	as.sum += rec.AssessmentScore
	as.n++
}

// MeanScore returns the mean assessment score over all rows.
func (a *Aggregate) MeanScore() float64 {
	return a.scoreSum / float64(a.Rows)
}

// MeanAttendance returns the mean attendance rate over all rows.
func (a *Aggregate) MeanAttendance() float64 {
	return a.attendanceSum / float64(a.Rows)
}

// MeanRaisedHands returns the mean raised-hand count over all rows.
func (a *Aggregate) MeanRaisedHands() float64 {
	return a.handSum / float64(a.Rows)
}

// CourseMeans returns the per-course mean scores.
func (a *Aggregate) CourseMeans() map[string]float64 {
	out := make(map[string]float64, len(a.byCourse))
	for course, cs := range a.byCourse {
		out[course] = cs.sum / float64(cs.n)
	}
	return out
}

// FailedCourseCount counts courses whose mean score is strictly below
// the passing threshold.
func (a *Aggregate) FailedCourseCount(passingScore float64) int {
	failed := 0
	for _, cs := range a.byCourse {
		if cs.sum/float64(cs.n) < passingScore {
			failed++
		}
	}
	return failed
}

// TrendEndpoints returns the mean scores of the lowest and highest
// assessment numbers. Assessment numbers are ordered by value, not by
// insertion order. ok is false when fewer than two distinct assessment
// numbers exist, in which case no trend is defined.
func (a *Aggregate) TrendEndpoints() (first, last float64, ok bool) {
	if len(a.byAssessment) < 2 {
		return 0, 0, false
	}
	nos := make([]int, 0, len(a.byAssessment))
	for no := range a.byAssessment {
		nos = append(nos, no)
	}
	sort.Ints(nos)

	fs := a.byAssessment[nos[0]]
	ls := a.byAssessment[nos[len(nos)-1]]
	return fs.sum / float64(fs.n), ls.sum / float64(ls.n), true
}
