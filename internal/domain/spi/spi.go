// Package spi computes the Student Performance Index: a composite,
// weighted, penalized 0-100 score with a 4-level risk classification
// and an explainable breakdown.
package spi

import (
	"context"
	"math"

	"github.com/classpulse/classpulse/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultAcademicWeight     = 0.60
	defaultAttendanceWeight   = 0.25
	defaultEngagementWeight   = 0.15
	defaultEngagementCeiling  = 30
	defaultPassingScore       = 60
	defaultSingleFailPenalty  = 5
	defaultMultiFailPenalty   = 10
	defaultTrendPenalty       = 5
	defaultTrendDropThreshold = -10
	defaultExcellentThreshold = 80
	defaultSatisfactoryLimit  = 65
	defaultAtRiskThreshold    = 50
	maxScoreValue             = 100
)

// Status is the risk classification derived from the final SPI score.
type Status string

// Status levels, ordered best to worst.
const (
	StatusExcellent    Status = "EXCELLENT"
	StatusSatisfactory Status = "SATISFACTORY"
	StatusAtRisk       Status = "AT RISK"
	StatusCritical     Status = "CRITICAL"
)

// statusColors maps each status to its fixed presentation token.
var statusColors = map[Status]string{
	StatusExcellent:    "#2E7D32", // dark green
	StatusSatisfactory: "#F57C00", // amber
	StatusAtRisk:       "#EF6C00", // orange
	StatusCritical:     "#C62828", // red
}

// Color returns the fixed color token for the status.
func (s Status) Color() string {
	return statusColors[s]
}

// AtRisk reports whether the status counts toward the at-risk cohort.
func (s Status) AtRisk() bool {
	return s == StatusAtRisk || s == StatusCritical
}

// Weights holds the component weights of the base SPI. They are expected
// to sum to 1.0 so the base score stays on the 0-100 scale.
type Weights struct {
	Academic   float64
	Attendance float64
	Engagement float64
}

// Penalties holds the discrete penalty magnitudes subtracted from the base
// SPI. The failure penalty is a step function of the failed-course count,
// not proportional.
type Penalties struct {
	SingleFailure float64 // exactly one failed course
	MultiFailure  float64 // two or more failed courses
	Trend         float64 // declining performance trend
}

// Thresholds holds the classification cut points. Each band is closed on
// its lower bound: a score exactly at a threshold takes the better status.
type Thresholds struct {
	Excellent    float64
	Satisfactory float64
	AtRisk       float64
}

// Breakdown exposes every intermediate quantity of the computation for
// explainability and rendering.
type Breakdown struct {
	BaseSPI              float64 `json:"base_spi"`
	AcademicComponent    float64 `json:"academic_component"`
	AttendanceComponent  float64 `json:"attendance_component"`
	EngagementComponent  float64 `json:"engagement_component"`
	FailurePenalty       float64 `json:"failure_penalty"`
	TrendPenalty         float64 `json:"trend_penalty"`
	FailedCourseCount    int     `json:"failed_courses"`
	PerformanceChange    float64 `json:"performance_change"`
	NormalizedEngagement float64 `json:"normalized_engagement"`
}

// Result is the computed SPI for one student.
type Result struct {
	StudentID   string    `json:"student_id"`
	Score       float64   `json:"score"`
	Status      Status    `json:"status"`
	StatusColor string    `json:"status_color"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Calculator computes SPI results. It is pure and stateless after
// construction; a single instance is safe for concurrent use.
type Calculator struct {
	weights            Weights
	engagementCeiling  float64
	passingScore       float64
	penalties          Penalties
	trendDropThreshold float64
	thresholds         Thresholds
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		weights: Weights{
			Academic:   defaultAcademicWeight,
			Attendance: defaultAttendanceWeight,
			Engagement: defaultEngagementWeight,
		},
		engagementCeiling: defaultEngagementCeiling,
		passingScore:      defaultPassingScore,
		penalties: Penalties{
			SingleFailure: defaultSingleFailPenalty,
			MultiFailure:  defaultMultiFailPenalty,
			Trend:         defaultTrendPenalty,
		},
		trendDropThreshold: defaultTrendDropThreshold,
		thresholds: Thresholds{
			Excellent:    defaultExcellentThreshold,
			Satisfactory: defaultSatisfactoryLimit,
			AtRisk:       defaultAtRiskThreshold,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PassingScore returns the configured passing threshold.
func (c *Calculator) PassingScore() float64 {
	return c.passingScore
}

// Compute calculates the SPI for a single student's record set.
// The set must be non-empty and single-student; ctx is accepted per
// project convention and reserved for future use.
func (c *Calculator) Compute(ctx context.Context, records model.StudentRecordSet) (Result, error) {
	agg, err := NewAggregate(records)
	if err != nil {
		return Result{}, err
	}
	return c.ComputeAggregate(ctx, agg), nil
}

// ComputeAggregate calculates the SPI from a pre-built aggregate. The
// cohort path builds all aggregates in one dataset sweep and reuses them
// here, avoiding a full regrouping per student.
func (c *Calculator) ComputeAggregate(_ context.Context, agg *Aggregate) Result {
	academic := agg.MeanScore() * c.weights.Academic
	attendance := agg.MeanAttendance() * c.weights.Attendance

	normalizedEngagement := math.Min(agg.MeanRaisedHands()/c.engagementCeiling*maxScoreValue, maxScoreValue)
	engagement := normalizedEngagement * c.weights.Engagement

	base := academic + attendance + engagement

	failedCourses := agg.FailedCourseCount(c.passingScore)
	var failurePenalty float64
	switch {
	case failedCourses == 1:
		failurePenalty = c.penalties.SingleFailure
	case failedCourses >= 2:
		failurePenalty = c.penalties.MultiFailure
	}

	// Trend compares only the first and last assessment-number group
	// means; intermediate dips are ignored by design.
	var trendPenalty, performanceChange float64
	if first, last, ok := agg.TrendEndpoints(); ok {
		performanceChange = last - first
		if performanceChange < c.trendDropThreshold {
			trendPenalty = c.penalties.Trend
		}
	}

	score := base - failurePenalty - trendPenalty
	score = math.Max(0, math.Min(maxScoreValue, score))

	status := c.Classify(score)

	return Result{
		StudentID:   agg.StudentID,
		Score:       score,
		Status:      status,
		StatusColor: status.Color(),
		Breakdown: Breakdown{
			BaseSPI:              base,
			AcademicComponent:    academic,
			AttendanceComponent:  attendance,
			EngagementComponent:  engagement,
			FailurePenalty:       failurePenalty,
			TrendPenalty:         trendPenalty,
			FailedCourseCount:    failedCourses,
			PerformanceChange:    performanceChange,
			NormalizedEngagement: normalizedEngagement,
		},
	}
}

// Classify maps a final score to its status. Bands are closed on the
// lower bound: exactly 80 is EXCELLENT, exactly 65 SATISFACTORY,
// exactly 50 AT RISK.
func (c *Calculator) Classify(score float64) Status {
	switch {
	case score >= c.thresholds.Excellent:
		return StatusExcellent
	case score >= c.thresholds.Satisfactory:
		return StatusSatisfactory
	case score >= c.thresholds.AtRisk:
		return StatusAtRisk
	default:
		return StatusCritical
	}
}
