package spi

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Insight banding constants, matching the dashboard copy.
const (
	strongScoreBand       = 80
	goodScoreBand         = 70
	excellentAttendance   = 90
	goodAttendance        = 80
	attendanceConcern     = 70
	highEngagementBand    = 80
	midEngagementBand     = 50
	improvingTrendMinimum = 10
)

// Insights derives the human-readable observations for one student from
// the aggregate and its computed result. Output order is fixed so the
// same input always renders the same list.
func (c *Calculator) Insights(agg *Aggregate, res Result) []string {
	var out []string

	switch res.Status {
	case StatusExcellent:
		out = append(out, "Excellent performance: student is performing exceptionally well across all metrics")
	case StatusSatisfactory:
		out = append(out, "Satisfactory performance: student is meeting expectations")
	case StatusAtRisk:
		out = append(out, "At risk: student needs support to improve performance")
	case StatusCritical:
		out = append(out, "Critical status: immediate intervention required")
	}

	avgScore := agg.MeanScore()
	switch {
	case avgScore >= strongScoreBand:
		out = append(out, "Strong academics: consistently scoring above 80")
	case avgScore >= goodScoreBand:
		out = append(out, "Good academic standing: maintaining solid grades")
	case avgScore >= c.passingScore:
		out = append(out, "Borderline performance: scores just above the passing threshold")
	default:
		out = append(out, fmt.Sprintf("Academic emergency: failing average (below %.0f)", c.passingScore))
	}

	avgAttendance := agg.MeanAttendance()
	switch {
	case avgAttendance >= excellentAttendance:
		out = append(out, "Excellent attendance: rarely misses class")
	case avgAttendance >= goodAttendance:
		out = append(out, "Good attendance: regular class participation")
	case avgAttendance >= attendanceConcern:
		out = append(out, "Attendance concern: missing classes regularly")
	default:
		out = append(out, "Poor attendance: significant absences affecting performance")
	}

	switch {
	case res.Breakdown.NormalizedEngagement >= highEngagementBand:
		out = append(out, "Highly engaged: exceptional class participation")
	case res.Breakdown.NormalizedEngagement >= midEngagementBand:
		out = append(out, "Moderate engagement: participates occasionally")
	default:
		out = append(out, "Low engagement: rarely participates in class")
	}

	if res.Breakdown.TrendPenalty > 0 {
		out = append(out, fmt.Sprintf("Declining trend: performance dropped by %.1f points", math.Abs(res.Breakdown.PerformanceChange)))
	} else if res.Breakdown.PerformanceChange > improvingTrendMinimum {
		out = append(out, fmt.Sprintf("Improving trend: performance increased by %.1f points", res.Breakdown.PerformanceChange))
	}

	if res.Breakdown.FailedCourseCount > 0 {
		failing := coursesBelow(agg, c.passingScore)
		out = append(out, fmt.Sprintf("Failing %d course(s): %s", res.Breakdown.FailedCourseCount, strings.Join(failing, ", ")))
	}

	if strong := coursesAtOrAbove(agg, strongScoreBand); len(strong) > 0 {
		out = append(out, "Strong subjects: "+strings.Join(strong, ", "))
	}

	return out
}

// Recommendations returns the fixed action list for a status.
func Recommendations(status Status) []string {
	switch status {
	case StatusCritical:
		return []string{
			"Schedule immediate parent-teacher conference",
			"Develop individualized academic support plan",
			"Consider intensive tutoring services",
			"Investigate barriers to attendance and engagement",
		}
	case StatusAtRisk:
		return []string{
			"Schedule parent-teacher conference",
			"Provide targeted tutoring for failing courses",
			"Monitor attendance and engagement closely",
		}
	case StatusSatisfactory:
		return []string{
			"Continue current support strategies",
			"Encourage participation in challenging coursework",
		}
	default:
		return []string{
			"Consider advanced placement opportunities",
			"Encourage peer tutoring and mentoring roles",
		}
	}
}

func coursesBelow(agg *Aggregate, threshold float64) []string {
	var out []string
	for course, mean := range agg.CourseMeans() {
		if mean < threshold {
			out = append(out, course)
		}
	}
	sort.Strings(out)
	return out
}

func coursesAtOrAbove(agg *Aggregate, threshold float64) []string {
	var out []string
	for course, mean := range agg.CourseMeans() {
		if mean >= threshold {
			out = append(out, course)
		}
	}
	sort.Strings(out)
	return out
}
