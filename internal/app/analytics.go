package service

import (
	"context"
	"sort"

	"github.com/classpulse/classpulse/internal/domain/model"
	"github.com/classpulse/classpulse/internal/domain/spi"
	"github.com/classpulse/classpulse/internal/domain/types"
	"github.com/classpulse/classpulse/pkg/metrics"
)

// Histogram and band edges for the distribution views. Labels are part of
// the API contract consumed by the dashboard.
var (
	scoreBins = []struct {
		label string
		low   float64
		high  float64
	}{
		{"0-40", 0, 40},
		{"40-60", 40, 60},
		{"60-80", 60, 80},
		{"80-100", 80, 101}, // 100 lands in the top bin
	}

	attendanceBands = []struct {
		label string
		low   float64
		high  float64
	}{
		{"Below 70%", -1, 70},
		{"70-79%", 70, 80},
		{"80-89%", 80, 90},
		{"90-100%", 90, 101},
	}

	participationBands = []struct {
		label string
		low   float64
		high  float64
	}{
		{"0-9", -1, 10},
		{"10-19", 10, 20},
		{"20-29", 20, 30},
		{"30+", 30, 1 << 30},
	}

	engagementBands = []struct {
		label string
		low   float64
		high  float64
	}{
		{"Low (<20)", -1, 20},
		{"Medium (20-50)", 20, 50},
		{"High (>50)", 50, 1 << 30},
	}
)

// Students returns per-student summaries built from a single dataset
// sweep, ordered by student id.
func (s *Service) Students(ctx context.Context) []types.StudentSummary {
	aggs := spi.AggregateAll(s.store.Snapshot(ctx))
	rows := make([]types.StudentSummary, 0, len(aggs))
	for _, agg := range aggs {
		res := s.calc.ComputeAggregate(ctx, agg)
		rows = append(rows, types.StudentSummary{
			StudentID:     agg.StudentID,
			StudentName:   agg.StudentName,
			ClassLevel:    agg.ClassLevel,
			StudentGender: agg.StudentGender,
			AvgScore:      agg.MeanScore(),
			AvgAttendance: agg.MeanAttendance(),
			AvgEngagement: res.Breakdown.NormalizedEngagement,
			SPIScore:      res.Score,
			Status:        res.Status,
			StatusColor:   res.StatusColor,
			AtRisk:        res.Status.AtRisk(),
		})
	}
	sort.Slice(rows, byStudentID(rows))
	return rows
}

// CohortSummary aggregates the whole population for the overview panels
// and refreshes the cohort gauges as a side effect.
func (s *Service) CohortSummary(ctx context.Context) types.CohortSummary {
	snapshot := s.store.Snapshot(ctx)
	aggs := spi.AggregateAll(snapshot)

	summary := types.CohortSummary{
		TotalStudents:   len(aggs),
		TotalRecords:    len(snapshot),
		StatusCounts:    make(map[string]int),
		AtRiskByClass:   make(map[string]int),
		StudentsByClass: make(map[string]int),
	}

	var scoreSum, attendanceSum float64
	passing := 0
	for _, agg := range aggs {
		res := s.calc.ComputeAggregate(ctx, agg)

		scoreSum += agg.MeanScore()
		attendanceSum += agg.MeanAttendance()

		summary.StatusCounts[string(res.Status)]++
		summary.StudentsByClass[agg.ClassLevel]++
		if res.Status.AtRisk() {
			summary.AtRiskCount++
			summary.AtRiskByClass[agg.ClassLevel]++
		}
		if res.Status == spi.StatusCritical {
			summary.CriticalCount++
		}
		if res.Breakdown.FailedCourseCount == 0 {
			passing++
		}
	}

	if len(aggs) > 0 {
		n := float64(len(aggs))
		summary.OverallAverage = scoreSum / n
		summary.AverageAttendance = attendanceSum / n
		summary.PassRate = float64(passing) / n * 100
		summary.FailRate = 100 - summary.PassRate
	}

	metrics.UpdateTotalStudents(summary.TotalStudents)
	metrics.UpdateTotalRecords(summary.TotalRecords)
	metrics.UpdateAtRiskStudents(summary.AtRiskCount)
	for status, count := range summary.StatusCounts {
		metrics.UpdateStudentsByStatus(status, count)
	}

	return summary
}

// AtRisk returns the students needing intervention, worst first.
func (s *Service) AtRisk(ctx context.Context) []types.StudentSummary {
	all := s.Students(ctx)
	out := make([]types.StudentSummary, 0)
	for _, row := range all {
		if row.AtRisk {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SPIScore < out[j].SPIScore })
	return out
}

// Distributions computes the rendering-support aggregates from the raw
// dataset. These are grouping queries over the snapshot, independent of
// the SPI formula except for the per-student mean reuse.
func (s *Service) Distributions(ctx context.Context) types.Distributions {
	snapshot := s.store.Snapshot(ctx)
	aggs := spi.AggregateAll(snapshot)

	return types.Distributions{
		ScoreHistogram:      scoreHistogram(aggs),
		ClassAverages:       classAverages(aggs),
		CourseAverages:      courseAveragesAcrossCohort(snapshot),
		Progression:         progression(snapshot),
		AttendanceImpact:    attendanceImpact(aggs),
		ParticipationImpact: participationImpact(aggs),
		EngagementImpact:    engagementImpact(snapshot),
	}
}

func scoreHistogram(aggs map[string]*spi.Aggregate) []types.CountBucket {
	out := make([]types.CountBucket, len(scoreBins))
	for i, bin := range scoreBins {
		out[i].Label = bin.label
	}
	for _, agg := range aggs {
		mean := agg.MeanScore()
		for i, bin := range scoreBins {
			if mean >= bin.low && mean < bin.high {
				out[i].Count++
				break
			}
		}
	}
	return out
}

func classAverages(aggs map[string]*spi.Aggregate) []types.AverageBucket {
	sums := make(map[string]*runningMean)
	for _, agg := range aggs {
		addToMean(sums, agg.ClassLevel, agg.MeanScore())
	}
	return sortedBuckets(sums)
}

func courseAveragesAcrossCohort(snapshot []model.AssessmentRecord) []types.AverageBucket {
	sums := make(map[string]*runningMean)
	for i := range snapshot {
		addToMean(sums, snapshot[i].CourseName, snapshot[i].AssessmentScore)
	}
	return sortedBuckets(sums)
}

func progression(snapshot []model.AssessmentRecord) []types.ProgressionPoint {
	sums := make(map[int]*runningMean)
	for i := range snapshot {
		rm, ok := sums[snapshot[i].AssessmentNo]
		if !ok {
			rm = &runningMean{}
			sums[snapshot[i].AssessmentNo] = rm
		}
		rm.add(snapshot[i].AssessmentScore)
	}

	nos := make([]int, 0, len(sums))
	for no := range sums {
		nos = append(nos, no)
	}
	sort.Ints(nos)

	out := make([]types.ProgressionPoint, len(nos))
	for i, no := range nos {
		out[i] = types.ProgressionPoint{AssessmentNo: no, AverageScore: sums[no].mean()}
	}
	return out
}

func attendanceImpact(aggs map[string]*spi.Aggregate) []types.AverageBucket {
	out := make([]types.AverageBucket, len(attendanceBands))
	means := make([]runningMean, len(attendanceBands))
	for i, band := range attendanceBands {
		out[i].Label = band.label
	}
	for _, agg := range aggs {
		attendance := agg.MeanAttendance()
		for i, band := range attendanceBands {
			if attendance >= band.low && attendance < band.high {
				means[i].add(agg.MeanScore())
				break
			}
		}
	}
	for i := range out {
		out[i].AverageScore = means[i].mean()
		out[i].Count = means[i].n
	}
	return out
}

func participationImpact(aggs map[string]*spi.Aggregate) []types.AverageBucket {
	out := make([]types.AverageBucket, len(participationBands))
	means := make([]runningMean, len(participationBands))
	for i, band := range participationBands {
		out[i].Label = band.label
	}
	for _, agg := range aggs {
		hands := agg.MeanRaisedHands()
		for i, band := range participationBands {
			if hands >= band.low && hands < band.high {
				means[i].add(agg.MeanScore())
				break
			}
		}
	}
	for i := range out {
		out[i].AverageScore = means[i].mean()
		out[i].Count = means[i].n
	}
	return out
}

// engagementImpact groups students by their mean online activity
// (moodle views), which the aggregate does not track; the per-student
// sums are rebuilt from the snapshot here.
func engagementImpact(snapshot []model.AssessmentRecord) []types.AverageBucket {
	type perStudent struct {
		views runningMean
		score runningMean
	}
	students := make(map[string]*perStudent)
	for i := range snapshot {
		ps, ok := students[snapshot[i].StudentID]
		if !ok {
			ps = &perStudent{}
			students[snapshot[i].StudentID] = ps
		}
		ps.views.add(snapshot[i].MoodleViews)
		ps.score.add(snapshot[i].AssessmentScore)
	}

	out := make([]types.AverageBucket, len(engagementBands))
	means := make([]runningMean, len(engagementBands))
	for i, band := range engagementBands {
		out[i].Label = band.label
	}
	for _, ps := range students {
		views := ps.views.mean()
		for i, band := range engagementBands {
			if views >= band.low && views < band.high {
				means[i].add(ps.score.mean())
				break
			}
		}
	}
	for i := range out {
		out[i].AverageScore = means[i].mean()
		out[i].Count = means[i].n
	}
	return out
}

// runningMean accumulates a sum and count.
type runningMean struct {
	sum float64
	n   int
}

func (r *runningMean) add(v float64) {
	r.sum += v
	r.n++
}

func (r *runningMean) mean() float64 {
	if r.n == 0 {
		return 0
	}
	return r.sum / float64(r.n)
}

func addToMean(sums map[string]*runningMean, key string, v float64) {
	rm, ok := sums[key]
	if !ok {
		rm = &runningMean{}
		sums[key] = rm
	}
	rm.add(v)
}

func sortedBuckets(sums map[string]*runningMean) []types.AverageBucket {
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.AverageBucket, len(keys))
	for i, k := range keys {
		out[i] = types.AverageBucket{Label: k, AverageScore: sums[k].mean(), Count: sums[k].n}
	}
	return out
}
