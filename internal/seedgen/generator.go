package seedgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/classpulse/classpulse/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeDivisor   = 6
	studentIDBase      = 5000
)

// Constants for score generation ranges.
const (
	excellentMin       = 85.0
	excellentRange     = 13.0
	steadyMin          = 65.0
	steadyRange        = 15.0
	decliningStart     = 85.0
	decliningDrop      = 20.0
	strugglingMin      = 40.0
	strugglingRange    = 18.0
	failingMin         = 25.0
	failingRange       = 25.0
	erraticMin         = 30.0
	erraticRange       = 65.0
	scoreJitter        = 4.0
	highAttendanceMin  = 88.0
	highAttendanceSpan = 12.0
	midAttendanceMin   = 72.0
	midAttendanceSpan  = 18.0
	lowAttendanceMin   = 50.0
	lowAttendanceSpan  = 25.0
	highHandsMin       = 22.0
	highHandsSpan      = 16.0
	midHandsMin        = 10.0
	midHandsSpan       = 14.0
	lowHandsMin        = 1.0
	lowHandsSpan       = 9.0
	moodleViewsSpan    = 120.0
	downloadsSpan      = 40.0
)

// Student performance archetypes.
const (
	archetypeExcellent = 0
	archetypeSteady    = 1
	archetypeDeclining = 2
	archetypeSingleGap = 3
	archetypeFailing   = 4
	archetypeErratic   = 5
)

// courseNames is the pool of synthetic course names.
var courseNames = []string{
	"Math", "Science", "History", "English", "Geography",
	"Physics", "Chemistry", "Biology", "Art", "Music",
}

// classLevels is the pool of synthetic class levels.
var classLevels = []string{"C6", "C7", "C8"}

// genders is the pool of synthetic gender labels.
var genders = []string{"M", "F"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pickInt returns a random int in [0, n).
func pickInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateRecords creates assessment records for the configured number of
// synthetic students. Students are assigned a performance archetype so the
// resulting cohort spans all four status bands.
func generateRecords(ctx context.Context, config *Config, stats *Stats) ([]Record, error) {
	logger.Get().Info(ctx, "generating assessment records",
		logger.Int("students", config.NumStudents),
		logger.Int("coursesPerStudent", config.CoursesPerStudent),
		logger.Int("assessmentsPerCourse", config.AssessmentsPerCourse))

	type studentResult struct {
		index   int
		records []Record
		err     error
	}

	resultChan := make(chan studentResult, config.NumStudents)

	workerCount := minInt(config.Workers, config.NumStudents)
	studentsPerWorker := config.NumStudents / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * studentsPerWorker
		end := start + studentsPerWorker
		if worker == workerCount-1 {
			end = config.NumStudents // Last worker gets remaining students
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- studentResult{index: i, err: ctx.Err()}
					return
				default:
					recs := generateStudentRecords(config, i)
					resultChan <- studentResult{index: i, records: recs, err: nil}
				}
			}
		}(start, end)
	}

	records := make([]Record, 0, config.NumStudents*config.CoursesPerStudent*config.AssessmentsPerCourse)
	for i := 0; i < config.NumStudents; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during record generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate records for student %d: %w", result.index, result.err)
			}
			records = append(records, result.records...)
		}
	}

	stats.RecordsGenerated = len(records)
	logger.Get().Info(ctx, "generated records successfully", logger.Int("count", len(records)))

	return records, nil
}

// generateStudentRecords creates the full assessment history for one student.
func generateStudentRecords(config *Config, index int) []Record {
	studentID := strconv.Itoa(studentIDBase + index)
	studentName := "Student " + studentID
	classLevel := classLevels[pickInt(len(classLevels))]
	gender := genders[pickInt(len(genders))]
	archetype := pickInt(archetypeDivisor)

	attendance := attendanceFor(archetype)
	hands := handsFor(archetype)

	courses := pickCourses(config.CoursesPerStudent)
	records := make([]Record, 0, len(courses)*config.AssessmentsPerCourse)

	for ci, course := range courses {
		for no := 1; no <= config.AssessmentsPerCourse; no++ {
			score := scoreFor(archetype, ci, no, config.AssessmentsPerCourse)
			records = append(records, Record{
				RecordID:           uuid.New().String(),
				StudentID:          studentID,
				StudentName:        studentName,
				ClassLevel:         classLevel,
				StudentGender:      gender,
				CourseName:         course,
				AssessmentNo:       no,
				AssessmentScore:    score,
				AttendanceRate:     attendance + getRandomFloat()*scoreJitter,
				RaisedHandCount:    hands,
				MoodleViews:        getRandomFloat() * moodleViewsSpan,
				ResourcesDownloads: getRandomFloat() * downloadsSpan,
			})
		}
	}

	return records
}

// pickCourses selects n distinct course names from the pool.
func pickCourses(n int) []string {
	if n >= len(courseNames) {
		return courseNames
	}
	perm := make([]string, len(courseNames))
	copy(perm, courseNames)
	for i := 0; i < n; i++ {
		j := i + pickInt(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:n]
}

// scoreFor produces an assessment score following the archetype trajectory.
// courseIdx selects which courses fail for the gap archetypes; no is the
// 1-based assessment occasion.
func scoreFor(archetype, courseIdx, no, total int) float64 {
	switch archetype {
	case archetypeExcellent:
		return excellentMin + getRandomFloat()*excellentRange
	case archetypeSteady:
		return steadyMin + getRandomFloat()*steadyRange
	case archetypeDeclining:
		// Performance drops linearly across the term to trip the trend penalty.
		progress := float64(no-1) / float64(maxInt(total-1, 1))
		return decliningStart - decliningDrop*progress + getRandomFloat()*scoreJitter
	case archetypeSingleGap:
		// One failing course, the rest comfortably passing.
		if courseIdx == 0 {
			return strugglingMin + getRandomFloat()*strugglingRange
		}
		return steadyMin + getRandomFloat()*steadyRange
	case archetypeFailing:
		return failingMin + getRandomFloat()*failingRange
	case archetypeErratic:
		return erraticMin + getRandomFloat()*erraticRange
	default:
		return steadyMin + getRandomFloat()*steadyRange
	}
}

// attendanceFor returns a base attendance rate for the archetype.
func attendanceFor(archetype int) float64 {
	switch archetype {
	case archetypeExcellent:
		return highAttendanceMin + getRandomFloat()*highAttendanceSpan
	case archetypeFailing:
		return lowAttendanceMin + getRandomFloat()*lowAttendanceSpan
	default:
		return midAttendanceMin + getRandomFloat()*midAttendanceSpan
	}
}

// handsFor returns a raised-hands count for the archetype.
func handsFor(archetype int) float64 {
	switch archetype {
	case archetypeExcellent:
		return highHandsMin + getRandomFloat()*highHandsSpan
	case archetypeFailing:
		return lowHandsMin + getRandomFloat()*lowHandsSpan
	default:
		return midHandsMin + getRandomFloat()*midHandsSpan
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// maxInt returns the maximum of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
