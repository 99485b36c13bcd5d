package seedgen

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/classpulse/classpulse/internal/domain/model"
	"github.com/classpulse/classpulse/internal/domain/spi"
	"github.com/classpulse/classpulse/pkg/logger"
)

// verifyResults recomputes every student's SPI locally and compares it
// against the service's answer. The service must be running with default
// scoring configuration for the comparison to hold.
func verifyResults(ctx context.Context, config *Config, records []Record, stats *Stats) error {
	logger.Get().Info(ctx, "verifying SPI results")

	byStudent := groupByStudent(records)
	if len(byStudent) == 0 {
		return fmt.Errorf("no students to verify")
	}

	client := newHTTPClient(config.Timeout)
	calc := spi.New()

	studentIDs := make([]string, 0, len(byStudent))
	for id := range byStudent {
		studentIDs = append(studentIDs, id)
	}
	sort.Strings(studentIDs)

	verified := 0
	mismatches := 0
	for _, id := range studentIDs {
		expected, err := localSPI(ctx, calc, byStudent[id])
		if err != nil {
			return fmt.Errorf("local SPI for student %s: %w", id, err)
		}

		got, err := fetchStudentSPI(ctx, client, config.BaseURL, id)
		if err != nil {
			logger.Get().Warn(ctx, "failed to fetch student SPI",
				logger.String("studentID", id), logger.Error(err))
			continue
		}

		verified++
		if math.Abs(got.SPI.Score-expected.Score) > ScoreTolerance || got.SPI.Status != string(expected.Status) {
			mismatches++
			logger.Get().Warn(ctx, "SPI mismatch",
				logger.String("studentID", id),
				logger.Float64("expectedScore", expected.Score),
				logger.Float64("gotScore", got.SPI.Score),
				logger.String("expectedStatus", string(expected.Status)),
				logger.String("gotStatus", got.SPI.Status))
		} else if config.Verbose {
			logger.Get().Info(ctx, "SPI verified",
				logger.String("studentID", id),
				logger.Float64("score", got.SPI.Score),
				logger.String("status", got.SPI.Status))
		}
	}

	stats.StudentsVerified = verified
	stats.ScoreMismatches = mismatches

	if mismatches > 0 {
		return fmt.Errorf("%d of %d students had SPI mismatches", mismatches, verified)
	}

	logger.Get().Info(ctx, "SPI verification completed",
		logger.Int("verified", verified))
	return nil
}

// verifyCohort fetches the cohort summary and checks the population count.
func verifyCohort(ctx context.Context, config *Config, records []Record) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/cohort/summary"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch cohort summary: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read cohort summary: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("cohort summary returned status %d", resp.StatusCode)
	}

	var summary struct {
		TotalStudents int `json:"total_students"`
		TotalRecords  int `json:"total_records"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return fmt.Errorf("failed to parse cohort summary: %w", err)
	}

	seeded := len(groupByStudent(records))
	if summary.TotalStudents < seeded {
		return fmt.Errorf("cohort has %d students, expected at least %d", summary.TotalStudents, seeded)
	}

	logger.Get().Info(ctx, "cohort summary verified",
		logger.Int("totalStudents", summary.TotalStudents),
		logger.Int("totalRecords", summary.TotalRecords))
	return nil
}

// groupByStudent indexes generated records by student id.
func groupByStudent(records []Record) map[string][]Record {
	out := make(map[string][]Record)
	for _, rec := range records {
		out[rec.StudentID] = append(out[rec.StudentID], rec)
	}
	return out
}

// localSPI computes the expected SPI for one student from the generated records.
func localSPI(ctx context.Context, calc *spi.Calculator, records []Record) (spi.Result, error) {
	set := make(model.StudentRecordSet, len(records))
	for i, rec := range records {
		set[i] = model.AssessmentRecord{
			RecordID:           rec.RecordID,
			StudentID:          rec.StudentID,
			StudentName:        rec.StudentName,
			ClassLevel:         rec.ClassLevel,
			StudentGender:      rec.StudentGender,
			CourseName:         rec.CourseName,
			AssessmentNo:       rec.AssessmentNo,
			AssessmentScore:    rec.AssessmentScore,
			AttendanceRate:     rec.AttendanceRate,
			RaisedHandCount:    rec.RaisedHandCount,
			MoodleViews:        rec.MoodleViews,
			ResourcesDownloads: rec.ResourcesDownloads,
		}
	}
	return calc.Compute(ctx, set)
}

// fetchStudentSPI retrieves one student's SPI from the service.
func fetchStudentSPI(ctx context.Context, client *HTTPClient, baseURL, studentID string) (*SPIPayload, error) {
	url := baseURL + "/students/" + studentID + "/spi"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload SPIPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &payload, nil
}
