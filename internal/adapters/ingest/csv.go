// Package ingest parses the assessment CSV dataset into domain records.
//
// The column contract is fixed: a header row naming at least the required
// columns, one assessment observation per data row. String fields are
// trimmed; unknown columns are ignored.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/classpulse/classpulse/internal/domain/model"
)

// Required dataset columns.
const (
	colStudentID       = "student_id"
	colStudentName     = "student_name"
	colClassLevel      = "class_level"
	colStudentGender   = "student_gender"
	colCourseName      = "course_name"
	colAssessmentNo    = "assessment_no"
	colAssessmentScore = "assessment_score"
	colAttendanceRate  = "attendance_rate"
	colRaisedHands     = "raised_hand_count"
)

// Optional engagement counters carried for distribution views.
const (
	colMoodleViews = "moodle_views"
	colDownloads   = "resources_downloads"
)

var requiredColumns = []string{
	colStudentID,
	colStudentName,
	colClassLevel,
	colStudentGender,
	colCourseName,
	colAssessmentNo,
	colAssessmentScore,
	colAttendanceRate,
	colRaisedHands,
}

// LoadFile reads and parses a CSV dataset from disk. A missing file is
// reported as ErrSourceNotFound, distinct from malformed content, so the
// caller can surface an actionable message.
func LoadFile(ctx context.Context, path string) ([]model.AssessmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(ctx, f)
}

// Parse decodes CSV content into assessment records. Any structural
// problem (missing required column, unreadable cell) fails the whole
// parse; the dataset is never partially loaded.
func Parse(_ context.Context, r io.Reader) ([]model.AssessmentRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read header: %v", ErrMalformedDataset, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrMalformedDataset, col)
		}
	}

	var records []model.AssessmentRecord
	rowNum := 1 // header consumed
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedDataset, rowNum+1, err)
		}
		rowNum++

		rec, err := parseRow(index, row, rowNum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(index map[string]int, row []string, rowNum int) (model.AssessmentRecord, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	assessmentNo, err := strconv.Atoi(cell(colAssessmentNo))
	if err != nil {
		return model.AssessmentRecord{}, cellError(colAssessmentNo, rowNum, err)
	}
	score, err := strconv.ParseFloat(cell(colAssessmentScore), 64)
	if err != nil {
		return model.AssessmentRecord{}, cellError(colAssessmentScore, rowNum, err)
	}
	attendance, err := strconv.ParseFloat(cell(colAttendanceRate), 64)
	if err != nil {
		return model.AssessmentRecord{}, cellError(colAttendanceRate, rowNum, err)
	}
	hands, err := strconv.ParseFloat(cell(colRaisedHands), 64)
	if err != nil {
		return model.AssessmentRecord{}, cellError(colRaisedHands, rowNum, err)
	}

	rec := model.AssessmentRecord{
		RecordID:        fmt.Sprintf("row-%06d", rowNum),
		StudentID:       cell(colStudentID),
		StudentName:     cell(colStudentName),
		ClassLevel:      cell(colClassLevel),
		StudentGender:   cell(colStudentGender),
		CourseName:      cell(colCourseName),
		AssessmentNo:    assessmentNo,
		AssessmentScore: score,
		AttendanceRate:  attendance,
		RaisedHandCount: hands,
	}
	if rec.StudentID == "" {
		return model.AssessmentRecord{}, fmt.Errorf("%w: row %d: empty student_id", ErrMalformedDataset, rowNum)
	}

	// Optional engagement counters; absent or blank cells default to 0.
	if i, ok := index[colMoodleViews]; ok && i < len(row) {
		if v := strings.TrimSpace(row[i]); v != "" {
			if rec.MoodleViews, err = strconv.ParseFloat(v, 64); err != nil {
				return model.AssessmentRecord{}, cellError(colMoodleViews, rowNum, err)
			}
		}
	}
	if i, ok := index[colDownloads]; ok && i < len(row) {
		if v := strings.TrimSpace(row[i]); v != "" {
			if rec.ResourcesDownloads, err = strconv.ParseFloat(v, 64); err != nil {
				return model.AssessmentRecord{}, cellError(colDownloads, rowNum, err)
			}
		}
	}

	return rec, nil
}

func cellError(col string, rowNum int, err error) error {
	return fmt.Errorf("%w: row %d: bad %s: %v", ErrMalformedDataset, rowNum, col, err)
}
