// Package repository defines the assessment dataset store interface and
// errors.
package repository

import (
	"context"

	"github.com/classpulse/classpulse/internal/domain/model"
)

// Store provides read/write access to the in-memory assessment dataset.
// Writes happen during bootstrap and async ingestion; reads back the SPI
// and analytics queries.
type Store interface {
	// Append adds one assessment record to its student's record set.
	Append(ctx context.Context, rec model.AssessmentRecord) error

	// RecordSet returns a copy of all records for a student.
	// Returns ErrStudentNotFound if the student has no rows.
	RecordSet(ctx context.Context, studentID string) (model.StudentRecordSet, error)

	// StudentIDs returns the distinct student ids, sorted ascending.
	StudentIDs(ctx context.Context) []string

	// Snapshot returns a copy of every record in the dataset, for
	// whole-dataset aggregation passes.
	Snapshot(ctx context.Context) []model.AssessmentRecord

	// StudentCount returns the number of distinct students.
	StudentCount(ctx context.Context) int

	// RecordCount returns the total number of records.
	RecordCount(ctx context.Context) int
}
