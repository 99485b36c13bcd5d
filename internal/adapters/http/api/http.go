// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/classpulse/classpulse/internal/adapters/repository"
	"github.com/classpulse/classpulse/internal/domain/dedupe"
	"github.com/classpulse/classpulse/internal/domain/model"
	"github.com/classpulse/classpulse/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a record for async ingestion. Returns false on backpressure.
	Enqueue(ctx context.Context, rec model.AssessmentRecord) bool

	// Read operations expose the SPI and cohort data.
	StudentSPI(ctx context.Context, studentID string, passingOverride *float64) (types.StudentSPIDetail, error)
	Students(ctx context.Context) []types.StudentSummary
	CohortSummary(ctx context.Context) types.CohortSummary
	AtRisk(ctx context.Context) []types.StudentSummary
	Distributions(ctx context.Context) types.Distributions
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	recordsHandler       *RecordsHandler
	studentsHandler      *StudentsHandler
	studentSPIHandler    *StudentSPIHandler
	cohortHandler        *CohortHandler
	distributionsHandler *DistributionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		recordsHandler:       NewRecordsHandler(deps),
		studentsHandler:      NewStudentsHandler(deps),
		studentSPIHandler:    NewStudentSPIHandler(deps),
		cohortHandler:        NewCohortHandler(deps),
		distributionsHandler: NewDistributionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandlePostRecord, "records"))
	mux.HandleFunc("/students", MetricsMiddleware(s.studentsHandler.HandleGetStudents, "students"))
	mux.HandleFunc("/students/", MetricsMiddleware(s.studentSPIHandler.HandleGetStudentSPI, "student_spi"))
	mux.HandleFunc("/cohort/summary", MetricsMiddleware(s.cohortHandler.HandleSummary, "cohort_summary"))
	mux.HandleFunc("/cohort/at-risk", MetricsMiddleware(s.cohortHandler.HandleAtRisk, "cohort_at_risk"))
	mux.HandleFunc("/distributions", MetricsMiddleware(s.distributionsHandler.HandleGetDistributions, "distributions"))
}

// recordRequest mirrors the OpenAPI schema for POST /records.
type recordRequest struct {
	RecordID           string  `json:"record_id"`
	StudentID          string  `json:"student_id"`
	StudentName        string  `json:"student_name"`
	ClassLevel         string  `json:"class_level"`
	StudentGender      string  `json:"student_gender"`
	CourseName         string  `json:"course_name"`
	AssessmentNo       int     `json:"assessment_no"`
	AssessmentScore    float64 `json:"assessment_score"`
	AttendanceRate     float64 `json:"attendance_rate"`
	RaisedHandCount    float64 `json:"raised_hand_count"`
	MoodleViews        float64 `json:"moodle_views"`
	ResourcesDownloads float64 `json:"resources_downloads"`
}

func (r recordRequest) validate() error {
	switch {
	case strings.TrimSpace(r.StudentID) == "":
		return errors.New("missing student_id")
	case strings.TrimSpace(r.CourseName) == "":
		return errors.New("missing course_name")
	case r.AssessmentNo < 1:
		return errors.New("assessment_no must be >= 1")
	}
	return nil
}

// toRecord converts the request to the domain record. A missing record_id
// gets a deterministic content-based id so resubmissions deduplicate.
func (r recordRequest) toRecord() model.AssessmentRecord {
	id := strings.TrimSpace(r.RecordID)
	if id == "" {
		id = fmt.Sprintf("%s_%s_%d", strings.TrimSpace(r.StudentID), strings.TrimSpace(r.CourseName), r.AssessmentNo)
	}
	return model.AssessmentRecord{
		RecordID:           id,
		StudentID:          strings.TrimSpace(r.StudentID),
		StudentName:        strings.TrimSpace(r.StudentName),
		ClassLevel:         strings.TrimSpace(r.ClassLevel),
		StudentGender:      strings.TrimSpace(r.StudentGender),
		CourseName:         strings.TrimSpace(r.CourseName),
		AssessmentNo:       r.AssessmentNo,
		AssessmentScore:    r.AssessmentScore,
		AttendanceRate:     r.AttendanceRate,
		RaisedHandCount:    r.RaisedHandCount,
		MoodleViews:        r.MoodleViews,
		ResourcesDownloads: r.ResourcesDownloads,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	RecordID  string `json:"record_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates the store's not-found condition for the API layer.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrStudentNotFound)
}
