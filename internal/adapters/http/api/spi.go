// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/classpulse/classpulse/internal/domain/types"
)

// StudentSPIDependencies defines the interface for per-student SPI lookups.
type StudentSPIDependencies interface {
	StudentSPI(ctx context.Context, studentID string, passingOverride *float64) (types.StudentSPIDetail, error)
}

// StudentSPIHandler handles per-student SPI requests.
type StudentSPIHandler struct {
	deps StudentSPIDependencies
}

// NewStudentSPIHandler creates a new student SPI handler.
func NewStudentSPIHandler(deps StudentSPIDependencies) *StudentSPIHandler {
	return &StudentSPIHandler{deps: deps}
}

// HandleGetStudentSPI handles GET /students/{id}/spi requests. The id must
// be an integer; an optional passing_score query parameter overrides the
// configured passing threshold for this computation.
func (h *StudentSPIHandler) HandleGetStudentSPI(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_student_spi"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/students/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "spi" {
		http.NotFound(w, r)
		return
	}
	studentID := parts[0]
	if _, err := strconv.Atoi(studentID); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, errors.New("student id must be an integer")))
		return
	}

	var passingOverride *float64
	if raw := r.URL.Query().Get("passing_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, errors.New("passing_score must be a number")))
			return
		}
		passingOverride = &v
	}

	detail, err := h.deps.StudentSPI(r.Context(), studentID, passingOverride)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
