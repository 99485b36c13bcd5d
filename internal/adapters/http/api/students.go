// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/classpulse/classpulse/internal/domain/types"
)

// StudentsDependencies defines the interface for the student list.
type StudentsDependencies interface {
	Students(ctx context.Context) []types.StudentSummary
}

// StudentsHandler handles student list requests.
type StudentsHandler struct {
	deps StudentsDependencies
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(deps StudentsDependencies) *StudentsHandler {
	return &StudentsHandler{deps: deps}
}

// HandleGetStudents handles GET /students requests.
func (h *StudentsHandler) HandleGetStudents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Students(r.Context()))
}
