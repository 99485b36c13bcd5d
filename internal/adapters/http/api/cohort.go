// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/classpulse/classpulse/internal/domain/types"
)

// CohortDependencies defines the interface for cohort-level queries.
type CohortDependencies interface {
	CohortSummary(ctx context.Context) types.CohortSummary
	AtRisk(ctx context.Context) []types.StudentSummary
}

// CohortHandler handles cohort aggregate requests.
type CohortHandler struct {
	deps CohortDependencies
}

// NewCohortHandler creates a new cohort handler.
func NewCohortHandler(deps CohortDependencies) *CohortHandler {
	return &CohortHandler{deps: deps}
}

// HandleSummary handles GET /cohort/summary requests.
func (h *CohortHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CohortSummary(r.Context()))
}

// HandleAtRisk handles GET /cohort/at-risk requests.
func (h *CohortHandler) HandleAtRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AtRisk(r.Context()))
}
