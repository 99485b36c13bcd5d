// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/classpulse/classpulse/internal/domain/types"
)

// DistributionsDependencies defines the interface for distribution queries.
type DistributionsDependencies interface {
	Distributions(ctx context.Context) types.Distributions
}

// DistributionsHandler handles distribution requests.
type DistributionsHandler struct {
	deps DistributionsDependencies
}

// NewDistributionsHandler creates a new distributions handler.
func NewDistributionsHandler(deps DistributionsDependencies) *DistributionsHandler {
	return &DistributionsHandler{deps: deps}
}

// HandleGetDistributions handles GET /distributions requests.
func (h *DistributionsHandler) HandleGetDistributions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Distributions(r.Context()))
}
