// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/classpulse/classpulse/internal/domain/dedupe"
	"github.com/classpulse/classpulse/internal/domain/model"
)

// RecordDependencies defines the interface for record ingestion dependencies.
type RecordDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, rec model.AssessmentRecord) bool
}

// RecordsHandler handles assessment record submissions.
type RecordsHandler struct {
	deps RecordDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandlePostRecord handles POST /records requests.
func (h *RecordsHandler) HandlePostRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_record"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec := req.toRecord()

	// Idempotency check - mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), rec.RecordID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", RecordID: rec.RecordID, Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), rec); !ok {
		// Roll back the seen status so the caller can retry.
		h.deps.Unrecord(r.Context(), rec.RecordID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", RecordID: rec.RecordID, Duplicate: false})
}
