package httptransport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"invoicegate/internal/approval"
	"invoicegate/internal/invoice"
)

// HandleList handles GET /approvals, optionally filtered with ?status=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		records []*approval.Record
		err     error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		records, err = h.service.ListByStatus(ctx, approval.Status(status))
	} else {
		records, err = h.service.ListAll(ctx)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(records))
}

// HandlePendingOverThreshold handles GET /approvals/pending-over-threshold:
// pending records whose total strictly exceeds the given ?amount=.
func (h *Handler) HandlePendingOverThreshold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.URL.Query().Get("amount")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, fmt.Errorf("parse amount %q: %w", raw, invoice.ErrInvalidInput))
		return
	}

	records, err := h.service.ListPendingOverThreshold(ctx, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(records))
}

// HandleGet handles GET /approvals/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleApprove handles POST /approvals/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, approval.StatusApproved)
}

// HandleReject handles POST /approvals/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, approval.StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status approval.Status) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// Body is optional; an empty body means an anonymous decision.
	var req DecideRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, err)
		return
	}

	rec, err := h.service.Decide(ctx, id, status, req.DecidedBy)
	if err != nil {
		h.logger.WarnContext(ctx, "decision rejected",
			"approval_id", id,
			"target_status", status,
			"error", err,
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
