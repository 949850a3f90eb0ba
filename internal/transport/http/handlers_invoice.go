package httptransport

import (
	"io"
	"net/http"
	"time"
)

// maxUploadBytes bounds raw document uploads on the extraction endpoints.
const maxUploadBytes = 32 << 20 // 32 MiB

// HandleValidate handles POST /invoices/validate: already-extracted fields in,
// validation result plus approval id out. Rule failures are 200s with
// approved=false; only malformed input or infrastructure faults error.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, rec, err := h.service.Validate(ctx, req.Document(), req.BillToAuthorized)
	if err != nil {
		h.logger.ErrorContext(ctx, "validation request failed",
			"vendor", req.Vendor,
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "validation request served",
		"approval_id", rec.ID,
		"approved", result.Approved,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, ValidateResponse{Result: result, ApprovalID: rec.ID})
}

// HandleExtract handles POST /invoices/extract: raw document bytes in,
// extracted fields out. Nothing is validated or persisted.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	content, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.service.Extract(ctx, content, r.Header.Get("X-Filename"))
	if err != nil {
		h.logger.ErrorContext(ctx, "extraction request failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse(doc))
}

// HandleProcess handles POST /invoices/process: the full pipeline, extraction
// followed by validation and persistence.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	content, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, err)
		return
	}

	result, rec, err := h.service.Process(ctx, content, r.Header.Get("X-Filename"), nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "process request failed", "error", err)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "process request served",
		"approval_id", rec.ID,
		"approved", result.Approved,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, ValidateResponse{Result: result, ApprovalID: rec.ID})
}
