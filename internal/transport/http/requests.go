package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"invoicegate/internal/invoice"
	"invoicegate/internal/validation"
)

// ValidateRequest carries extracted invoice fields submitted for validation.
// BillToAuthorized, when present, replaces the configured whitelist for this
// request only.
type ValidateRequest struct {
	Vendor           string   `json:"vendor"`
	InvoiceNumber    string   `json:"invoice_number"`
	InvoiceDate      string   `json:"invoice_date"`
	Total            float64  `json:"total"`
	Currency         string   `json:"currency"`
	Confidence       float64  `json:"confidence"`
	BillTo           string   `json:"bill_to"`
	Content          string   `json:"content"`
	BillToAuthorized []string `json:"bill_to_authorized"`
}

func (r ValidateRequest) Document() validation.Document {
	return validation.Document{
		Vendor:        r.Vendor,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		Total:         r.Total,
		Currency:      r.Currency,
		Confidence:    r.Confidence,
		BillTo:        r.BillTo,
		Content:       r.Content,
	}
}

// DecideRequest is the optional body for manual approve/reject endpoints.
type DecideRequest struct {
	DecidedBy string `json:"decided_by"`
}

// decodeJSON strictly decodes the request body into v. Unknown fields are
// rejected so client typos surface as 400s instead of silently dropped input.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w: %w", err, invoice.ErrInvalidInput)
	}
	return nil
}
