package httptransport

import (
	"invoicegate/internal/approval"
	"invoicegate/internal/validation"
)

// ValidateResponse is the validation outcome plus the id of the approval
// record it produced, so callers can follow up on pending decisions.
type ValidateResponse struct {
	validation.Result
	ApprovalID string `json:"approval_id"`
}

// ListResponse wraps record listings with a count for quick client-side
// sanity checks.
type ListResponse struct {
	Approvals []*approval.Record `json:"approvals"`
	Count     int                `json:"count"`
}

func newListResponse(records []*approval.Record) ListResponse {
	if records == nil {
		records = []*approval.Record{}
	}
	return ListResponse{Approvals: records, Count: len(records)}
}

// DocumentResponse is the extraction-only reply: the fields pulled from a raw
// document, before any validation.
type DocumentResponse struct {
	Vendor        string  `json:"vendor"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	Confidence    float64 `json:"confidence"`
	BillTo        string  `json:"bill_to"`
	Content       string  `json:"content"`
}

func documentResponse(doc validation.Document) DocumentResponse {
	return DocumentResponse{
		Vendor:        doc.Vendor,
		InvoiceNumber: doc.InvoiceNumber,
		InvoiceDate:   doc.InvoiceDate,
		Total:         doc.Total,
		Currency:      doc.Currency,
		Confidence:    doc.Confidence,
		BillTo:        doc.BillTo,
		Content:       doc.Content,
	}
}
