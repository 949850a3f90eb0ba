package event

import (
	"time"

	"invoicegate/internal/approval"
	"invoicegate/internal/validation"
)

// TypeInvoiceValidated tags every event this service emits today.
const TypeInvoiceValidated = "InvoiceValidated"

// InvoiceValidated is the immutable decision event published for downstream
// consumers (accounting ingest, audit trails, analytics, notifications).
// Consumers filter on approved, total, confidence, or vendor. Delivery is
// at-least-once; the approval id is the dedupe key.
type InvoiceValidated struct {
	EventType     string    `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	ApprovalID    string    `json:"approval_id"`
	Vendor        string    `json:"vendor"`
	InvoiceNumber string    `json:"invoice_number"`
	Total         float64   `json:"total"`
	Approved      bool      `json:"approved"`
	Reason        string    `json:"reason"`
	Confidence    float64   `json:"confidence"`
}

// NewInvoiceValidated derives the event from a validation result and its
// persisted approval record. Deterministic apart from the timestamp.
func NewInvoiceValidated(result validation.Result, rec *approval.Record) InvoiceValidated {
	return InvoiceValidated{
		EventType:     TypeInvoiceValidated,
		Timestamp:     time.Now().UTC(),
		ApprovalID:    rec.ID,
		Vendor:        rec.Vendor,
		InvoiceNumber: rec.InvoiceNumber,
		Total:         rec.Total,
		Approved:      result.Approved,
		Reason:        result.Reason,
		Confidence:    rec.Confidence,
	}
}
