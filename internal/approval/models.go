package approval

import "time"

// Status is the approval lifecycle state. A record starts pending (or is
// created directly approved when validation auto-approved it) and transitions
// exactly once into a terminal state via an explicit manual decision.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Type records how the decision was reached.
type Type string

const (
	TypeAutoApproved Type = "auto-approved"
	TypeManualReview Type = "manual-review"
)

// Record is the persisted decision artifact for one validated document.
// Invariant: UpdatedAt >= CreatedAt; IDs are never reused.
type Record struct {
	ID            string    `json:"id"`
	Status        Status    `json:"status"`
	Vendor        string    `json:"vendor"`
	InvoiceNumber string    `json:"invoice_number"`
	Total         float64   `json:"total"`
	Currency      string    `json:"currency"`
	Confidence    float64   `json:"confidence"`
	ApprovalType  Type      `json:"approval_type"`
	DecidedBy     string    `json:"decided_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
