package validation

// Document is the extracted-field payload handed to the rule engine. It is
// produced by the external extraction boundary and treated as immutable here.
type Document struct {
	Vendor        string
	InvoiceNumber string
	InvoiceDate   string // unparsed, exactly as extracted
	Total         float64
	Currency      string
	Confidence    float64
	BillTo        string
	Content       string // full OCR text, may be empty
}

// Config holds the rule knobs. Loaded once per process; treated as constant
// for the lifetime of a request.
type Config struct {
	AmountThreshold       float64  `json:"amount_threshold"`
	MinConfidence         float64  `json:"min_confidence"`
	RequireInvoiceKeyword bool     `json:"require_invoice_keyword"`
	RejectReceiptKeyword  bool     `json:"reject_receipt_keyword"`
	AllowedBillToNames    []string `json:"allowed_bill_to_names,omitempty"`
}

// CheckResult carries the five independent rule checks. Field order matches
// the fixed evaluation order used for reason reporting.
type CheckResult struct {
	AmountWithinLimit      bool `json:"amount_within_limit"`
	ConfidenceSufficient   bool `json:"confidence_sufficient"`
	DocumentTypeIsInvoice  bool `json:"document_type_is_invoice"`
	DocumentTypeNotReceipt bool `json:"document_type_not_receipt"`
	BillToAuthorized       bool `json:"bill_to_authorized"`
}

// Check names, in evaluation order.
const (
	CheckAmountWithinLimit      = "amount_within_limit"
	CheckConfidenceSufficient   = "confidence_sufficient"
	CheckDocumentTypeIsInvoice  = "document_type_is_invoice"
	CheckDocumentTypeNotReceipt = "document_type_not_receipt"
	CheckBillToAuthorized       = "bill_to_authorized"
)

// FirstFailed returns the name of the first failed check in evaluation order,
// or the empty string when all checks passed.
func (c CheckResult) FirstFailed() string {
	switch {
	case !c.AmountWithinLimit:
		return CheckAmountWithinLimit
	case !c.ConfidenceSufficient:
		return CheckConfidenceSufficient
	case !c.DocumentTypeIsInvoice:
		return CheckDocumentTypeIsInvoice
	case !c.DocumentTypeNotReceipt:
		return CheckDocumentTypeNotReceipt
	case !c.BillToAuthorized:
		return CheckBillToAuthorized
	}
	return ""
}

// All reports whether every check passed.
func (c CheckResult) All() bool {
	return c.AmountWithinLimit &&
		c.ConfidenceSufficient &&
		c.DocumentTypeIsInvoice &&
		c.DocumentTypeNotReceipt &&
		c.BillToAuthorized
}

// Metadata snapshots the inputs and configuration a result was computed from,
// so downstream consumers can interpret the decision without re-reading config.
type Metadata struct {
	Amount     float64 `json:"amount"`
	Confidence float64 `json:"confidence"`
	Vendor     string  `json:"vendor,omitempty"`
	Config     Config  `json:"config"`
}

// Result is the immutable outcome of a validation. Approved is the AND of all
// five checks; Reason names the first failing check or carries the success
// message.
type Result struct {
	Approved bool        `json:"approved"`
	Reason   string      `json:"reason"`
	Checks   CheckResult `json:"checks"`
	Metadata Metadata    `json:"metadata"`
}
