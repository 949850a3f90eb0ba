package validation

import "fmt"

// Engine combines the classifier, the bill-to matcher, and the numeric
// thresholds into a single approval decision. It holds no mutable state and
// performs no I/O, so a single instance is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the rule configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate runs the five checks in fixed order and folds them into a Result.
// Rule failures are not errors: the caller always gets a Result, with Reason
// explaining the first failing check when not approved.
//
// Both boundaries are inclusive: a total exactly at the threshold and a
// confidence exactly at the minimum both pass.
func (e *Engine) Evaluate(doc Document) Result {
	cls := Classify(doc.Content)

	checks := CheckResult{
		AmountWithinLimit:      doc.Total <= e.cfg.AmountThreshold,
		ConfidenceSufficient:   doc.Confidence >= e.cfg.MinConfidence,
		DocumentTypeIsInvoice:  cls.IsInvoice() || !e.cfg.RequireInvoiceKeyword,
		DocumentTypeNotReceipt: !cls.IsReceipt() || !e.cfg.RejectReceiptKeyword,
		BillToAuthorized:       Authorized(doc.BillTo, e.cfg.AllowedBillToNames),
	}

	approved := checks.All()

	return Result{
		Approved: approved,
		Reason:   e.reason(doc, checks, approved),
		Checks:   checks,
		Metadata: Metadata{
			Amount:     doc.Total,
			Confidence: doc.Confidence,
			Vendor:     doc.Vendor,
			Config:     e.cfg,
		},
	}
}

func (e *Engine) reason(doc Document, checks CheckResult, approved bool) string {
	if approved {
		return fmt.Sprintf("Auto-approved: $%.2f at %.1f%% confidence", doc.Total, doc.Confidence*100)
	}

	switch checks.FirstFailed() {
	case CheckAmountWithinLimit:
		return fmt.Sprintf("Manual review required: amount $%.2f exceeds threshold $%.2f",
			doc.Total, e.cfg.AmountThreshold)
	case CheckConfidenceSufficient:
		return fmt.Sprintf("Manual review required: confidence %.1f%% below minimum %.1f%%",
			doc.Confidence*100, e.cfg.MinConfidence*100)
	case CheckDocumentTypeIsInvoice:
		return "Manual review required: no payment-obligation language found in document"
	case CheckDocumentTypeNotReceipt:
		return "Manual review required: document contains payment-confirmation (receipt) language"
	case CheckBillToAuthorized:
		return fmt.Sprintf("Manual review required: bill-to %q is not an authorized recipient", doc.BillTo)
	}
	return "Manual review required"
}
