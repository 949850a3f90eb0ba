package validation

import (
	"strings"
	"testing"
)

func defaultConfig() Config {
	return Config{
		AmountThreshold:       500.0,
		MinConfidence:         0.85,
		RequireInvoiceKeyword: true,
		RejectReceiptKeyword:  true,
	}
}

const invoiceContent = "INVOICE\nVendor: ACME Corp\nAmount Due: $450.00\nPlease remit payment"

func TestEvaluateAutoApproves(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllowedBillToNames = []string{"Acme Corporation"}
	engine := NewEngine(cfg)

	result := engine.Evaluate(Document{
		Vendor:     "ACME Corp",
		Total:      450.00,
		Confidence: 0.92,
		Content:    invoiceContent,
		BillTo:     "Acme Corp",
	})

	if !result.Approved {
		t.Fatalf("expected approval, got reason %q", result.Reason)
	}
	if !result.Checks.All() {
		t.Fatalf("expected all checks true, got %+v", result.Checks)
	}
	if !strings.Contains(strings.ToLower(result.Reason), "auto-approved") {
		t.Errorf("reason %q should mention auto-approval", result.Reason)
	}
}

func TestEvaluateAmountOverThreshold(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllowedBillToNames = []string{"Acme Corporation"}
	engine := NewEngine(cfg)

	result := engine.Evaluate(Document{
		Total:      600.00,
		Confidence: 0.92,
		Content:    invoiceContent,
		BillTo:     "Acme Corp",
	})

	if result.Approved {
		t.Fatal("expected manual review")
	}
	if result.Checks.AmountWithinLimit {
		t.Error("amount_within_limit should be false")
	}
	if !strings.Contains(result.Reason, "$600.00") || !strings.Contains(result.Reason, "$500.00") {
		t.Errorf("reason %q should mention the amount and the threshold", result.Reason)
	}
}

func TestEvaluateAmountBoundaryInclusive(t *testing.T) {
	engine := NewEngine(defaultConfig())

	result := engine.Evaluate(Document{Total: 500.00, Confidence: 0.92, Content: invoiceContent})
	if !result.Checks.AmountWithinLimit {
		t.Error("total exactly at the threshold should pass")
	}

	result = engine.Evaluate(Document{Total: 500.01, Confidence: 0.92, Content: invoiceContent})
	if result.Checks.AmountWithinLimit {
		t.Error("total just over the threshold should fail")
	}
}

func TestEvaluateConfidenceBoundaryInclusive(t *testing.T) {
	engine := NewEngine(defaultConfig())

	result := engine.Evaluate(Document{Total: 100, Confidence: 0.85, Content: invoiceContent})
	if !result.Checks.ConfidenceSufficient {
		t.Error("confidence exactly at the minimum should pass")
	}

	result = engine.Evaluate(Document{Total: 100, Confidence: 0.8499, Content: invoiceContent})
	if result.Checks.ConfidenceSufficient {
		t.Error("confidence below the minimum should fail")
	}
	if !strings.Contains(strings.ToLower(result.Reason), "confidence") {
		t.Errorf("reason %q should mention confidence", result.Reason)
	}
}

func TestEvaluateConfidenceMonotonic(t *testing.T) {
	engine := NewEngine(defaultConfig())

	prev := false
	for _, c := range []float64{0, 0.2, 0.5, 0.84, 0.85, 0.9, 1} {
		ok := engine.Evaluate(Document{Total: 100, Confidence: c, Content: invoiceContent}).Checks.ConfidenceSufficient
		if prev && !ok {
			t.Fatalf("confidence_sufficient regressed at confidence %v", c)
		}
		prev = ok
	}
}

func TestEvaluateRejectsReceipt(t *testing.T) {
	engine := NewEngine(defaultConfig())

	result := engine.Evaluate(Document{
		Total:      100.00,
		Confidence: 0.99,
		Content:    "RECEIPT\nPayment Received: $100.00\nThank you for your payment",
		BillTo:     "Acme Corp",
	})

	if result.Approved {
		t.Fatal("expected manual review for receipt")
	}
	if result.Checks.DocumentTypeNotReceipt {
		t.Error("document_type_not_receipt should be false")
	}
}

func TestEvaluateEmptyContentFailsTowardReview(t *testing.T) {
	engine := NewEngine(defaultConfig())

	result := engine.Evaluate(Document{Total: 100, Confidence: 0.95, Content: ""})

	if result.Checks.DocumentTypeIsInvoice {
		t.Error("empty content must not classify as invoice")
	}
	if result.Approved {
		t.Error("empty content must not auto-approve")
	}
}

func TestEvaluateKeywordTogglesDisableChecks(t *testing.T) {
	cfg := defaultConfig()
	cfg.RequireInvoiceKeyword = false
	cfg.RejectReceiptKeyword = false
	engine := NewEngine(cfg)

	// A receipt with no obligation language passes both type checks when the
	// toggles are off.
	result := engine.Evaluate(Document{
		Total:      100,
		Confidence: 0.95,
		Content:    "RECEIPT\nThank you for your payment",
	})

	if !result.Checks.DocumentTypeIsInvoice {
		t.Error("document_type_is_invoice should default to pass when disabled")
	}
	if !result.Checks.DocumentTypeNotReceipt {
		t.Error("document_type_not_receipt should default to pass when disabled")
	}
	if !result.Approved {
		t.Errorf("expected approval with type checks disabled, got %q", result.Reason)
	}
}

func TestEvaluateUnauthorizedBillTo(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllowedBillToNames = []string{"My Company", "Our Organization"}
	engine := NewEngine(cfg)

	result := engine.Evaluate(Document{
		Total:      100,
		Confidence: 0.95,
		Content:    invoiceContent,
		BillTo:     "Different Company Ltd",
	})

	if result.Approved {
		t.Fatal("expected manual review for unauthorized bill-to")
	}
	if result.Checks.BillToAuthorized {
		t.Error("bill_to_authorized should be false")
	}
	if !strings.Contains(result.Reason, "Different Company Ltd") {
		t.Errorf("reason %q should name the unauthorized bill-to", result.Reason)
	}
}

// TestEvaluateReasonNamesFirstFailure pins the fixed evaluation order: with
// several checks failing at once, the reason reports the earliest one.
func TestEvaluateReasonNamesFirstFailure(t *testing.T) {
	engine := NewEngine(defaultConfig())

	result := engine.Evaluate(Document{
		Total:      800.00, // over threshold
		Confidence: 0.75,   // below minimum
		Content:    "RECEIPT\nPayment received via Mastercard",
	})

	if result.Approved {
		t.Fatal("expected manual review")
	}
	if got := result.Checks.FirstFailed(); got != CheckAmountWithinLimit {
		t.Fatalf("FirstFailed() = %q, want %q", got, CheckAmountWithinLimit)
	}
	if !strings.Contains(result.Reason, "exceeds threshold") {
		t.Errorf("reason %q should report the amount check first", result.Reason)
	}
}

func TestEvaluateMetadataSnapshot(t *testing.T) {
	cfg := defaultConfig()
	engine := NewEngine(cfg)

	result := engine.Evaluate(Document{
		Vendor:     "ACME Corp",
		Total:      123.45,
		Confidence: 0.9,
		Content:    invoiceContent,
	})

	if result.Metadata.Amount != 123.45 || result.Metadata.Confidence != 0.9 {
		t.Errorf("metadata should snapshot amount and confidence, got %+v", result.Metadata)
	}
	if result.Metadata.Vendor != "ACME Corp" {
		t.Errorf("metadata vendor = %q", result.Metadata.Vendor)
	}
	if result.Metadata.Config.AmountThreshold != cfg.AmountThreshold {
		t.Errorf("metadata should snapshot the config used")
	}
}
