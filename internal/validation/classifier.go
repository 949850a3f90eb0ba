package validation

import "strings"

// Obligation cues mark documents that demand a future payment: due dates,
// remittance instructions, banking details. Confirmation cues mark documents
// recording a payment that already happened: card details, zero balances,
// refund language. The two sets are disjoint.
//
// Cues are matched as lowercase substrings. Multi-word phrases are preferred
// over single words to keep accidental matches rare; where a short cue can
// appear inside unrelated text (e.g. "visa"), the misfire pushes toward manual
// review, never toward auto-approval.
var obligationCues = []string{
	"amount due",
	"balance due",
	"total due",
	"due date",
	"due upon receipt",
	"payment due",
	"please remit",
	"remit payment",
	"remit to",
	"remittance",
	"payment terms",
	"net 15",
	"net 30",
	"net 45",
	"net 60",
	"make payable to",
	"bank transfer",
	"wire transfer",
	"ach transfer",
	"direct deposit",
	"routing number",
	"account number",
	"iban",
	"swift code",
}

var confirmationCues = []string{
	"receipt",
	"payment received",
	"amount paid",
	"paid in full",
	"thank you for your payment",
	"payment confirmation",
	"transaction id",
	"transaction number",
	"card ending",
	"visa",
	"mastercard",
	"american express",
	"debit card",
	"auth code",
	"approval code",
	"zero balance",
	"no balance due",
	"refund",
	"change due",
	"cash tendered",
}

// Classification is the classifier output. Both signals may be set at once
// (a document can carry obligation and confirmation language) or neither;
// combining them is the rule engine's job, not the classifier's.
type Classification struct {
	ObligationHits   int
	ConfirmationHits int
}

// IsInvoice reports whether at least one obligation cue was found.
func (c Classification) IsInvoice() bool { return c.ObligationHits > 0 }

// IsReceipt reports whether at least one confirmation cue was found.
func (c Classification) IsReceipt() bool { return c.ConfirmationHits > 0 }

// Classify scans OCR text for obligation and confirmation cues. It is pure and
// deterministic: identical content always yields identical results. Empty
// content yields neither signal, which the rule engine treats as
// fail-toward-manual-review.
func Classify(content string) Classification {
	if content == "" {
		return Classification{}
	}

	lower := strings.ToLower(content)

	var cls Classification
	for _, cue := range obligationCues {
		cls.ObligationHits += strings.Count(lower, cue)
	}
	for _, cue := range confirmationCues {
		cls.ConfirmationHits += strings.Count(lower, cue)
	}
	return cls
}
