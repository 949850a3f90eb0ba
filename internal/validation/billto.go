package validation

import "strings"

// Authorized reports whether a document's bill-to addressee is on the allowed
// list. An empty list accepts everything: the accept-all default is a
// deliberate convenience for single-company deployments, but it is
// configuration-sensitive — production setups should pin the list down.
//
// Matching is symmetric substring containment after trimming and lowercasing,
// so "Acme Corp" matches an allowed entry of "Acme Corporation Pty Ltd" and
// vice versa. A missing bill-to never authorizes against a non-empty list.
func Authorized(billTo string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	normalized := strings.ToLower(strings.TrimSpace(billTo))
	if normalized == "" {
		return false
	}

	for _, entry := range allowed {
		candidate := strings.ToLower(strings.TrimSpace(entry))
		if candidate == "" {
			continue
		}
		if strings.Contains(normalized, candidate) || strings.Contains(candidate, normalized) {
			return true
		}
	}
	return false
}
