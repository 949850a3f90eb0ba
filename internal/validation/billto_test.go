package validation

import "testing"

func TestAuthorized(t *testing.T) {
	tests := []struct {
		name    string
		billTo  string
		allowed []string
		want    bool
	}{
		{
			name:    "empty list accepts anything",
			billTo:  "Random Company Ltd",
			allowed: nil,
			want:    true,
		},
		{
			name:    "empty list accepts missing bill-to",
			billTo:  "",
			allowed: nil,
			want:    true,
		},
		{
			name:    "exact match",
			billTo:  "My Company",
			allowed: []string{"My Company"},
			want:    true,
		},
		{
			name:    "bill-to is a prefix of an allowed entry",
			billTo:  "Acme Corp",
			allowed: []string{"Acme Corporation Pty Ltd"},
			want:    true,
		},
		{
			name:    "allowed entry is contained in bill-to",
			billTo:  "Acme Corporation Pty Ltd",
			allowed: []string{"Acme Corp"},
			want:    true,
		},
		{
			name:    "case and whitespace are normalized",
			billTo:  "  MY COMPANY  ",
			allowed: []string{"my company"},
			want:    true,
		},
		{
			name:    "unrelated company rejected",
			billTo:  "Different Company Ltd",
			allowed: []string{"My Company", "Our Organization"},
			want:    false,
		},
		{
			name:    "missing bill-to rejected against non-empty list",
			billTo:  "",
			allowed: []string{"My Company"},
			want:    false,
		},
		{
			name:    "whitespace-only bill-to rejected against non-empty list",
			billTo:  "   ",
			allowed: []string{"My Company"},
			want:    false,
		},
		{
			name:    "second entry matches",
			billTo:  "Our Organization GmbH",
			allowed: []string{"My Company", "Our Organization"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorized(tt.billTo, tt.allowed); got != tt.want {
				t.Errorf("Authorized(%q, %v) = %v, want %v", tt.billTo, tt.allowed, got, tt.want)
			}
		})
	}
}
