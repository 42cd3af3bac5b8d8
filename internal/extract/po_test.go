package extract

import "testing"

func TestPONumber(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name    string
		subject string
		body    string
		want    string
		pattern string
	}{
		{
			name:    "labeled alphanumeric",
			subject: "Purchase Order - Audemic Scholar",
			body:    "Please action the below.\nPURCHASE ORDER NO.: IPO51565\nStudent: Amal Ahmed",
			want:    "IPO51565",
			pattern: "labeled",
		},
		{
			name:    "labeled with spaced colon",
			subject: "New order",
			body:    "Order No. : 184451\nDeliver to student",
			want:    "184451",
			pattern: "labeled",
		},
		{
			name:    "packed order code from rendered pdf",
			subject: "Remtek order",
			body:    "Audemic Scholar licence requested.\n1 / 150353502026-01-19\nDeliver electronically.",
			want:    "5035350",
			pattern: "packed",
		},
		{
			name:    "prefixed code in subject",
			subject: "POR184451 - Audemic Scholar x1",
			body:    "See attached order document.",
			want:    "POR184451",
			pattern: "prefixed",
		},
		{
			name:    "standalone numeric",
			subject: "Licence request",
			body:    "Ref 6123456 raised yesterday.",
			want:    "6123456",
			pattern: "numeric",
		},
		{
			name:    "phone number rejected",
			subject: "Licence request",
			body:    "PO: 07512345678\nCall us any time.",
			want:    "",
			pattern: "",
		},
		{
			name:    "date rejected",
			subject: "Licence request",
			body:    "PO 20260119 is not an order reference.",
			want:    "",
			pattern: "",
		},
		{
			name:    "nothing present",
			subject: "Hello",
			body:    "Just checking in about licences.",
			want:    "",
			pattern: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pattern := PONumberWithPattern(tt.subject, tt.body, rules)
			if got != tt.want {
				t.Errorf("PONumberWithPattern() po = %q, want %q", got, tt.want)
			}
			if pattern != tt.pattern {
				t.Errorf("PONumberWithPattern() pattern = %q, want %q", pattern, tt.pattern)
			}
		})
	}
}

func TestPONumberDeterministic(t *testing.T) {
	rules := DefaultRules()
	subject := "Purchase Order - Audemic Scholar"
	body := "PURCHASE ORDER NO.: IPO51565"

	first := PONumber(subject, body, rules)
	for i := 0; i < 5; i++ {
		if got := PONumber(subject, body, rules); got != first {
			t.Fatalf("PONumber not deterministic: got %q then %q", first, got)
		}
	}
}

func TestPONumberLabeledPriority(t *testing.T) {
	rules := DefaultRules()
	// Both a labeled reference and a standalone numeric candidate are
	// present; the labeled one wins.
	body := "PO NO.: 184451\nInvoice total 6123456 pending."
	if got := PONumber("", body, rules); got != "184451" {
		t.Errorf("PONumber() = %q, want labeled candidate 184451", got)
	}
}
