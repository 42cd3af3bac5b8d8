package entity

import (
	"testing"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
)

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name string
		req  ProvisioningRequest
		want string
	}{
		{
			name: "email lowercased with po",
			req:  ProvisioningRequest{StudentEmail: "Amal.Ahmed2024@Gmail.com", PONumber: "IPO51565"},
			want: "amal.ahmed2024@gmail.com-IPO51565",
		},
		{
			name: "missing po collapses to nopo",
			req:  ProvisioningRequest{StudentEmail: "amal@gmail.com", PONumber: ""},
			want: "amal@gmail.com-nopo",
		},
		{
			name: "sentinel po collapses to nopo",
			req:  ProvisioningRequest{StudentEmail: "amal@gmail.com", PONumber: constants.PONotFound},
			want: "amal@gmail.com-nopo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.DedupKey(); got != tt.want {
				t.Errorf("DedupKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	r := ProvisioningRequest{NeedsReview: false}
	if r.Status() != constants.RequestStatusParsed {
		t.Errorf("Status() = %q", r.Status())
	}
	r.NeedsReview = true
	if r.Status() != constants.RequestStatusNeedsReview {
		t.Errorf("Status() = %q", r.Status())
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Amal Ahmed", "Amal", "Ahmed"},
		{"Segilola Christianah Kikelomo Faleru", "Segilola", "Christianah Kikelomo Faleru"},
		{"Cher", "Cher", "Cher"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.full)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = %q, %q; want %q, %q", tt.full, first, last, tt.first, tt.last)
		}
	}
}
