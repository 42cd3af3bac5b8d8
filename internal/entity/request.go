package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
)

// InboundEmail is the pipeline input supplied by the mail-retrieval
// collaborator: the plain-text body with any attachment-derived text appended
// after the attachment marker.
type InboundEmail struct {
	Subject       string `json:"subject"`
	SenderAddress string `json:"sender_address"`
	CombinedBody  string `json:"combined_body"`
}

// EmailContent is the segmented form of an inbound email. Body holds
// everything before the attachment marker; AttachmentText everything after
// it (empty when no marker is present).
type EmailContent struct {
	Subject        string
	SenderAddress  string
	Body           string
	AttachmentText string
}

// ProvisioningRequest is the assembled output record for one matching email.
// Immutable after assembly. Every field is always populated; missing data is
// represented by a sentinel value, never by an empty field.
type ProvisioningRequest struct {
	ID                  uuid.UUID          `json:"id"`
	Provider            constants.Provider `json:"provider"`
	ProviderContactName string             `json:"provider_contact_name"`
	StudentFullName     string             `json:"student_full_name"`
	StudentFirstName    string             `json:"student_first_name"`
	StudentLastName     string             `json:"student_last_name"`
	StudentEmail        string             `json:"student_email"`
	LicenseYears        int                `json:"license_years"`
	PONumber            string             `json:"po_number"`
	NeedsReview         bool               `json:"needs_review"`
	Source              string             `json:"source"`
	CreatedAt           time.Time          `json:"created_at"`
}

// DedupKey computes the de-duplication key. Two requests sharing a key are
// the same provisioning task; only the first is kept.
func (r *ProvisioningRequest) DedupKey() string {
	po := r.PONumber
	if po == "" || po == constants.PONotFound {
		po = "nopo"
	}
	return strings.ToLower(r.StudentEmail) + "-" + po
}

// Status derives the canonical request status from the review flag.
func (r *ProvisioningRequest) Status() constants.RequestStatus {
	if r.NeedsReview {
		return constants.RequestStatusNeedsReview
	}
	return constants.RequestStatusParsed
}

// SplitName splits a full name into first and last. A single-word name is
// used for both parts so neither field is ever empty.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	last = strings.Join(parts[1:], " ")
	if last == "" {
		last = first
	}
	return first, last
}
