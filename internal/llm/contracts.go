package llm

import "context"

// RequestFields is the normalized shape we want from the model. Every field
// is advisory: the pipeline re-validates and overrides the fabrication-prone
// ones with deterministic extractors.
type RequestFields struct {
	Provider        string `json:"provider,omitempty"`
	ProviderContact string `json:"provider_contact,omitempty"`
	StudentName     string `json:"student_name"`
	StudentEmail    string `json:"student_email"`
	LicenseYears    int    `json:"license_years,omitempty"`
	PONumber        string `json:"po_number,omitempty"`
}

// ExtractRequest carries one email's content to an extraction service.
type ExtractRequest struct {
	Subject        string
	SenderAddress  string
	Body           string
	AttachmentText string

	// ProviderHint is the deterministically identified partner, included in
	// the instruction so partner-specific guidance applies.
	ProviderHint string

	AllowedProviders []string

	// AttachmentPayload optionally carries the raw attachment for services
	// with native document understanding.
	AttachmentPayload   []byte
	AttachmentMediaType string
}

// FieldExtractor is the interface the pipeline depends on. Implementations
// must locate the JSON object inside the service's textual response and
// validate it; the raw located JSON is returned alongside for diagnostics.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (RequestFields, []byte /*rawJSON*/, error)
}
