package llm

import (
	"encoding/json"
	"strings"
)

// maxPromptBody bounds how much email text is packaged into the user prompt.
const maxPromptBody = 6000

// BuildSystemPrompt composes the instruction: target schema, partner hints,
// and strict-but-practical formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	var providerLine string
	if len(req.AllowedProviders) > 0 {
		providerLine = "If you can tell which partner sent the email, set 'provider' to exactly one of: " +
			strings.Join(req.AllowedProviders, ", ") + ". Otherwise omit it. "
	} else {
		providerLine = "If you can tell which partner sent the email, set 'provider' to its name. "
	}

	parts := []string{
		"You are an assistant that extracts a DSA student license request from a partner email. Return ONLY JSON that matches the provided JSON Schema.",
		"The email body ends where the attachment-derived text begins; the student's name and personal email are usually in the body, while the purchase order reference is usually in the attachment text.",
		providerLine,
		"'student_name' is the student's full name, not a staff member, signature or department.",
		"'student_email' is the student's personal or academic address, never the sender's.",
		"'license_years' is the requested license duration in whole years (1-4).",
		"'po_number' is the purchase order reference if one is quoted; omit it rather than guess.",
		"'provider_contact' is the name of the person who sent the email, if signed.",
		"Never output null. If a field is not present, omit it.",
	}

	if hint := strings.TrimSpace(req.ProviderHint); hint != "" && hint != "Unknown" {
		parts = append(parts, partnerGuidance(hint))
	}
	return strings.Join(parts, " ")
}

// partnerGuidance emits short, high-precision hints for the identified
// partner's known document quirks.
func partnerGuidance(provider string) string {
	switch provider {
	case "Remtek":
		return "This email is from Remtek: their PDF purchase orders render the page indicator, order number and year as one unbroken digit run; do not mistake it for a date."
	case "Invate":
		return "This email is from Invate: purchase order references look like IPO followed by digits, labeled 'PURCHASE ORDER NO.'."
	case "Barry Bennett":
		return "This email is from Barry Bennett: their order tables list the student's name on the line directly above the student's email address."
	case "Assistive":
		return "This email is from Assistive Solutions: the student details are usually in the body above a WhatsApp link."
	default:
		return "Partner hint: " + provider + "."
	}
}

// BuildUserPrompt packages the email content. Attachment text is kept after
// the body under an explicit heading so the model can separate the two.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	b.WriteString("Subject: ")
	b.WriteString(strings.TrimSpace(req.Subject))
	b.WriteString("\nFrom: ")
	b.WriteString(strings.TrimSpace(req.SenderAddress))
	b.WriteString("\n\nEMAIL BODY:\n")
	b.WriteString(clip(req.Body, maxPromptBody))
	if att := strings.TrimSpace(req.AttachmentText); att != "" {
		b.WriteString("\n\nATTACHMENT TEXT:\n")
		b.WriteString(clip(att, maxPromptBody))
	}
	b.WriteString("\n\nReturn ONLY JSON that matches the provided schema.")
	return b.String()
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n…(truncated)"
}

// MustJSON renders a schema map for embedding into an instruction.
func MustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
