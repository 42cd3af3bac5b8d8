package extract

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/mrmiscellaneous91/dsa-automation/internal/common"
)

var addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// NormalizeAnchor reduces a possibly header-style address ("Jane Doe
// <jane@example.com>") to the bare lowercased address used as the proximity
// anchor.
func NormalizeAnchor(studentEmail string) string {
	anchor := strings.ToLower(strings.TrimSpace(studentEmail))
	if strings.Contains(anchor, "<") {
		if open := strings.Index(anchor, "<"); open != -1 {
			if end := strings.Index(anchor[open:], ">"); end != -1 {
				anchor = strings.TrimSpace(anchor[open+1 : open+end])
			}
		}
	}
	return anchor
}

// FindAddresses returns every email-shaped token in text, in document order.
func FindAddresses(text string) []string {
	return addressPattern.FindAllString(text, -1)
}

// StudentEmailFallback scans the body for the first address that does not
// share the sender's local part, used when the model missed the student
// email or returned something that is not syntactically an address.
func StudentEmailFallback(body, senderAddress string) string {
	senderLocal := strings.ToLower(senderAddress)
	if at := strings.Index(senderLocal, "@"); at != -1 {
		senderLocal = senderLocal[:at]
	}

	addresses := FindAddresses(body)
	for _, a := range addresses {
		if senderLocal == "" || !strings.Contains(strings.ToLower(a), senderLocal) {
			return a
		}
	}
	if len(addresses) > 0 {
		return addresses[0]
	}
	return ""
}

// firstPersonalAddress returns the first address in text whose domain looks
// personal (common webmail) or academic, per the rules table.
func firstPersonalAddress(text string, r *Rules) string {
	for _, a := range FindAddresses(text) {
		if IsPersonalAddress(a, r) {
			return a
		}
	}
	return ""
}

// IsPersonalAddress reports whether the address' domain matches one of the
// configured personal-webmail or academic-domain patterns.
func IsPersonalAddress(address string, r *Rules) bool {
	lower := strings.ToLower(address)
	at := strings.Index(lower, "@")
	if at == -1 {
		return false
	}
	domain := lower[at+1:]
	for _, p := range r.PersonalDomains {
		if strings.Contains(domain, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// ParseSender validates the sender address structurally. An address that
// cannot be parsed at all is a rejected input, not a low-confidence guess.
func ParseSender(senderAddress string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(senderAddress))
	if err != nil {
		return "", common.NewAppError("REJECTED_INPUT", "sender address is not parseable", common.ErrRejectedInput)
	}
	return addr.Address, nil
}
