package extract

import (
	"regexp"
	"strings"
)

const (
	// proximityWindow bounds the text searched immediately before the anchor
	// email address.
	proximityWindow = 250

	// maxLabelStrips bounds trailing-label removal; labels may stack
	// ("... Faleru Student Email").
	maxLabelStrips = 3
)

var (
	whitespaceRun = regexp.MustCompile(`[\r\n\t\x{2000}-\x{200B}]+`)
	spaceRun      = regexp.MustCompile(`\s+`)

	// Capitalized names, 2-5 words ("Amal Ahmed", "Segilola Christianah
	// Kikelomo Faleru").
	capitalizedName = regexp.MustCompile(`\b([A-Z][A-Za-z'-]+(?:\s[A-Z][A-Za-z'-]+){1,4})\b`)

	// ALL-CAPS names, 2-4 words.
	allCapsName = regexp.MustCompile(`\b([A-Z]{2,}(?:\s[A-Z]{2,}){1,3})\b`)

	trailingLabel = regexp.MustCompile(`(?i)\s+(Student|Email|User|Status|Name|Licence|Scholar|Dear|Hello|Best|Regards|Morning|Afternoon)$`)

	// leadingTableJunk strips row numbers and separators from line-table
	// candidates ("2Elise Blake" -> "Elise Blake").
	leadingTableJunk = regexp.MustCompile(`^[\d\s.,;:\-]+`)
)

// StudentName extracts the student's full name from the email body, anchored
// on the student email address. The body must already exclude attachment
// text so supplier-side names in order tables are never picked up.
//
// The anchor's position is located case-insensitively; if the supplied
// address is not present, the position of the first personal-looking address
// is used instead. Candidates in the window before the anchor are filtered
// through the blacklist and the closest one to the anchor wins. When the
// window yields nothing, a global search over the body applies the same
// rules, skipping matches at the very start of the text (letterheads).
// Returns "" when nothing survives; the caller substitutes the sentinel.
func StudentName(body, studentEmail string, r *Rules) string {
	anchor := NormalizeAnchor(studentEmail)
	if anchor == "" {
		return ""
	}

	emailIndex, _ := foldIndex(body, anchor)
	if emailIndex == -1 {
		if alt := firstPersonalAddress(body, r); alt != "" {
			emailIndex, _ = foldIndex(body, alt)
		}
	}

	if emailIndex != -1 {
		start := emailIndex - proximityWindow
		if start < 0 {
			start = 0
		}
		window := body[start:emailIndex]
		if candidates := nameCandidates(window, r); len(candidates) > 0 {
			// Last in document order, i.e. nearest the email address: names
			// are conventionally written directly above or beside it.
			return candidates[len(candidates)-1]
		}
	}

	// Global fallback over the full body.
	collapsed := collapseWhitespace(body)
	candidates := nameCandidates(body, r)
	for _, c := range candidates {
		if strings.Index(collapsed, c) > 10 {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// StudentNameFromLineTable is the attachment-side pass for partners whose
// order tables place the student name as the single non-empty line directly
// above their email address.
func StudentNameFromLineTable(attachmentText, studentEmail string, r *Rules) string {
	anchor := NormalizeAnchor(studentEmail)
	if anchor == "" {
		return ""
	}

	var lines []string
	for _, l := range strings.FieldsFunc(attachmentText, func(c rune) bool { return c == '\n' || c == '\r' }) {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), anchor) {
			continue
		}
		if i == 0 {
			return ""
		}
		candidate := strings.TrimSpace(leadingTableJunk.ReplaceAllString(lines[i-1], ""))
		if candidate == "" || blacklisted(candidate, r) {
			return ""
		}
		if n := len(strings.Fields(candidate)); n < 2 || n > 5 {
			return ""
		}
		return candidate
	}
	return ""
}

// nameCandidates finds name-shaped strings in text, strips stacked trailing
// labels and applies the word-count and blacklist filters. Candidates are
// returned in document order.
func nameCandidates(text string, r *Rules) []string {
	collapsed := collapseWhitespace(text)

	var raw []string
	for _, m := range capitalizedName.FindAllStringSubmatch(collapsed, -1) {
		raw = append(raw, m[1])
	}
	for _, m := range allCapsName.FindAllStringSubmatch(collapsed, -1) {
		raw = append(raw, m[1])
	}

	var out []string
	for _, candidate := range raw {
		n := strings.TrimSpace(candidate)
		for i := 0; i < maxLabelStrips; i++ {
			n = strings.TrimSpace(trailingLabel.ReplaceAllString(n, ""))
		}
		words := len(strings.Fields(n))
		if words < 2 || words > 5 {
			continue
		}
		if blacklisted(n, r) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func blacklisted(candidate string, r *Rules) bool {
	upper := strings.ToUpper(candidate)
	for _, b := range r.NameBlacklist {
		if strings.Contains(upper, strings.ToUpper(b)) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	return spaceRun.ReplaceAllString(s, " ")
}
