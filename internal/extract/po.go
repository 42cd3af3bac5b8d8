package extract

import (
	"regexp"
	"strings"
)

// Candidate rejection rules, applied to every pattern's match before
// acceptance. A candidate that looks like a date or a UK phone number is a
// false positive regardless of which pattern produced it.
var (
	poDatePattern  = regexp.MustCompile(`^20[0-9]{6}`)
	poPhonePattern = regexp.MustCompile(`^(?:44|07|01|02|03)[0-9]{8,}`)

	// Remtek packed format: rendered PDF text concatenates the page
	// indicator, a 7-digit order code starting 5 or 6, and the order year
	// without separators ("1 / 150353502026-01-19"). The capture isolates
	// the order code.
	poPackedPattern = regexp.MustCompile(`1([56][0-9]{6})20[2-3][0-9]`)

	// Standalone 7-9 digit numbers starting with 5 or 6, the empirical
	// range of valid order numbers for these partners.
	poNumericPattern = regexp.MustCompile(`\b([56][0-9]{6,8})\b`)
)

type poPattern struct {
	name string
	re   *regexp.Regexp
}

// poPatterns returns the ordered cascade for the given rules, compiled once.
func (r *Rules) poPatterns() []poPattern {
	r.poOnce.Do(func() {
		quoted := make([]string, len(r.POLabels))
		for i, l := range r.POLabels {
			quoted[i] = regexp.QuoteMeta(l)
		}
		labeled := regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)\s*[:\-\s]\s*([A-Za-z]*[0-9]{5,15})`)

		prefixes := make([]string, len(r.POPrefixes))
		for i, p := range r.POPrefixes {
			prefixes[i] = regexp.QuoteMeta(p)
		}
		prefixed := regexp.MustCompile(`(?i)\b((?:` + strings.Join(prefixes, "|") + `)[0-9]{5,8})\b`)

		r.poPats = []poPattern{
			{name: "labeled", re: labeled},
			{name: "packed", re: poPackedPattern},
			{name: "prefixed", re: prefixed},
			{name: "numeric", re: poNumericPattern},
		}
	})
	return r.poPats
}

// PONumber extracts a purchase-order reference from subject + body +
// attachment text. Patterns are tried in priority order; the first whose
// candidate survives validation wins. Returns "" when nothing survives, and
// the caller substitutes the not-found sentinel. Pure function of its inputs.
func PONumber(subject, combinedBody string, r *Rules) string {
	po, _ := PONumberWithPattern(subject, combinedBody, r)
	return po
}

// PONumberWithPattern additionally reports which cascade pattern produced
// the accepted candidate, for log context.
func PONumberWithPattern(subject, combinedBody string, r *Rules) (po, pattern string) {
	searchable := strings.TrimSpace(subject + "\n" + combinedBody)

	for _, pat := range r.poPatterns() {
		m := pat.re.FindStringSubmatch(searchable)
		if m == nil || m[1] == "" {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if poDatePattern.MatchString(candidate) {
			continue
		}
		if poPhonePattern.MatchString(candidate) {
			continue
		}
		return candidate, pat.name
	}
	return "", ""
}
