package extract

import "strings"

// LicenseYears detects the requested contract length from literal or
// spelled-out year-count phrases. Total function: defaults to 1 when no
// phrase matches, so the result is always in 1..4.
func LicenseYears(text string) int {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "4 year") || strings.Contains(lower, "four year"):
		return 4
	case strings.Contains(lower, "3 year") || strings.Contains(lower, "three year"):
		return 3
	case strings.Contains(lower, "2 year") || strings.Contains(lower, "two year"):
		return 2
	default:
		return 1
	}
}
