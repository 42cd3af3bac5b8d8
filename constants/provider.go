package constants

import (
	"strings"
)

type Provider string

const (
	ProviderRemtek       Provider = "Remtek"
	ProviderInvate       Provider = "Invate"
	ProviderAssistive    Provider = "Assistive"
	ProviderBarryBennett Provider = "Barry Bennett"
	ProviderUnknown      Provider = "Unknown"
)

var allProviders = []Provider{
	ProviderRemtek,
	ProviderInvate,
	ProviderAssistive,
	ProviderBarryBennett,
	ProviderUnknown,
}

func ProvidersAsStringSlice() []string {
	result := make([]string, len(allProviders))
	for i, p := range allProviders {
		result[i] = string(p)
	}
	return result
}

// CanonicalizeProvider maps a free-form provider label (e.g. from a model
// response) onto the closed Provider set. AI output is advisory only, so an
// unrecognized label resolves to Unknown with ok=false.
func CanonicalizeProvider(input string) (Provider, bool) {
	if input == "" {
		return ProviderUnknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Provider{
		"remtek systems":       ProviderRemtek,
		"remtek systems ltd":   ProviderRemtek,
		"invate limited":       ProviderInvate,
		"assistive solutions":  ProviderAssistive,
		"as-dsa":               ProviderAssistive,
		"barrybennett":         ProviderBarryBennett,
		"barry bennett ltd":    ProviderBarryBennett,
		"barry bennett ltd.":   ProviderBarryBennett,
	}

	if p, ok := synonyms[normalized]; ok {
		return p, true
	}

	for _, p := range allProviders {
		if normalized == strings.ToLower(string(p)) {
			return p, p != ProviderUnknown
		}
	}

	return ProviderUnknown, false
}
