// Package extract implements the deterministic extractors: content
// segmentation, purchase-order numbers, student names and license duration.
// Partner-specific pattern tables are data, not code; new partner formats are
// added by extending the rules, optionally from a YAML file.
package extract

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
)

// ProviderRule maps a sender-domain substring to a partner identity.
// Rules are checked in slice order; the first match wins.
type ProviderRule struct {
	Domain   string `yaml:"domain"`
	Provider string `yaml:"provider"`
}

// Rules holds the partner-specific pattern tables used by the deterministic
// extractors.
type Rules struct {
	// AttachmentMarker is the literal, case-insensitive boundary between the
	// email body and attachment-derived text.
	AttachmentMarker string `yaml:"attachment_marker"`

	Providers []ProviderRule `yaml:"providers"`

	// POLabels are the recognized purchase-order labels for the labeled
	// pattern, highest-priority in the cascade.
	POLabels []string `yaml:"po_labels"`

	// POPrefixes are alphabetic prefixes of standalone alphanumeric order
	// codes (e.g. Invate "IPO51565", Barry Bennett "POR184451").
	POPrefixes []string `yaml:"po_prefixes"`

	// NameBlacklist rejects name candidates containing any of these phrases:
	// known staff names, department titles, boilerplate.
	NameBlacklist []string `yaml:"name_blacklist"`

	// PersonalDomains anchor the fallback search for a student address when
	// the supplied one is not present in the body.
	PersonalDomains []string `yaml:"personal_domains"`

	// LineTableProviders name the partners whose order documents place the
	// student name on the single line above their email address.
	LineTableProviders []string `yaml:"line_table_providers"`

	// compiled lazily; a Rules value must not be copied after first use.
	poOnce sync.Once
	poPats []poPattern
}

// DefaultRules returns the built-in tables for the known partner set.
func DefaultRules() *Rules {
	return &Rules{
		AttachmentMarker: "[PDF ATTACHMENT CONTENT]",
		Providers: []ProviderRule{
			{Domain: "barrybennett.co.uk", Provider: string(constants.ProviderBarryBennett)},
			{Domain: "remtek-online.co.uk", Provider: string(constants.ProviderRemtek)},
			{Domain: "invate.co.uk", Provider: string(constants.ProviderInvate)},
			{Domain: "as-dsa.com", Provider: string(constants.ProviderAssistive)},
			{Domain: "unleashedsoftware.com", Provider: string(constants.ProviderAssistive)},
		},
		POLabels:   []string{"PURCHASE ORDER NO.", "PO NO.", "ORDER NO.", "PO", "P.O."},
		POPrefixes: []string{"IPO", "POR"},
		NameBlacklist: []string{
			"Student Name", "Student Email", "Purchase Order", "PDF Attachment",
			"Operations Manager", "Procurement Specialist", "Audemic Licence",
			"Audemic Scholar", "Joshua Mitcham", "Paul Williamson", "Vicki Ravensdale",
			"Team Audemic", "Support Team",
		},
		PersonalDomains: []string{
			"gmail.com", "hotmail.", "outlook.", "yahoo.", "icloud.com",
			"live.", "aol.com", ".ac.uk",
		},
		LineTableProviders: []string{string(constants.ProviderBarryBennett)},
	}
}

// LoadRules reads a YAML override file. Fields left empty in the file keep
// their built-in defaults, so an override only needs to name what changes.
func LoadRules(path string) (*Rules, error) {
	defaults := DefaultRules()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if loaded.AttachmentMarker == "" {
		loaded.AttachmentMarker = defaults.AttachmentMarker
	}
	if len(loaded.Providers) == 0 {
		loaded.Providers = defaults.Providers
	}
	if len(loaded.POLabels) == 0 {
		loaded.POLabels = defaults.POLabels
	}
	if len(loaded.POPrefixes) == 0 {
		loaded.POPrefixes = defaults.POPrefixes
	}
	if len(loaded.NameBlacklist) == 0 {
		loaded.NameBlacklist = defaults.NameBlacklist
	}
	if len(loaded.PersonalDomains) == 0 {
		loaded.PersonalDomains = defaults.PersonalDomains
	}
	if len(loaded.LineTableProviders) == 0 {
		loaded.LineTableProviders = defaults.LineTableProviders
	}
	return &loaded, nil
}

// MatchProvider maps a sender address to a partner identity by
// case-insensitive substring match against the domain table, in table order.
// Unmatched addresses yield Unknown. Never fails.
func (r *Rules) MatchProvider(senderAddress string) constants.Provider {
	sender := strings.ToLower(senderAddress)
	for _, rule := range r.Providers {
		if strings.Contains(sender, strings.ToLower(rule.Domain)) {
			if p, ok := constants.CanonicalizeProvider(rule.Provider); ok {
				return p
			}
		}
	}
	return constants.ProviderUnknown
}

// UsesLineTable reports whether the partner's documents use the line-oriented
// order table layout (student name directly above their email).
func (r *Rules) UsesLineTable(p constants.Provider) bool {
	for _, name := range r.LineTableProviders {
		if strings.EqualFold(name, string(p)) {
			return true
		}
	}
	return false
}
