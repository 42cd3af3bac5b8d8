package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
)

func TestMatchProvider(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		sender string
		want   constants.Provider
	}{
		{"lauren.smith@invate.co.uk", constants.ProviderInvate},
		{"orders@remtek-online.co.uk", constants.ProviderRemtek},
		{"ORDERS@REMTEK-ONLINE.CO.UK", constants.ProviderRemtek},
		{"po@barrybennett.co.uk", constants.ProviderBarryBennett},
		{"sales@as-dsa.com", constants.ProviderAssistive},
		{"noreply@unleashedsoftware.com", constants.ProviderAssistive},
		{"someone@randomcorp.com", constants.ProviderUnknown},
		{"", constants.ProviderUnknown},
	}

	for _, tt := range tests {
		if got := rules.MatchProvider(tt.sender); got != tt.want {
			t.Errorf("MatchProvider(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

func TestUsesLineTable(t *testing.T) {
	rules := DefaultRules()
	if !rules.UsesLineTable(constants.ProviderBarryBennett) {
		t.Error("UsesLineTable(Barry Bennett) = false, want true")
	}
	if rules.UsesLineTable(constants.ProviderInvate) {
		t.Error("UsesLineTable(Invate) = true, want false")
	}
}

func TestLoadRulesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules(\"\") error = %v", err)
	}
	if rules.AttachmentMarker != "[PDF ATTACHMENT CONTENT]" {
		t.Errorf("AttachmentMarker = %q", rules.AttachmentMarker)
	}
	if len(rules.Providers) == 0 || len(rules.POLabels) == 0 {
		t.Error("default tables are empty")
	}
}

func TestLoadRulesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
providers:
  - domain: newpartner.example
    provider: Invate
po_prefixes:
  - ZZZ
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}

	// Overridden tables replace the defaults.
	if got := rules.MatchProvider("jo@newpartner.example"); got != constants.ProviderInvate {
		t.Errorf("MatchProvider() = %q, want Invate", got)
	}
	if got := rules.MatchProvider("orders@remtek-online.co.uk"); got != constants.ProviderUnknown {
		t.Errorf("MatchProvider() = %q, want Unknown after override", got)
	}
	if po := PONumber("", "order ZZZ12345 attached", rules); po != "ZZZ12345" {
		t.Errorf("PONumber() = %q, want ZZZ12345", po)
	}

	// Untouched tables keep their defaults.
	if rules.AttachmentMarker != "[PDF ATTACHMENT CONTENT]" {
		t.Errorf("AttachmentMarker = %q, want default", rules.AttachmentMarker)
	}
	if len(rules.NameBlacklist) == 0 {
		t.Error("NameBlacklist should keep defaults")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules("/nonexistent/rules.yaml"); err == nil {
		t.Error("LoadRules() expected error for missing file")
	}
}
