package llm

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	req := ExtractRequest{
		ProviderHint:     "Remtek",
		AllowedProviders: []string{"Remtek", "Invate"},
	}
	prompt := BuildSystemPrompt(req)

	if !strings.Contains(prompt, "Remtek, Invate") {
		t.Error("prompt should list the allowed providers")
	}
	if !strings.Contains(prompt, "unbroken digit run") {
		t.Error("prompt should carry the Remtek guidance")
	}

	// Unknown hints get no partner-specific block.
	prompt = BuildSystemPrompt(ExtractRequest{ProviderHint: "Unknown"})
	if strings.Contains(prompt, "Partner hint") {
		t.Error("Unknown hint should not emit guidance")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	req := ExtractRequest{
		Subject:        "Purchase Order - Audemic Scholar",
		SenderAddress:  "lauren.smith@invate.co.uk",
		Body:           "body text",
		AttachmentText: "attachment text",
	}
	prompt := BuildUserPrompt(req)

	for _, want := range []string{
		"Subject: Purchase Order - Audemic Scholar",
		"From: lauren.smith@invate.co.uk",
		"EMAIL BODY:\nbody text",
		"ATTACHMENT TEXT:\nattachment text",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// No attachment section when there is no attachment text.
	prompt = BuildUserPrompt(ExtractRequest{Subject: "x", Body: "y"})
	if strings.Contains(prompt, "ATTACHMENT TEXT") {
		t.Error("attachment heading should be omitted")
	}
}

func TestClipBoundsLongBodies(t *testing.T) {
	long := strings.Repeat("a", maxPromptBody+500)
	clipped := clip(long, maxPromptBody)
	if len(clipped) > maxPromptBody+20 {
		t.Errorf("clip left %d bytes", len(clipped))
	}
	if !strings.Contains(clipped, "truncated") {
		t.Error("clip should mark truncation")
	}
}
