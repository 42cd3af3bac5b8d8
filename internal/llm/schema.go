package llm

// BuildRequestJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is embedded in the instruction and also used locally to
// validate whatever the service returns.
func BuildRequestJSONSchema(allowedProviders []string) map[string]any {
	props := map[string]any{
		"provider":         map[string]any{"type": "string"},
		"provider_contact": map[string]any{"type": "string"},
		"student_name":     map[string]any{"type": "string"},
		"student_email":    map[string]any{"type": "string"},
		"license_years":    map[string]any{"type": "integer", "minimum": 1, "maximum": 4},
		"po_number":        map[string]any{"type": "string"},
	}

	// Constrain provider if the closed identity set is provided.
	if len(allowedProviders) > 0 {
		props["provider"] = map[string]any{
			"type": "string",
			"enum": allowedProviders,
		}
	}

	required := []string{"student_name", "student_email"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
