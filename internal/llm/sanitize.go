package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
)

// Service failure modes. The pipeline treats them identically: fall over to
// the secondary service, then to deterministic-only extraction.
var (
	ErrServiceUnavailable    = errors.New("extraction service unavailable")
	ErrUnparsableResponse    = errors.New("unparsable service response")
	ErrAllExtractorsFailed   = errors.New("all extraction services failed")
	errNoJSONObjectInContent = errors.New("no JSON object in content")
)

// ExtractJSONObject locates the first balanced {...} span in a textual
// service response, tolerating surrounding commentary. String literals and
// escapes inside the object are respected so braces in values don't
// unbalance the scan.
func ExtractJSONObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return nil, errNoJSONObjectInContent
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), nil
			}
		}
	}
	return nil, errNoJSONObjectInContent
}

// SanitizeOptionalFields removes or normalizes optional fields that don't
// meet the stricter schema, so the overall document can still validate. We
// only touch OPTIONALS; required fields must pass as returned.
func SanitizeOptionalFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	// provider: must resolve onto the closed identity set, else drop
	if v, ok := m["provider"].(string); ok {
		if p, matched := constants.CanonicalizeProvider(v); matched {
			m["provider"] = string(p)
		} else {
			delete(m, "provider")
			dropped = append(dropped, "provider")
		}
	} else if _, present := m["provider"]; present {
		delete(m, "provider")
		dropped = append(dropped, "provider")
	}

	// license_years: accept numbers or numeric strings within 1..4, else drop
	if v, present := m["license_years"]; present {
		years, ok := asInt(v)
		if !ok || years < 1 || years > 4 {
			delete(m, "license_years")
			dropped = append(dropped, "license_years")
		} else {
			m["license_years"] = years
		}
	}

	// string optionals: trim, drop empty or null
	for _, k := range []string{"provider_contact", "po_number"} {
		if v, present := m[k]; present {
			s, ok := v.(string)
			s = strings.TrimSpace(s)
			if !ok || s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k)
			} else {
				m[k] = s
			}
		}
	}

	// student_email: normalize casing (required overall, never dropped)
	if v, ok := m["student_email"].(string); ok {
		m["student_email"] = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := m["student_name"].(string); ok {
		m["student_name"] = strings.TrimSpace(v)
	}

	// unknown keys -> drop, the schema forbids additional properties
	for k := range m {
		switch k {
		case "provider", "provider_contact", "student_name", "student_email", "license_years", "po_number":
		default:
			delete(m, k)
			dropped = append(dropped, k)
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// DecodeFields runs the full locate -> sanitize -> validate -> unmarshal
// sequence shared by every service client. Sanitation runs on every
// response, not just schema-invalid ones, so a valid response still gets
// its optionals normalized (email casing, trimmed strings).
func DecodeFields(content string, schema map[string]any) (RequestFields, []byte, error) {
	raw, err := ExtractJSONObject(content)
	if err != nil {
		return RequestFields{}, nil, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}

	cleaned, _, sErr := SanitizeOptionalFields(raw)
	if sErr != nil {
		return RequestFields{}, raw, fmt.Errorf("%w: sanitize: %v", ErrUnparsableResponse, sErr)
	}
	if vErr := ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
		return RequestFields{}, raw, fmt.Errorf("%w: %v", ErrUnparsableResponse, vErr)
	}

	var out RequestFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return RequestFields{}, cleaned, fmt.Errorf("%w: unmarshal fields: %v", ErrUnparsableResponse, err)
	}
	return out, cleaned, nil
}
