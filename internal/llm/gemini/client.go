package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrmiscellaneous91/dsa-automation/internal/llm"
)

// ExtractFields implements llm.FieldExtractor against generateContent.
// Gemini has no separate system role on this endpoint, so the instruction
// and the email content are packaged into one text part.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.RequestFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"service", "gemini",
		"model", c.cfg.Model,
		"body_len", len(req.Body),
		"attachment_len", len(req.AttachmentText),
		"provider_hint", req.ProviderHint,
	)

	schema := llm.BuildRequestJSONSchema(req.AllowedProviders)
	prompt := llm.BuildSystemPrompt(req) +
		"\n\nJSON Schema:\n" + llm.MustJSON(schema) +
		"\n\n" + llm.BuildUserPrompt(req)

	parts := []map[string]any{
		{"text": prompt},
	}
	if len(req.AttachmentPayload) > 0 && req.AttachmentMediaType != "" {
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": req.AttachmentMediaType,
				"data":      base64.StdEncoding.EncodeToString(req.AttachmentPayload),
			},
		})
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature": 0,
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1beta/models/" + c.cfg.Model + ":generateContent"
	headers := map[string]string{
		"x-goog-api-key": c.cfg.APIKey,
	}
	raw, _, httpErr := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, nil, httpErr
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, raw, fmt.Errorf("%w: decode gemini response: %v", llm.ErrUnparsableResponse, err)
	}
	if len(resp.Candidates) == 0 {
		c.log.Error("llm.extract.no_candidates",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, raw, fmt.Errorf("%w: no candidates in gemini response", llm.ErrUnparsableResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	fields, rawJSON, err := llm.DecodeFields(text.String(), schema)
	if err != nil {
		c.log.Error("llm.extract.bad_fields",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, rawJSON, err
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"service", "gemini",
		"student", fields.StudentName,
		"email", fields.StudentEmail,
		"po", fields.PONumber,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, rawJSON, nil
}
