package anthropic

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

// ExtractFields implements llm.FieldExtractor against the Messages API.
// When a raw attachment payload is supplied it is sent as a document block
// so the model sees the original PDF rather than only its rendered text.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.RequestFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"service", "anthropic",
		"model", c.cfg.Model,
		"body_len", len(req.Body),
		"attachment_len", len(req.AttachmentText),
		"has_payload", len(req.AttachmentPayload) > 0,
		"provider_hint", req.ProviderHint,
	)

	schema := llm.BuildRequestJSONSchema(req.AllowedProviders)
	system := llm.BuildSystemPrompt(req) + "\n\nJSON Schema:\n" + llm.MustJSON(schema)

	content := []map[string]any{
		{"type": "text", "text": llm.BuildUserPrompt(req)},
	}
	if len(req.AttachmentPayload) > 0 && req.AttachmentMediaType != "" {
		content = append(content, map[string]any{
			"type": "document",
			"source": map[string]any{
				"type":       "base64",
				"media_type": req.AttachmentMediaType,
				"data":       base64.StdEncoding.EncodeToString(req.AttachmentPayload),
			},
		})
	}

	body := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
		"system":     system,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": c.cfg.Version,
	}
	raw, _, httpErr := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, nil, httpErr
	}

	var msg struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, raw, fmt.Errorf("%w: decode anthropic response: %v", llm.ErrUnparsableResponse, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		c.log.Error("llm.extract.empty_content",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.RequestFields{}, raw, fmt.Errorf("%w: no text content in anthropic response", llm.ErrUnparsableResponse)
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
		"service", "anthropic",
		"student", fields.StudentName,
		"email", fields.StudentEmail,
		"po", fields.PONumber,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, rawJSON, nil
}
