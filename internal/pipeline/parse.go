// Package pipeline orchestrates extraction for one email: provider
// identification, the external extraction step with failover, and the
// deterministic override pass that re-validates everything the model said.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
	"github.com/mrmiscellaneous91/dsa-automation/internal/extract"
	"github.com/mrmiscellaneous91/dsa-automation/internal/llm"
)

// aiNamePlaceholder is the schema example some models echo back verbatim
// instead of extracting; it is never a real answer.
const aiNamePlaceholder = "Student Full Name"

type Parser struct {
	Logger    *slog.Logger
	Rules     *extract.Rules
	Extractor llm.FieldExtractor // nil means deterministic-only extraction
}

func NewParser(logger *slog.Logger, rules *extract.Rules, extractor llm.FieldExtractor) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if rules == nil {
		rules = extract.DefaultRules()
	}
	return &Parser{Logger: logger, Rules: rules, Extractor: extractor}
}

// Parse produces the best-effort ProvisioningRequest for one email.
//
// The AI result is advisory: purchase-order number and student name are
// always recomputed deterministically and the deterministic result wins
// whenever non-empty, because those two fields are the most prone to
// fabrication. License duration is recomputed and always overrides. Any
// field that could not be determined is set to a sentinel that marks it for
// manual review rather than silently defaulting to a plausible-looking
// wrong value.
func (p *Parser) Parse(ctx context.Context, in entity.InboundEmail) (*entity.ProvisioningRequest, error) {
	start := time.Now()

	sender, err := extract.ParseSender(in.SenderAddress)
	if err != nil {
		p.Logger.Warn("parse.rejected_input", "sender", in.SenderAddress, "error", err)
		return nil, err
	}

	content := extract.SegmentEmail(in, p.Rules)
	provider := p.Rules.MatchProvider(sender)

	// External extraction step. Any failure falls through to
	// deterministic-only; only cancellation propagates.
	var fields llm.RequestFields
	source := constants.SourceRegex
	if p.Extractor != nil {
		f, _, aiErr := p.Extractor.ExtractFields(ctx, llm.ExtractRequest{
			Subject:          content.Subject,
			SenderAddress:    sender,
			Body:             content.Body,
			AttachmentText:   content.AttachmentText,
			ProviderHint:     string(provider),
			AllowedProviders: constants.ProvidersAsStringSlice(),
		})
		switch {
		case aiErr == nil:
			fields = f
			source = constants.SourceAI
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			p.Logger.Warn("parse.ai_unavailable", "error", aiErr)
		}
	}

	// The AI's provider field is advisory only.
	if provider == constants.ProviderUnknown {
		if c, ok := constants.CanonicalizeProvider(fields.Provider); ok {
			provider = c
		}
	}

	needsReview := false

	studentEmail := strings.TrimSpace(fields.StudentEmail)
	if !strings.Contains(studentEmail, "@") {
		// The address may live only in the attachment (line-table order
		// documents), so the fallback scans the combined text.
		studentEmail = extract.StudentEmailFallback(in.CombinedBody, sender)
	}
	studentEmail = extract.NormalizeAnchor(studentEmail)
	if studentEmail == "" {
		needsReview = true
	}

	po, poPattern := extract.PONumberWithPattern(content.Subject, in.CombinedBody, p.Rules)
	if po == "" {
		po = strings.TrimSpace(fields.PONumber)
		poPattern = constants.SourceAI
	}
	if po == "" {
		po = constants.PONotFound
		poPattern = ""
		needsReview = true
	}

	name := extract.StudentName(content.Body, studentEmail, p.Rules)
	if name == "" && p.Rules.UsesLineTable(provider) {
		name = extract.StudentNameFromLineTable(content.AttachmentText, studentEmail, p.Rules)
	}
	if name == "" {
		if n := strings.TrimSpace(fields.StudentName); n != "" && n != aiNamePlaceholder && len(n) > 3 {
			name = n
		}
	}
	if name == "" {
		name = constants.NameNotFound
		needsReview = true
	}

	// Cheap and reliable by keyword match; the AI is not trusted for it.
	years := extract.LicenseYears(in.CombinedBody)

	contact := strings.TrimSpace(fields.ProviderContact)
	if contact == "" {
		contact = constants.DefaultContactName
	}

	first, last := entity.SplitName(name)
	req := &entity.ProvisioningRequest{
		ID:                  uuid.New(),
		Provider:            provider,
		ProviderContactName: contact,
		StudentFullName:     name,
		StudentFirstName:    first,
		StudentLastName:     last,
		StudentEmail:        studentEmail,
		LicenseYears:        years,
		PONumber:            po,
		NeedsReview:         needsReview,
		Source:              source,
		CreatedAt:           time.Now().UTC(),
	}

	p.Logger.Info("parse.ok",
		"request_id", req.ID,
		"provider", provider,
		"student", name,
		"email", studentEmail,
		"po", po,
		"po_pattern", poPattern,
		"years", years,
		"source", source,
		"needs_review", needsReview,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return req, nil
}
