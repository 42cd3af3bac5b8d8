package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// Chain tries the primary extraction service and falls over to the secondary
// on any failure: unreachable, timeout, or a response that cannot be parsed
// into the expected shape. No retries beyond the documented primary→secondary
// failover; a cancelled context stops the chain immediately.
type Chain struct {
	primary   FieldExtractor
	secondary FieldExtractor
	logger    *slog.Logger
}

func NewChain(primary, secondary FieldExtractor, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{primary: primary, secondary: secondary, logger: logger}
}

func (c *Chain) ExtractFields(ctx context.Context, req ExtractRequest) (RequestFields, []byte, error) {
	var firstErr error

	if c.primary != nil {
		fields, raw, err := c.primary.ExtractFields(ctx, req)
		if err == nil {
			return fields, raw, nil
		}
		firstErr = err
		if ctx.Err() != nil {
			return RequestFields{}, nil, ctx.Err()
		}
		c.logger.Warn("llm.chain.primary_failed", "error", err)
	}

	if c.secondary != nil {
		fields, raw, err := c.secondary.ExtractFields(ctx, req)
		if err == nil {
			return fields, raw, nil
		}
		if ctx.Err() != nil {
			return RequestFields{}, nil, ctx.Err()
		}
		c.logger.Warn("llm.chain.secondary_failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		return RequestFields{}, nil, fmt.Errorf("%w: no services configured", ErrAllExtractorsFailed)
	}
	return RequestFields{}, nil, fmt.Errorf("%w: %v", ErrAllExtractorsFailed, firstErr)
}
