package pipeline

import (
	"context"
	"log/slog"

	"github.com/mrmiscellaneous91/dsa-automation/internal/dedup"
	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
	"github.com/mrmiscellaneous91/dsa-automation/internal/repository"
)

// Service runs the full per-email flow: parse, de-duplicate, persist.
// Shared by the HTTP handlers, the async queue workers and the batch CLI.
type Service struct {
	Parser *Parser
	Filter dedup.Filter
	Repo   repository.RequestRepository // nil means log-only, nothing persisted
	Logger *slog.Logger
}

func NewService(parser *Parser, filter dedup.Filter, repo repository.RequestRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if filter == nil {
		filter = dedup.NewMemoryFilter()
	}
	return &Service{Parser: parser, Filter: filter, Repo: repo, Logger: logger}
}

// Process parses one email and stores the result unless its dedup key has
// been seen before. Returns the assembled request and whether it was kept
// (first occurrence) or dropped as a duplicate.
func (s *Service) Process(ctx context.Context, in entity.InboundEmail) (*entity.ProvisioningRequest, bool, error) {
	req, err := s.Parser.Parse(ctx, in)
	if err != nil {
		return nil, false, err
	}

	isNew, err := s.Filter.IsNew(ctx, req.DedupKey())
	if err != nil {
		return nil, false, err
	}
	if !isNew {
		s.Logger.Info("process.duplicate", "request_id", req.ID, "dedup_key", req.DedupKey())
		return req, false, nil
	}

	if s.Repo != nil {
		inserted, err := s.Repo.Insert(ctx, req)
		if err != nil {
			return nil, false, err
		}
		if !inserted {
			// The unique index caught a duplicate the filter had expired.
			s.Logger.Info("process.duplicate_row", "request_id", req.ID, "dedup_key", req.DedupKey())
			return req, false, nil
		}
	}

	s.Logger.Info("process.kept",
		"request_id", req.ID,
		"dedup_key", req.DedupKey(),
		"status", req.Status(),
	)
	return req, true, nil
}
