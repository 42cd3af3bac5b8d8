package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrmiscellaneous91/dsa-automation/constants"
	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
)

// schema holds the request log DDL. The dedup key is a unique index so
// first-write-wins holds even across concurrent instances.
const schema = `
CREATE TABLE IF NOT EXISTS provisioning_requests (
	id                 UUID PRIMARY KEY,
	provider           TEXT NOT NULL,
	provider_contact   TEXT NOT NULL,
	student_name       TEXT NOT NULL,
	student_first_name TEXT NOT NULL,
	student_last_name  TEXT NOT NULL,
	student_email      TEXT NOT NULL,
	license_years      INT  NOT NULL,
	po_number          TEXT NOT NULL,
	needs_review       BOOLEAN NOT NULL,
	source             TEXT NOT NULL,
	dedup_key          TEXT NOT NULL UNIQUE,
	created_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_provisioning_requests_review
	ON provisioning_requests (needs_review, created_at);
`

type RequestRepository interface {
	// Insert stores a request; returns false when a row with the same dedup
	// key already exists (the new request is dropped, first-write-wins).
	Insert(ctx context.Context, req *entity.ProvisioningRequest) (bool, error)
	List(ctx context.Context, needsReviewOnly bool) ([]*entity.ProvisioningRequest, error)
}

type requestRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewRequestRepository(pool *pgxpool.Pool, logger *slog.Logger) RequestRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &requestRepository{pool: pool, logger: logger}
}

// EnsureSchema creates the request log table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *requestRepository) Insert(ctx context.Context, req *entity.ProvisioningRequest) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO provisioning_requests (
			id, provider, provider_contact, student_name, student_first_name,
			student_last_name, student_email, license_years, po_number,
			needs_review, source, dedup_key, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (dedup_key) DO NOTHING`,
		req.ID, string(req.Provider), req.ProviderContactName, req.StudentFullName,
		req.StudentFirstName, req.StudentLastName, req.StudentEmail,
		req.LicenseYears, req.PONumber, req.NeedsReview, req.Source,
		req.DedupKey(), req.CreatedAt,
	)
	if err != nil {
		r.logger.Error("requests.insert_failed", "request_id", req.ID, "error", err)
		return false, fmt.Errorf("insert request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *requestRepository) List(ctx context.Context, needsReviewOnly bool) ([]*entity.ProvisioningRequest, error) {
	q := `
		SELECT id, provider, provider_contact, student_name, student_first_name,
		       student_last_name, student_email, license_years, po_number,
		       needs_review, source, created_at
		FROM provisioning_requests`
	if needsReviewOnly {
		q += ` WHERE needs_review`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProvisioningRequest
	for rows.Next() {
		var req entity.ProvisioningRequest
		var provider string
		if err := rows.Scan(
			&req.ID, &provider, &req.ProviderContactName, &req.StudentFullName,
			&req.StudentFirstName, &req.StudentLastName, &req.StudentEmail,
			&req.LicenseYears, &req.PONumber, &req.NeedsReview, &req.Source,
			&req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req.Provider = toProvider(provider)
		out = append(out, &req)
	}
	if err := rows.Err(); err != nil && err != pgx.ErrNoRows {
		return nil, err
	}
	return out, nil
}

func toProvider(s string) constants.Provider {
	if p, ok := constants.CanonicalizeProvider(s); ok {
		return p
	}
	return constants.ProviderUnknown
}
