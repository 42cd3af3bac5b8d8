package async

import (
	"context"
	"time"

	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
)

// Job is the smallest useful unit. Extend as needed later (retry, priority, etc).
type Job struct {
	Email       entity.InboundEmail
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
