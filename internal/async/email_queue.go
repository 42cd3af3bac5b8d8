package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/mrmiscellaneous91/dsa-automation/internal/pipeline"
)

type EmailQueue struct {
	svc     *pipeline.Service
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*EmailQueue)

func WithWorkers(n int) Option {
	return func(q *EmailQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *EmailQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *EmailQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewEmailQueue(svc *pipeline.Service, logger *slog.Logger, opts ...Option) *EmailQueue {
	q := &EmailQueue{
		svc:     svc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *EmailQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					req, kept, err := q.svc.Process(ctx, job.Email)
					cancel()

					switch {
					case err != nil:
						q.logger.Error("processing failed", "worker_id", workerID, "trace_id", job.TraceID, "subject", job.Email.Subject, "error", err)
					case !kept:
						q.logger.Info("duplicate request skipped", "worker_id", workerID, "trace_id", job.TraceID, "dedup_key", req.DedupKey())
					default:
						q.logger.Info("processed email successfully", "worker_id", workerID, "trace_id", job.TraceID, "request_id", req.ID, "provider", req.Provider)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *EmailQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "trace_id", job.TraceID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued email for processing", "trace_id", job.TraceID, "subject", job.Email.Subject)
	default:
		q.logger.Warn("queue full, applying backpressure", "trace_id", job.TraceID)
		q.ch <- job
	}
	return nil
}

func (q *EmailQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
