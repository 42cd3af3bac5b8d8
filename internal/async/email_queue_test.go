package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mrmiscellaneous91/dsa-automation/internal/dedup"
	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
	"github.com/mrmiscellaneous91/dsa-automation/internal/pipeline"
)

type countingRepo struct {
	mu   sync.Mutex
	rows []*entity.ProvisioningRequest
}

func (r *countingRepo) Insert(_ context.Context, req *entity.ProvisioningRequest) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, req)
	return true, nil
}

func (r *countingRepo) List(_ context.Context, _ bool) ([]*entity.ProvisioningRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows, nil
}

func TestEmailQueueProcessesAndDrains(t *testing.T) {
	repo := &countingRepo{}
	svc := pipeline.NewService(pipeline.NewParser(nil, nil, nil), dedup.NewMemoryFilter(), repo, nil)

	q := NewEmailQueue(svc, testLogger(), WithWorkers(2), WithQueueSize(8), WithProcessTimeout(5*time.Second))

	emails := []entity.InboundEmail{
		{SenderAddress: "lauren.smith@invate.co.uk", CombinedBody: "for Amal Ahmed amal.ahmed2024@gmail.com\nPO NO.: 184451"},
		{SenderAddress: "po@barrybennett.co.uk", CombinedBody: "for Elise Blake elise.blake@durham.ac.uk\nPO NO.: 184452"},
	}
	for i, e := range emails {
		if err := q.Enqueue(context.Background(), Job{Email: e, SubmittedAt: time.Now(), TraceID: string(rune('a' + i))}); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	rows, _ := repo.List(context.Background(), false)
	if len(rows) != 2 {
		t.Errorf("processed %d emails, want 2", len(rows))
	}
}

func TestEmailQueueRejectsAfterShutdown(t *testing.T) {
	svc := pipeline.NewService(pipeline.NewParser(nil, nil, nil), dedup.NewMemoryFilter(), nil, nil)
	q := NewEmailQueue(svc, testLogger(), WithWorkers(1))

	q.Shutdown(context.Background())

	// Enqueue after shutdown is a logged no-op, not a panic on a closed
	// channel.
	if err := q.Enqueue(context.Background(), Job{}); err != nil {
		t.Errorf("Enqueue() after shutdown error = %v", err)
	}

	// Repeated shutdown is also safe.
	q.Shutdown(context.Background())
}
