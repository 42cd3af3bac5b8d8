package llm

import (
	"context"
	"errors"
	"testing"
)

type stubExtractor struct {
	fields RequestFields
	err    error
	calls  int
}

func (s *stubExtractor) ExtractFields(_ context.Context, _ ExtractRequest) (RequestFields, []byte, error) {
	s.calls++
	if s.err != nil {
		return RequestFields{}, nil, s.err
	}
	return s.fields, []byte(`{}`), nil
}

func TestChainPrimarySucceeds(t *testing.T) {
	primary := &stubExtractor{fields: RequestFields{StudentName: "Amal Ahmed"}}
	secondary := &stubExtractor{fields: RequestFields{StudentName: "never used"}}

	chain := NewChain(primary, secondary, nil)
	fields, _, err := chain.ExtractFields(context.Background(), ExtractRequest{})
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	if fields.StudentName != "Amal Ahmed" {
		t.Errorf("fields = %+v", fields)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not be called when primary succeeds")
	}
}

func TestChainFailsOverToSecondary(t *testing.T) {
	primary := &stubExtractor{err: ErrServiceUnavailable}
	secondary := &stubExtractor{fields: RequestFields{StudentName: "Amal Ahmed"}}

	chain := NewChain(primary, secondary, nil)
	fields, _, err := chain.ExtractFields(context.Background(), ExtractRequest{})
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	if fields.StudentName != "Amal Ahmed" {
		t.Errorf("fields = %+v", fields)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls: primary %d secondary %d", primary.calls, secondary.calls)
	}
}

func TestChainBothFail(t *testing.T) {
	primary := &stubExtractor{err: ErrServiceUnavailable}
	secondary := &stubExtractor{err: ErrUnparsableResponse}

	chain := NewChain(primary, secondary, nil)
	_, _, err := chain.ExtractFields(context.Background(), ExtractRequest{})
	if !errors.Is(err, ErrAllExtractorsFailed) {
		t.Errorf("ExtractFields() error = %v, want ErrAllExtractorsFailed", err)
	}
}

func TestChainNoServices(t *testing.T) {
	chain := NewChain(nil, nil, nil)
	_, _, err := chain.ExtractFields(context.Background(), ExtractRequest{})
	if !errors.Is(err, ErrAllExtractorsFailed) {
		t.Errorf("ExtractFields() error = %v, want ErrAllExtractorsFailed", err)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &stubExtractor{err: ErrServiceUnavailable}
	secondary := &stubExtractor{fields: RequestFields{StudentName: "never used"}}

	cancel()
	chain := NewChain(primary, secondary, nil)
	_, _, err := chain.ExtractFields(ctx, ExtractRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExtractFields() error = %v, want context.Canceled", err)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not run after cancellation")
	}
}
