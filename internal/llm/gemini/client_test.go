package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrmiscellaneous91/dsa-automation/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gemini-1.5-flash"}, nil)
}

func TestExtractFields(t *testing.T) {
	var gotPath, gotKey string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": `{"student_name":"Elise Blake","student_email":"elise.blake@durham.ac.uk","po_number":"POR184451"}`},
				}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	fields, _, err := client.ExtractFields(context.Background(), llm.ExtractRequest{
		Subject:       "Purchase Order POR184451",
		SenderAddress: "po@barrybennett.co.uk",
		Body:          "order attached",
	})
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}

	if !strings.HasSuffix(gotPath, "/v1beta/models/gemini-1.5-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-goog-api-key = %q", gotKey)
	}
	if fields.StudentName != "Elise Blake" || fields.PONumber != "POR184451" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestExtractFieldsNoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []map[string]any{}})
	})

	_, _, err := client.ExtractFields(context.Background(), llm.ExtractRequest{})
	if !errors.Is(err, llm.ErrUnparsableResponse) {
		t.Errorf("ExtractFields() error = %v, want ErrUnparsableResponse", err)
	}
}

func TestExtractFieldsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	})

	_, _, err := client.ExtractFields(context.Background(), llm.ExtractRequest{})
	if !errors.Is(err, llm.ErrServiceUnavailable) {
		t.Errorf("ExtractFields() error = %v, want ErrServiceUnavailable", err)
	}
}
