package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrmiscellaneous91/dsa-automation/internal/async"
	"github.com/mrmiscellaneous91/dsa-automation/internal/common"
	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
	"github.com/mrmiscellaneous91/dsa-automation/internal/export"
	"github.com/mrmiscellaneous91/dsa-automation/internal/pipeline"
	"github.com/mrmiscellaneous91/dsa-automation/internal/repository"
)

// Handler bundles the collaborators the HTTP surface needs. Repo and
// Exporter are nil when the service runs without a database.
type Handler struct {
	Svc      *pipeline.Service
	Queue    async.Queue
	Repo     repository.RequestRepository
	Exporter *export.Service
	Logger   *slog.Logger
}

func NewHandler(svc *pipeline.Service, queue async.Queue, repo repository.RequestRepository, exporter *export.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Svc: svc, Queue: queue, Repo: repo, Exporter: exporter, Logger: logger}
}

type parseResponse struct {
	Request   *entity.ProvisioningRequest `json:"request"`
	Duplicate bool                        `json:"duplicate"`
}

// handleParse runs the full pipeline synchronously and returns the
// assembled request.
func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeInboundEmail(r)
	if err != nil {
		return err
	}

	req, kept, err := h.Svc.Process(r.Context(), in)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusOK, parseResponse{Request: req, Duplicate: !kept})
	return nil
}

// handleEnqueue accepts an email for background processing.
func (h *Handler) handleEnqueue(w http.ResponseWriter, r *http.Request) error {
	in, err := decodeInboundEmail(r)
	if err != nil {
		return err
	}

	job := async.Job{
		Email:       in,
		SubmittedAt: time.Now().UTC(),
		TraceID:     middleware.GetReqID(r.Context()),
	}
	if err := h.Queue.Enqueue(r.Context(), job); err != nil {
		return err
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"trace_id": job.TraceID,
	})
	return nil
}

// handleListRequests returns stored requests, optionally only those
// flagged for review.
func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) error {
	if h.Repo == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return nil
	}

	needsReviewOnly := r.URL.Query().Get("needs_review") == "true"
	recs, err := h.Repo.List(r.Context(), needsReviewOnly)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"requests": recs,
		"count":    len(recs),
	})
	return nil
}

// handleExport streams stored requests as an XLSX workbook.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) error {
	if h.Exporter == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "persistence is not configured"})
		return nil
	}

	needsReviewOnly := r.URL.Query().Get("needs_review") == "true"
	buf, err := h.Exporter.ExportRequestsXLSX(r.Context(), needsReviewOnly)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("provisioning-requests-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set(headerContentType, contentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
	return nil
}

func decodeInboundEmail(r *http.Request) (entity.InboundEmail, error) {
	var in entity.InboundEmail
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, common.NewAppError("BAD_REQUEST", "invalid JSON body", common.ErrInvalidInput)
	}
	if in.SenderAddress == "" {
		return in, common.NewAppError("BAD_REQUEST", "sender_address is required", common.ErrInvalidInput)
	}
	return in, nil
}
