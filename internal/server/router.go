package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", makeHandler(h.Logger, h.handleParse))
		r.Post("/emails", makeHandler(h.Logger, h.handleEnqueue))
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", makeHandler(h.Logger, h.handleListRequests))
			r.Get("/export", makeHandler(h.Logger, h.handleExport))
		})
	})

	r.Get("/healthz", handleHealthCheck)

	return r
}

func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(headerContentType, "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
