package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrmiscellaneous91/dsa-automation/internal/common"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json; charset=utf-8"
	contentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// appHandler represents a handler function that returns an error.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// makeHandler adapts an appHandler to http.HandlerFunc, mapping returned
// errors onto a standardized JSON error response.
func makeHandler(logger *slog.Logger, handler appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var statusCode int
		var publicMessage string
		switch {
		case errors.Is(err, common.ErrRejectedInput), errors.Is(err, common.ErrInvalidInput):
			statusCode = http.StatusBadRequest
			publicMessage = err.Error()
			logger.Warn("client error response", "code", statusCode, "path", r.URL.Path, "method", r.Method, "error", err)
		case errors.Is(err, common.ErrNotFound):
			statusCode = http.StatusNotFound
			publicMessage = "resource not found"
			logger.Info("resource not found", "path", r.URL.Path, "method", r.Method, "error", err)
		default:
			statusCode = http.StatusInternalServerError
			publicMessage = "internal server error"
			logger.Error("unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		}

		respondWithJSON(w, statusCode, map[string]string{"error": publicMessage})
	}
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}
