// Package http provides HTTP utilities including chi-compatible error handling
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridge-tracker/pkg/app/errors"
)

// HandlerFunc defines a function that returns an error for clean error handling
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// HandleError wraps an error-returning HandlerFunc into a standard http.HandlerFunc.
// Errors that are not ServiceErrors are logged and answered with a 500.
//
// Usage with chi:
//
//	r.Get("/cross-chain", http.HandleError(handler.lookup, logger))
func HandleError(h HandlerFunc, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			if logger != nil {
				logger.Warn("request failed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Error(err))
			}
			DefaultErrorHandler(w, err)
		}
	}
}

// DefaultErrorHandler writes err as a JSON body of the form
// {"error": "..."} plus any details attached to a ServiceError.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) {
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Unexpected Service Error",
		})
		return
	}

	body := make(map[string]string, len(svcErr.Details)+1)
	for k, v := range svcErr.Details {
		body[k] = v
	}
	body["error"] = svcErr.Message

	WriteJSON(w, svcErr.StatusCode(), body)
}

// WriteJSON encodes data as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
