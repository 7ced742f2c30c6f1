package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridge-tracker/pkg/app/errors"
	apphttp "github.com/chainsafe/bridge-tracker/pkg/app/http"
)

// LookupPath is the route the gateway is mounted on.
const LookupPath = "/api/cross-chain"

type handler struct {
	gw     *Gateway
	logger *zap.Logger
}

// RegisterRoutes mounts the lookup endpoint on r.
func RegisterRoutes(r chi.Router, gw *Gateway, logger *zap.Logger) {
	h := &handler{gw: gw, logger: logger}
	r.Get(LookupPath, apphttp.HandleError(h.lookup, logger))
	r.Post(LookupPath, apphttp.HandleError(h.post, logger))
}

// lookup handles GET /api/cross-chain?provider=<name>&hash=<hash>
func (h *handler) lookup(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	provider, hash := q.Get("provider"), q.Get("hash")
	if provider == "" || hash == "" {
		return apperrors.BadRequestError(nil, "Missing provider or hash parameter")
	}

	body, err := h.gw.Lookup(r.Context(), provider, hash)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnsupportedProvider):
		return apperrors.BadRequestError(err, "Unsupported provider")
	default:
		h.logger.Error("Failed to fetch data from provider",
			zap.String("provider", provider),
			zap.String("hash", hash),
			zap.Error(err))
		return apperrors.DependencyError(err,
			fmt.Sprintf("Failed to fetch data from %s: %s", provider, err),
			map[string]string{"provider": provider, "hash": hash})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return nil
}

func (h *handler) post(_ http.ResponseWriter, _ *http.Request) error {
	return apperrors.NotSupportedError(nil, "POST method not supported for this endpoint.")
}
