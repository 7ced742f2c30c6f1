package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridge-tracker/pkg/app/errors"
	apphttp "github.com/chainsafe/bridge-tracker/pkg/app/http"
	"github.com/chainsafe/bridge-tracker/pkg/explorer"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
	"github.com/chainsafe/bridge-tracker/pkg/trackstore"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Service is the tracking surface served over HTTP. *Manager implements it.
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Start(id string) (Snapshot, bool)
	Get(ctx context.Context, id string) (Snapshot, error)
	Stop(id string) (Snapshot, error)
	Reset(id string) (Snapshot, error)
	History(ctx context.Context, limit int) ([]*trackstore.Outcome, error)
}

// Response is a session snapshot plus the explorer links for its message.
type Response struct {
	Snapshot
	Links explorer.Set `json:"links"`
}

// HTTP exposes a Service over chi routes.
type HTTP struct {
	service Service
	links   explorer.Links
	logger  *zap.Logger
}

// RegisterRoutes registers the tracking endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, links explorer.Links, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		links:   links,
		logger:  logger,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tracking", apphttp.HandleError(h.history, logger))
		r.Post("/tracking/{id}", apphttp.HandleError(h.start, logger))
		r.Get("/tracking/{id}", apphttp.HandleError(h.get, logger))
		r.Delete("/tracking/{id}", apphttp.HandleError(h.stop, logger))
		r.Post("/tracking/{id}/reset", apphttp.HandleError(h.reset, logger))
		r.Get("/links/{id}", apphttp.HandleError(h.messageLinks, logger))
	})
}

func (h *HTTP) start(w http.ResponseWriter, r *http.Request) error {
	id, err := messageID(r)
	if err != nil {
		return err
	}

	snap, started := h.service.Start(id)
	if !started {
		h.logger.Debug("Tracking session already active", zap.String("message_id", id))
	}
	apphttp.WriteJSON(w, http.StatusAccepted, h.response(id, snap))
	return nil
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	id, err := messageID(r)
	if err != nil {
		return err
	}

	snap, err := h.service.Get(r.Context(), id)
	if err != nil {
		return serviceError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, h.response(id, snap))
	return nil
}

func (h *HTTP) stop(w http.ResponseWriter, r *http.Request) error {
	id, err := messageID(r)
	if err != nil {
		return err
	}

	snap, err := h.service.Stop(id)
	if err != nil {
		return serviceError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, h.response(id, snap))
	return nil
}

func (h *HTTP) reset(w http.ResponseWriter, r *http.Request) error {
	id, err := messageID(r)
	if err != nil {
		return err
	}

	snap, err := h.service.Reset(id)
	if err != nil {
		return serviceError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, h.response(id, snap))
	return nil
}

// history handles GET /api/v1/tracking?limit=<n>
func (h *HTTP) history(w http.ResponseWriter, r *http.Request) error {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			return apperrors.BadRequestError(err, "Invalid limit")
		}
		limit = n
	}

	outcomes, err := h.service.History(r.Context(), limit)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
	return nil
}

// messageLinks answers even for ids that were never tracked; the
// destination link appears once a session has seen a destination hash.
func (h *HTTP) messageLinks(w http.ResponseWriter, r *http.Request) error {
	id, err := messageID(r)
	if err != nil {
		return err
	}

	var dest string
	snap, err := h.service.Get(r.Context(), id)
	switch {
	case err == nil:
		dest = destTxHash(snap)
	case errors.Is(err, ErrSessionNotFound):
	default:
		return apperrors.GeneralError(err)
	}
	apphttp.WriteJSON(w, http.StatusOK, h.links.For(id, dest))
	return nil
}

func (h *HTTP) response(id string, snap Snapshot) Response {
	return Response{Snapshot: snap, Links: h.links.For(id, destTxHash(snap))}
}

func messageID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := tracker.ValidateID(id); err != nil {
		return "", apperrors.BadRequestError(err, "Invalid message id")
	}
	return id, nil
}

func serviceError(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return apperrors.ResourceNotFoundError(err, "Tracking session not found")
	}
	return apperrors.GeneralError(err)
}

func destTxHash(s Snapshot) string {
	if s.LastResult == nil {
		return ""
	}
	return s.LastResult.DestinationTxHash
}
