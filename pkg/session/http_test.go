package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/explorer"
	"github.com/chainsafe/bridge-tracker/pkg/session"
	"github.com/chainsafe/bridge-tracker/pkg/session/mocks"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
	"github.com/chainsafe/bridge-tracker/pkg/trackstore"
)

const httpTestID = "0xabc123"

func newTrackingTestServer(svc session.Service) http.Handler {
	links := explorer.NewLinks(&config.ExplorerConfig{
		MessageBaseURL:     "https://layerzeroscan.com",
		DestinationBaseURL: "https://polygon.blockscout.com",
	})
	r := chi.NewRouter()
	session.RegisterRoutes(r, svc, links, zap.NewNop())
	return r
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) session.Response {
	t.Helper()
	var got session.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var got struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got.Error
}

func TestTrackingHTTP_Start_ReturnsAccepted(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Start(httpTestID).Return(session.Snapshot{
		SessionID: "s-1",
		MessageID: httpTestID,
		Active:    true,
		Phase:     session.PhaseSearching,
		Message:   "Starting message tracking...",
	}, true).Once()

	rec := serve(t, newTrackingTestServer(svc), http.MethodPost, "/api/v1/tracking/"+httpTestID)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, rec.Code)
	}
	got := decodeResponse(t, rec)
	if !got.Active || got.SessionID != "s-1" {
		t.Fatalf("unexpected snapshot: %+v", got.Snapshot)
	}
	if got.Links.Message != "https://layerzeroscan.com/tx/"+httpTestID {
		t.Fatalf("unexpected message link %q", got.Links.Message)
	}
	if got.Links.DestinationTx != "" {
		t.Fatalf("expected no destination link, got %q", got.Links.DestinationTx)
	}
}

func TestTrackingHTTP_Start_InvalidID(t *testing.T) {
	svc := mocks.NewService(t)

	rec := serve(t, newTrackingTestServer(svc), http.MethodPost, "/api/v1/tracking/not-hex")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got != "Invalid message id" {
		t.Fatalf("expected error %q, got %q", "Invalid message id", got)
	}
}

func TestTrackingHTTP_Get_Delivered(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Get(mock.Anything, httpTestID).Return(session.Snapshot{
		MessageID: httpTestID,
		Phase:     session.PhaseDelivered,
		Attempts:  3,
		LastResult: &tracker.Result{
			Status:            tracker.StatusDelivered,
			DestinationTxHash: "0xdef",
		},
	}, nil).Once()

	rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/tracking/"+httpTestID)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	got := decodeResponse(t, rec)
	if got.Phase != session.PhaseDelivered {
		t.Fatalf("expected phase delivered, got %s", got.Phase)
	}
	if got.LastResult == nil || got.LastResult.DestinationTxHash != "0xdef" {
		t.Fatalf("unexpected result: %+v", got.LastResult)
	}
	if got.Links.DestinationTx != "https://polygon.blockscout.com/tx/0xdef" {
		t.Fatalf("unexpected destination link %q", got.Links.DestinationTx)
	}
}

func TestTrackingHTTP_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		setup  func(svc *mocks.Service)
	}{
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/api/v1/tracking/" + httpTestID,
			setup: func(svc *mocks.Service) {
				svc.EXPECT().Get(mock.Anything, httpTestID).Return(session.Snapshot{}, session.ErrSessionNotFound).Once()
			},
		},
		{
			name:   "stop",
			method: http.MethodDelete,
			path:   "/api/v1/tracking/" + httpTestID,
			setup: func(svc *mocks.Service) {
				svc.EXPECT().Stop(httpTestID).Return(session.Snapshot{}, session.ErrSessionNotFound).Once()
			},
		},
		{
			name:   "reset",
			method: http.MethodPost,
			path:   "/api/v1/tracking/" + httpTestID + "/reset",
			setup: func(svc *mocks.Service) {
				svc.EXPECT().Reset(httpTestID).Return(session.Snapshot{}, session.ErrSessionNotFound).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			tt.setup(svc)

			rec := serve(t, newTrackingTestServer(svc), tt.method, tt.path)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
			}
			if got := decodeError(t, rec); got != "Tracking session not found" {
				t.Fatalf("unexpected error %q", got)
			}
		})
	}
}

func TestTrackingHTTP_Get_StoreFailure(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Get(mock.Anything, httpTestID).Return(session.Snapshot{}, errors.New("connection refused")).Once()

	rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/tracking/"+httpTestID)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if got := decodeError(t, rec); got != "Internal Server Error" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestTrackingHTTP_StopAndReset(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Stop(httpTestID).Return(session.Snapshot{
		MessageID:      httpTestID,
		Active:         false,
		Phase:          session.PhaseSearching,
		ElapsedSeconds: 12,
	}, nil).Once()
	svc.EXPECT().Reset(httpTestID).Return(session.Snapshot{Phase: session.PhaseSearching}, nil).Once()
	h := newTrackingTestServer(svc)

	rec := serve(t, h, http.MethodDelete, "/api/v1/tracking/"+httpTestID)
	if rec.Code != http.StatusOK {
		t.Fatalf("stop: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := decodeResponse(t, rec); got.Active || got.ElapsedSeconds != 12 {
		t.Fatalf("stop: unexpected snapshot %+v", got.Snapshot)
	}

	rec = serve(t, h, http.MethodPost, "/api/v1/tracking/"+httpTestID+"/reset")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	got := decodeResponse(t, rec)
	if got.LastResult != nil || got.Phase != session.PhaseSearching || got.ElapsedSeconds != 0 {
		t.Fatalf("reset: unexpected snapshot %+v", got.Snapshot)
	}
}

func TestTrackingHTTP_Links(t *testing.T) {
	t.Run("untracked id", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.EXPECT().Get(mock.Anything, httpTestID).Return(session.Snapshot{}, session.ErrSessionNotFound).Once()

		rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/links/"+httpTestID)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var got explorer.Set
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode response JSON: %v", err)
		}
		if got.Message != "https://layerzeroscan.com/tx/"+httpTestID || got.DestinationTx != "" {
			t.Fatalf("unexpected links %+v", got)
		}
	})

	t.Run("delivered id", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.EXPECT().Get(mock.Anything, httpTestID).
			RunAndReturn(func(context.Context, string) (session.Snapshot, error) {
				return session.Snapshot{
					Phase:      session.PhaseDelivered,
					LastResult: &tracker.Result{Status: tracker.StatusDelivered, DestinationTxHash: "0xdef"},
				}, nil
			}).Once()

		rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/links/"+httpTestID)

		var got explorer.Set
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode response JSON: %v", err)
		}
		if got.DestinationTx != "https://polygon.blockscout.com/tx/0xdef" {
			t.Fatalf("unexpected destination link %q", got.DestinationTx)
		}
	})
}

func TestTrackingHTTP_History(t *testing.T) {
	finished := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default limit", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.EXPECT().History(mock.Anything, 100).Return([]*trackstore.Outcome{
			{MessageID: httpTestID, Status: tracker.StatusDelivered, DestTxHash: "0xdef", Attempts: 3, FinishedAt: finished},
		}, nil).Once()

		rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/tracking")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var got struct {
			Outcomes []trackstore.Outcome `json:"outcomes"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode response JSON: %v", err)
		}
		if len(got.Outcomes) != 1 || got.Outcomes[0].DestTxHash != "0xdef" {
			t.Fatalf("unexpected outcomes %+v", got.Outcomes)
		}
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.EXPECT().History(mock.Anything, 5).Return([]*trackstore.Outcome{}, nil).Once()

		rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/tracking?limit=5")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})

	for _, limit := range []string{"0", "abc", "5000"} {
		t.Run("invalid limit "+limit, func(t *testing.T) {
			svc := mocks.NewService(t)

			rec := serve(t, newTrackingTestServer(svc), http.MethodGet, "/api/v1/tracking?limit="+limit)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if got := decodeError(t, rec); got != "Invalid limit" {
				t.Fatalf("unexpected error %q", got)
			}
		})
	}
}
