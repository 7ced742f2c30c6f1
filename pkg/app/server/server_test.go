package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/explorer"
	"github.com/chainsafe/bridge-tracker/pkg/fallback"
	"github.com/chainsafe/bridge-tracker/pkg/gateway"
	"github.com/chainsafe/bridge-tracker/pkg/session"
	"github.com/chainsafe/bridge-tracker/pkg/session/mocks"
)

func newTestRouter(t *testing.T, monitoring bool, svc session.Service) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hash":"0xabc","status":"ok"}`))
	}))
	t.Cleanup(upstream.Close)

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() failed: %v", err)
	}
	cfg.Monitoring.Enabled = monitoring
	cfg.Gateway.Providers = map[string]config.ProviderConfig{
		"blockscout": {Endpoints: []string{upstream.URL + "/tx/{hash}"}, Timeout: time.Second},
	}

	gw := gateway.New(&cfg.Gateway, fallback.NewGenerator(), zap.NewNop())
	s := NewServer(cfg)
	return s.newRouter(gw, svc, explorer.NewLinks(&cfg.Explorer), zap.NewNop())
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, false, mocks.NewService(t))

	rec := get(h, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("expected body OK, got %q", rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec := get(newTestRouter(t, true, mocks.NewService(t)), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tracker_active_sessions") {
		t.Fatal("expected tracker metrics in /metrics output")
	}

	rec = get(newTestRouter(t, false, mocks.NewService(t)), "/metrics")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d with monitoring disabled, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestRouter_Gateway(t *testing.T) {
	h := newTestRouter(t, false, mocks.NewService(t))

	rec := get(h, "/api/cross-chain?provider=blockscout&hash=0xabc")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"hash":"0xabc"`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	rec = get(h, "/api/cross-chain?provider=layerzero&hash=0xabc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d for unconfigured provider, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestRouter_Tracking(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Get(mock.Anything, "0xabc").Return(session.Snapshot{Phase: session.PhaseSearching}, nil).Once()

	rec := get(newTestRouter(t, false, svc), "/api/v1/tracking/0xabc")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRun_NilConfig(t *testing.T) {
	if err := NewServer(nil).Run(); err == nil {
		t.Fatal("expected error for nil config")
	}
}
