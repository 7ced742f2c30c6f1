package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/message"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.FetcherConfig{
		GatewayURL: srv.URL + "/",
		Provider:   "layerzero",
		Timeout:    time.Second,
	}, zap.NewNop())
}

func TestFetchMessage_Record(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cross-chain" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("provider"); got != "layerzero" {
			t.Errorf("Expected provider layerzero, got %s", got)
		}
		if got := r.URL.Query().Get("hash"); got != "0xabc" {
			t.Errorf("Expected hash 0xabc, got %s", got)
		}
		_, _ = w.Write([]byte(`{"guid":"0xabc","srcChainId":101,"dstChainId":109,"srcTxHash":"0xabc","dstTxHash":"0xdef","status":"DELIVERED","created":1700000000000,"updated":1700000060000}`))
	})

	rec, err := c.FetchMessage(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchMessage failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected record, got nil")
	}
	if rec.Status != message.StatusDelivered {
		t.Errorf("Expected DELIVERED, got %s", rec.Status)
	}
	if rec.DestTxHash != "0xdef" {
		t.Errorf("Expected dest hash 0xdef, got %s", rec.DestTxHash)
	}
	if rec.IsSynthetic {
		t.Error("Expected non-synthetic record")
	}
}

func TestFetchMessage_SyntheticRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"guid":"0xabc","srcTxHash":"0xabc","status":"INFLIGHT","_mock":true}`))
	})

	rec, err := c.FetchMessage(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchMessage failed: %v", err)
	}
	if !rec.IsSynthetic {
		t.Error("Expected synthetic record")
	}
}

func TestFetchMessage_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http 404",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "error field mentioning 404",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":"Failed to fetch data from layerzero: layerzero lookup for 0xabc failed: upstream https://scan.layerzero-api.com/v1/messages/tx/0xabc returned 404 Not Found"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			rec, err := c.FetchMessage(context.Background(), "0xabc")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec != nil {
				t.Errorf("Expected nil record, got %+v", rec)
			}
		})
	}
}

func TestFetchMessage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   Kind
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Failed to fetch data from flare","provider":"flare","hash":"0xabc"}`))
			},
			wantKind:   KindHTTP,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "error field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":"rate limited"}`))
			},
			wantKind:   KindUpstream,
			wantStatus: http.StatusOK,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
			},
			wantKind:   KindMalformed,
			wantStatus: http.StatusOK,
		},
		{
			name: "unrecognized record",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			},
			wantKind:   KindMalformed,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			rec, err := c.FetchMessage(context.Background(), "0xabc")
			if rec != nil {
				t.Errorf("Expected nil record, got %+v", rec)
			}
			var fErr *Error
			if !errors.As(err, &fErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if fErr.Kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, fErr.Kind)
			}
			if fErr.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, fErr.StatusCode)
			}
		})
	}
}

func TestFetchMessage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(&config.FetcherConfig{
		GatewayURL: srv.URL,
		Provider:   "layerzero",
		Timeout:    50 * time.Millisecond,
	}, zap.NewNop())

	_, err := c.FetchMessage(context.Background(), "0xabc")
	var fErr *Error
	if !errors.As(err, &fErr) || fErr.Kind != KindTransport {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
