// Package fetcher performs single bounded lookups of a message record
// through the lookup gateway.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/message"
)

const (
	lookupPath     = "/api/cross-chain"
	maxResponse    = 4 << 20
	defaultTimeout = 15 * time.Second
)

// Kind classifies a fetch failure.
type Kind string

const (
	KindTransport Kind = "transport"
	KindHTTP      Kind = "http"
	KindUpstream  Kind = "upstream"
	KindMalformed Kind = "malformed"
)

// Error is returned for every failure other than "not found".
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client fetches message records from the gateway.
type Client struct {
	baseURL  string
	provider string
	timeout  time.Duration
	http     *http.Client
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// NewClient creates a new gateway client.
func NewClient(cfg *config.FetcherConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.GatewayURL, "/"),
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		http:     &http.Client{},
		logger:   logger,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMessage issues one lookup for id. It returns (nil, nil) when the
// gateway reports the message as not found yet.
func (c *Client) FetchMessage(ctx context.Context, id string) (*message.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("provider", c.provider)
	q.Set("hash", id)
	endpoint := c.baseURL + lookupPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug("Message not found yet", zap.String("message_id", id))
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return nil, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API error: %s", errorMessage(body, resp.StatusCode)),
		}
	}

	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() && apiErr.String() != "" {
		if strings.Contains(apiErr.String(), "404") {
			return nil, nil
		}
		return nil, &Error{Kind: KindUpstream, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", apiErr.String())}
	}

	rec, err := message.Decode(body)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, StatusCode: resp.StatusCode, Err: err}
	}
	return rec, nil
}

func errorMessage(body []byte, status int) string {
	if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return http.StatusText(status)
}
