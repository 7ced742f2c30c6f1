// Package gateway implements the multi-provider lookup proxy. For a provider
// name and a hash it tries the provider's upstream endpoints in order, each
// under its own timeout, and for fallback-enabled providers degrades to a
// synthetic message record instead of failing.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainsafe/bridge-tracker/internal/metrics"
	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/message"
)

const (
	hashPlaceholder  = "{hash}"
	maxUpstreamBody  = 4 << 20
	maxErrorBodyEcho = 256
)

var (
	// ErrUnsupportedProvider is returned for provider names the gateway does not serve.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrUnrecognizedPayload is recorded when an endpoint answers 2xx with a
	// body that fails the provider's shape check.
	ErrUnrecognizedPayload = errors.New("unrecognized payload shape")
)

// UpstreamError describes a non-2xx answer from one endpoint.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned %d %s", e.Endpoint, e.StatusCode, e.Body)
}

// FallbackGenerator fabricates a record when no upstream data is available.
type FallbackGenerator interface {
	Generate(id string) *message.Record
}

// Provider is one upstream source of lookup data.
type Provider struct {
	Name          string
	Endpoints     []string
	Timeout       time.Duration
	Fallback      bool
	ValidateShape bool

	limiter *rate.Limiter
}

// Gateway resolves lookups against configured providers.
type Gateway struct {
	providers map[string]*Provider
	client    *http.Client
	fallback  FallbackGenerator
	userAgent string
	logger    *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient overrides the client used for upstream requests.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// New creates a Gateway from configuration.
func New(cfg *config.GatewayConfig, fallback FallbackGenerator, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		providers: make(map[string]*Provider, len(cfg.Providers)),
		client:    &http.Client{},
		fallback:  fallback,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
	for name, p := range cfg.Providers {
		limit := rate.Inf
		if p.RateLimitRPS > 0 {
			limit = rate.Limit(p.RateLimitRPS)
		}
		burst := p.Burst
		if burst <= 0 {
			burst = 1
		}
		g.providers[name] = &Provider{
			Name:          name,
			Endpoints:     p.Endpoints,
			Timeout:       p.Timeout,
			Fallback:      p.Fallback,
			ValidateShape: p.ValidateShape,
			limiter:       rate.NewLimiter(limit, burst),
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Providers returns the served provider names in sorted order.
func (g *Gateway) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the raw JSON body for hash from the named provider.
//
// Endpoints are tried in order; the first 2xx answer that passes the
// provider's shape check wins. When all endpoints fail, a fallback-enabled
// provider answers with a synthetic record (marked "_mock": true) instead
// of an error.
func (g *Gateway) Lookup(ctx context.Context, providerName, hash string) ([]byte, error) {
	p, ok := g.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerName)
	}

	var lastErr error
	for _, tpl := range p.Endpoints {
		endpoint := strings.ReplaceAll(tpl, hashPlaceholder, url.PathEscape(hash))

		body, err := g.fetch(ctx, p, endpoint)
		if err != nil {
			g.logger.Debug("Upstream endpoint failed",
				zap.String("provider", p.Name),
				zap.String("endpoint", endpoint),
				zap.Error(err))
			lastErr = err
			continue
		}

		if p.ValidateShape && !IsMessagePayload(body) {
			g.logger.Debug("Upstream endpoint returned non-message data",
				zap.String("provider", p.Name),
				zap.String("endpoint", endpoint))
			lastErr = fmt.Errorf("%s: %w", endpoint, ErrUnrecognizedPayload)
			continue
		}
		if !gjson.ValidBytes(body) {
			lastErr = fmt.Errorf("%s: invalid JSON body", endpoint)
			continue
		}

		metrics.GatewayLookupsTotal.WithLabelValues(p.Name, "upstream").Inc()
		return body, nil
	}

	if p.Fallback && g.fallback != nil {
		g.logger.Info("Upstream lookup failed, serving synthetic record",
			zap.String("provider", p.Name),
			zap.String("hash", hash),
			zap.NamedError("last_error", lastErr))
		metrics.GatewayLookupsTotal.WithLabelValues(p.Name, "fallback").Inc()
		return json.Marshal(g.fallback.Generate(hash))
	}

	metrics.GatewayLookupsTotal.WithLabelValues(p.Name, "error").Inc()
	if lastErr == nil {
		lastErr = errors.New("no endpoints configured")
	}
	return nil, fmt.Errorf("%s lookup for %s failed: %w", p.Name, hash, lastErr)
}

// fetch performs one bounded upstream request.
func (g *Gateway) fetch(ctx context.Context, p *Provider, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(p.Name, "transport_error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	metrics.UpstreamRequestDuration.WithLabelValues(p.Name, http.StatusText(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBodyEcho {
			snippet = snippet[:maxErrorBodyEcho]
		}
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
