// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package thesis is the typed client of the thesis search service. It wraps
// httputil.Client with the service's endpoints and their request budgets:
// searches get a 15s attempt timeout and two retries, probes get 5s and none.
package thesis

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/pkg/types"
)

// Bounds of the top_k request parameter.
const (
	MinTopK = 1
	MaxTopK = 50
)

// Endpoint paths.
const (
	pathSearch  = "/search"
	pathHealthz = "/healthz"
	pathReady   = "/ready"
)

// ClampTopK bounds n to [MinTopK, MaxTopK].
func ClampTopK(n int) int {
	if n < MinTopK {
		return MinTopK
	}
	if n > MaxTopK {
		return MaxTopK
	}
	return n
}

// Client issues search and probe requests. It is safe for concurrent use.
type Client struct {
	http   *httputil.Client
	search httputil.RequestOptions
	probe  httputil.RequestOptions
}

// New builds a Client from cfg. The API base is validated here, so a
// missing or malformed origin fails before any request is attempted.
func New(cfg types.ClientConfig, opts ...httputil.Option) (*Client, error) {
	cfg.ApplyDefaults()

	hc, err := httputil.New(httputil.Config{
		BaseURL:   cfg.APIBase,
		UserAgent: cfg.UserAgent,
		RateLimit: cfg.RateLimit,
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		http: hc,
		search: httputil.RequestOptions{
			Timeout: cfg.Search.Timeout,
			Retries: cfg.Search.Retries,
			Backoff: cfg.Search.Backoff,
		},
		probe: httputil.RequestOptions{
			Timeout: cfg.Probe.Timeout,
		},
	}, nil
}

// BaseURL returns the normalised service origin.
func (c *Client) BaseURL() string { return c.http.BaseURL() }

// Search runs a semantic search for q. topK is clamped to [1, 50]. Results
// are returned in the order the service ranked them.
func (c *Client) Search(ctx context.Context, q string, topK int) (types.SearchResponse, error) {
	if strings.TrimSpace(q) == "" {
		return types.SearchResponse{}, ErrEmptyQuery
	}
	body := types.SearchRequest{Query: q, TopK: ClampTopK(topK)}
	return httputil.Request[types.SearchResponse](ctx, c.http, http.MethodPost, pathSearch, body, c.search)
}

// Healthz reports whether the service process is up.
func (c *Client) Healthz(ctx context.Context) (types.HealthStatus, error) {
	return httputil.Request[types.HealthStatus](ctx, c.http, http.MethodGet, pathHealthz, nil, c.probe)
}

// Ready reports whether the service has loaded its index mapping.
func (c *Client) Ready(ctx context.Context) (types.ReadyStatus, error) {
	return httputil.Request[types.ReadyStatus](ctx, c.http, http.MethodGet, pathReady, nil, c.probe)
}
