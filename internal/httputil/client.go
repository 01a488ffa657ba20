// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil implements the resilient JSON request client used to talk
// to the thesis search service.
//
// Every logical request merges the caller's context with a per-attempt
// timeout, retries transient failures with linear backoff, and collapses the
// result into one of three outcomes: success, abandoned (the caller cancelled,
// typically because a newer request superseded this one) or failed (a
// *RequestError whose message is fit for display).
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Doer performs a single HTTP exchange. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the connection settings of a Client.
type Config struct {
	// BaseURL is the service origin; trailing slashes are ignored.
	BaseURL string

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// RateLimit caps attempts per second. Zero disables the limiter.
	RateLimit float64
}

// RequestOptions bound one logical request.
type RequestOptions struct {
	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of additional attempts after a transient failure.
	Retries int

	// Backoff is the base delay between attempts; retry n waits Backoff*n.
	Backoff time.Duration
}

// DefaultTimeout applies when RequestOptions.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// maxMessageBytes caps raw-text error messages taken from response bodies.
const maxMessageBytes = 512

// Client executes JSON requests against one base origin. It is safe for
// concurrent use and holds no per-request state.
type Client struct {
	baseURL   string
	userAgent string
	http      Doer
	limiter   *rate.Limiter
	logger    *zap.Logger
	metrics   *Metrics

	// sleep waits between attempts. Tests replace it to record delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport (default: a plain *http.Client).
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New validates cfg and returns a Client. It fails fast with
// ErrMissingBaseURL when no origin is configured, so misconfiguration is
// reported before any network call.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrMissingBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	c := &Client{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		http:      &http.Client{},
		logger:    zap.NewNop(),
		sleep:     sleepContext,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised origin.
func (c *Client) BaseURL() string { return c.baseURL }

// Request performs a logical request and decodes a 2xx body into a T.
func Request[T any](ctx context.Context, c *Client, method, path string, body any, opts RequestOptions) (T, error) {
	var out T
	if err := c.Do(ctx, method, path, body, &out, opts); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// attemptResult is the outcome of a single exchange.
type attemptResult struct {
	err       error
	retryable bool
	reason    string
}

// Do performs one logical request. body, when non-nil, is encoded as JSON;
// a 2xx response body is decoded into out when out is non-nil.
//
// Do returns nil on success, ErrAbandoned when ctx was cancelled (before the
// call, during an attempt or during a backoff wait), and a *RequestError for
// every other failure. Transient failures (429, 502, 503, 504, attempt
// timeouts and network errors) are retried up to opts.Retries times.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts RequestOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	start := time.Now()
	log := c.logger.With(zap.String("method", method), zap.String("path", path))

	if ctx.Err() != nil {
		log.Debug("request abandoned before start")
		c.metrics.observe(method, path, OutcomeAbandoned, time.Since(start))
		return ErrAbandoned
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.metrics.observe(method, path, OutcomeFailed, time.Since(start))
			return &RequestError{Kind: KindRequest, Message: fmt.Sprintf("encoding request body: %v", err), Err: err}
		}
		payload = data
	}

	requestID := uuid.NewString()
	log = log.With(zap.String("request_id", requestID))
	maxAttempts := opts.Retries + 1

	for attempt := 1; ; attempt++ {
		log.Debug("sending request", zap.Int("attempt", attempt), zap.Int("max_attempts", maxAttempts))
		res := c.attempt(ctx, method, path, payload, out, opts.Timeout, requestID)

		switch {
		case res.err == nil:
			c.metrics.observe(method, path, OutcomeSuccess, time.Since(start))
			return nil
		case errors.Is(res.err, ErrAbandoned):
			log.Info("request abandoned", zap.Int("attempt", attempt))
			c.metrics.observe(method, path, OutcomeAbandoned, time.Since(start))
			return ErrAbandoned
		case !res.retryable || attempt >= maxAttempts:
			log.Warn("request failed", zap.Int("attempt", attempt), zap.Error(res.err))
			c.metrics.observe(method, path, OutcomeFailed, time.Since(start))
			return res.err
		}

		delay := Backoff(opts.Backoff, attempt)
		log.Warn("retrying request",
			zap.Int("attempt", attempt),
			zap.String("reason", res.reason),
			zap.Duration("backoff", delay),
			zap.Error(res.err))
		c.metrics.retry(path, res.reason)

		if err := c.sleep(ctx, delay); err != nil || ctx.Err() != nil {
			log.Info("request abandoned during backoff", zap.Int("attempt", attempt))
			c.metrics.observe(method, path, OutcomeAbandoned, time.Since(start))
			return ErrAbandoned
		}
	}
}

// attempt performs a single exchange under a merged cancellation condition.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any, timeout time.Duration, requestID string) attemptResult {
	actx, release := withAttemptTimeout(ctx, timeout)
	defer release()

	if c.limiter != nil {
		if err := c.limiter.Wait(actx); err != nil {
			return transportFailure(ctx, actx, err)
		}
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, method, c.baseURL+path, rd)
	if err != nil {
		return attemptResult{err: &RequestError{Kind: KindRequest, Message: fmt.Sprintf("creating request: %v", err), Err: err}}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure(ctx, actx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(ctx, actx, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return attemptResult{}
		}
		if err := json.Unmarshal(data, out); err != nil {
			return attemptResult{err: &RequestError{
				Kind:    KindMalformed,
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("malformed response from %s: %v", path, err),
				Err:     err,
			}}
		}
		return attemptResult{}
	}

	return attemptResult{
		err: &RequestError{
			Kind:    KindStatus,
			Status:  resp.StatusCode,
			Message: ExtractMessage(resp.StatusCode, data),
		},
		retryable: IsTransientStatus(resp.StatusCode),
		reason:    "status_" + strconv.Itoa(resp.StatusCode),
	}
}

// transportFailure classifies an error raised while the exchange was in
// flight. Caller cancellation wins only when the caller's context is the one
// observed as done; the attempt timer is recognised by its cause.
func transportFailure(ctx, actx context.Context, err error) attemptResult {
	if ctx.Err() != nil {
		return attemptResult{err: ErrAbandoned}
	}
	if errors.Is(context.Cause(actx), errAttemptTimeout) {
		return attemptResult{
			err:       &RequestError{Kind: KindTimeout, Message: "request timed out", Err: err},
			retryable: true,
			reason:    "timeout",
		}
	}
	return attemptResult{
		err:       &RequestError{Kind: KindNetwork, Message: err.Error(), Err: err},
		retryable: true,
		reason:    "network",
	}
}

// ExtractMessage derives a human-readable message from an error response.
// It prefers a string "detail" field, then the compact JSON of a structured
// "detail", then the raw body text, and finally "HTTP <status>".
func ExtractMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("HTTP %d", status)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		raw, ok := obj["detail"]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			return fallback
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s == "" {
				return fallback
			}
			return s
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}

	text := string(trimmed)
	if len(text) > maxMessageBytes {
		text = strings.ToValidUTF8(text[:maxMessageBytes], "") + "..."
	}
	return text
}
