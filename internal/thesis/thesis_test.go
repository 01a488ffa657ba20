// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thesis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/pkg/types"
)

func testConfig(base string) types.ClientConfig {
	return types.ClientConfig{
		HTTPConfig: types.HTTPConfig{APIBase: base},
		Search: types.SearchConfig{
			Timeout: 2 * time.Second,
			Retries: 2,
			Backoff: time.Millisecond,
		},
		Probe: types.ProbeConfig{Timeout: time.Second},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := New(testConfig(ts.URL))
	require.NoError(t, err)
	return c
}

func TestClampTopK(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{10, 10},
		{50, 50},
		{51, 50},
		{1000, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampTopK(tt.in), "ClampTopK(%d)", tt.in)
	}
}

func TestNewRequiresBase(t *testing.T) {
	_, err := New(testConfig(""))
	assert.ErrorIs(t, err, httputil.ErrMissingBaseURL)
}

func TestSearchPreservesOrder(t *testing.T) {
	var got types.SearchRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"score":0.9,"titulo":"Aprendizaje automático en agricultura"},
			{"score":0.5,"titulo":"Redes neuronales"}
		]}`))
	})

	resp, err := c.Search(context.Background(), "machine learning", 10)
	require.NoError(t, err)

	assert.Equal(t, "machine learning", got.Query)
	assert.Equal(t, 10, got.TopK)
	require.Len(t, resp.Results, 2)
	assert.InDelta(t, 0.9, resp.Results[0].Score, 1e-9)
	assert.InDelta(t, 0.5, resp.Results[1].Score, 1e-9)
	assert.Equal(t, "Redes neuronales", resp.Results[1].Title)
}

func TestSearchClampsTopK(t *testing.T) {
	var topK atomic.Int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req types.SearchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		topK.Store(int64(req.TopK))
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.Search(context.Background(), "suelos", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(50), topK.Load())

	_, err = c.Search(context.Background(), "suelos", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), topK.Load())
}

func TestSearchEmptyQuerySendsNothing(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := c.Search(context.Background(), q, 10)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestSearchRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"index loading"}`))
	})

	_, err := c.Search(context.Background(), "suelos", 10)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "index loading", err.Error())
	assert.Equal(t, httputil.OutcomeFailed, httputil.Classify(err))
}

func TestSearchValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"q is required"}`))
	})

	_, err := c.Search(context.Background(), "x", 10)
	var reqErr *httputil.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	assert.Equal(t, "q is required", reqErr.Error())
}

func TestHealthzAndReady(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/healthz":
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/ready":
			_, _ = w.Write([]byte(`{"mapping_ready":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	health, err := c.Healthz(context.Background())
	require.NoError(t, err)
	assert.True(t, health.OK)

	ready, err := c.Ready(context.Background())
	require.NoError(t, err)
	assert.False(t, ready.MappingReady)
}

func TestProbesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Healthz(context.Background())
	require.Error(t, err)
	assert.Equal(t, "HTTP 503", err.Error())

	_, err = c.Ready(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearchCancelledIsAbandoned(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := c.Search(ctx, "suelos", 10)
	assert.True(t, httputil.IsAbandoned(err))
}
