// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session drives an interactive search: it debounces typed input,
// keeps one live request per session and applies only the outcome of the
// most recent request to the published state.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/thesis-search/internal/cancel"
	"github.com/pdiddy/thesis-search/internal/debounce"
	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/pkg/types"
)

// Searcher runs one search. *thesis.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, q string, topK int) (types.SearchResponse, error)
}

// Options configure a Controller.
type Options struct {
	Debounce time.Duration
	TopK     int
	Logger   *zap.Logger
}

// State is a snapshot of the session. Seq increases with every published
// state; consumers receiving snapshots from several goroutines keep the one
// with the highest Seq.
type State struct {
	Seq      uint64
	Query    string
	Loading  bool
	Err      error
	Results  []types.SearchHit
	Searched bool
}

// Controller owns one search box.
type Controller struct {
	ctx      context.Context
	searcher Searcher
	topK     int
	onState  func(State)
	logger   *zap.Logger

	debouncer *debounce.Debouncer[string]
	slot      cancel.Slot
	wg        sync.WaitGroup

	mu     sync.Mutex
	state  State
	closed bool
}

// New returns a Controller bound to ctx. onState receives every state
// change; it is called from the caller's goroutine for Submit and from a
// request goroutine when a search resolves, so it must not block for long.
func New(ctx context.Context, searcher Searcher, opts Options, onState func(State)) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = types.DefaultDebounce
	}
	if opts.TopK == 0 {
		opts.TopK = types.DefaultTopK
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if onState == nil {
		onState = func(State) {}
	}

	c := &Controller{
		ctx:      ctx,
		searcher: searcher,
		topK:     opts.TopK,
		onState:  onState,
		logger:   opts.Logger.Named("session"),
	}
	c.debouncer = debounce.New(opts.Debounce, c.Submit)
	return c
}

// Input records the current contents of the search box. A search is
// submitted once the text has been stable for the debounce interval.
func (c *Controller) Input(q string) {
	c.debouncer.Observe(q)
}

// Submit searches for q immediately, superseding any request in flight. A
// blank query cancels the in-flight request and leaves the results as they
// are.
func (c *Controller) Submit(q string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if strings.TrimSpace(q) == "" {
		c.slot.Cancel()
		c.state.Query = q
		c.state.Loading = false
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.logger.Debug("blank query, search cancelled")
		c.onState(snap)
		return
	}

	tok := c.slot.Next(c.ctx)
	c.state.Query = q
	c.state.Loading = true
	c.state.Err = nil
	snap := c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug("search submitted", zap.String("query", q))
	c.onState(snap)

	go func() {
		defer c.wg.Done()
		resp, err := c.searcher.Search(tok.Context(), q, c.topK)
		c.resolve(tok, q, resp, err)
	}()
}

// resolve applies a finished request when its token is still current.
func (c *Controller) resolve(tok *cancel.Token, q string, resp types.SearchResponse, err error) {
	c.mu.Lock()
	if !c.slot.IsCurrent(tok) {
		c.mu.Unlock()
		c.logger.Debug("stale response discarded", zap.String("query", q))
		return
	}
	c.slot.Release(tok)

	switch httputil.Classify(err) {
	case httputil.OutcomeAbandoned:
		c.mu.Unlock()
		c.logger.Debug("search abandoned", zap.String("query", q))
		return
	case httputil.OutcomeFailed:
		c.state.Loading = false
		c.state.Err = err
		c.logger.Warn("search failed", zap.String("query", q), zap.Error(err))
	default:
		c.state.Loading = false
		c.state.Err = nil
		c.state.Results = resp.Results
		c.state.Searched = true
		c.logger.Debug("search completed", zap.String("query", q), zap.Int("results", len(resp.Results)))
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.onState(snap)
}

func (c *Controller) snapshotLocked() State {
	c.state.Seq++
	snap := c.state
	snap.Results = append([]types.SearchHit(nil), c.state.Results...)
	return snap
}

// State returns the current snapshot without publishing it.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.state
	snap.Results = append([]types.SearchHit(nil), c.state.Results...)
	return snap
}

// Close stops the debouncer, cancels the in-flight request and waits for
// request goroutines to return. Submit is a no-op afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.debouncer.Stop()
	c.slot.Cancel()
	c.wg.Wait()
}
