// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/pkg/types"
)

// reply is what a scripted search returns once released.
type reply struct {
	resp types.SearchResponse
	err  error
}

// scriptedSearcher blocks each search until the test releases it, so tests
// control the order in which responses arrive.
type scriptedSearcher struct {
	mu      sync.Mutex
	calls   []string
	pending map[string]chan reply
	started chan string

	// ignoreCancel makes searches wait for their reply even after their
	// context is cancelled, like a server that answers anyway.
	ignoreCancel bool
}

func newScriptedSearcher() *scriptedSearcher {
	return &scriptedSearcher{
		pending: make(map[string]chan reply),
		started: make(chan string, 16),
	}
}

func (s *scriptedSearcher) gate(q string) chan reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.pending[q]
	if !ok {
		ch = make(chan reply, 1)
		s.pending[q] = ch
	}
	return ch
}

func (s *scriptedSearcher) Search(ctx context.Context, q string, topK int) (types.SearchResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	s.mu.Unlock()
	s.started <- q

	if s.ignoreCancel {
		r := <-s.gate(q)
		return r.resp, r.err
	}
	select {
	case r := <-s.gate(q):
		return r.resp, r.err
	case <-ctx.Done():
		return types.SearchResponse{}, httputil.ErrAbandoned
	}
}

// release answers q even if its context was cancelled.
func (s *scriptedSearcher) release(q string, r reply) {
	s.gate(q) <- r
}

func (s *scriptedSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// recorder keeps the published state with the highest Seq.
type recorder struct {
	mu     sync.Mutex
	last   State
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
	if s.Seq > r.last.Seq {
		r.last = s
	}
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) latest() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func hits(titles ...string) types.SearchResponse {
	var resp types.SearchResponse
	for i, t := range titles {
		resp.Results = append(resp.Results, types.SearchHit{Score: 1 - float64(i)/10, Title: t})
	}
	return resp
}

func waitStarted(t *testing.T, s *scriptedSearcher, want string) {
	t.Helper()
	select {
	case got := <-s.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("search %q never started", want)
	}
}

func TestSubmitSuccess(t *testing.T) {
	s := newScriptedSearcher()
	rec := &recorder{}
	c := New(context.Background(), s, Options{Debounce: 10 * time.Millisecond}, rec.record)
	defer c.Close()

	c.Submit("suelos")
	waitStarted(t, s, "suelos")
	assert.True(t, rec.latest().Loading)

	s.release("suelos", reply{resp: hits("Suelos salinos", "Riego")})

	require.Eventually(t, func() bool { return !rec.latest().Loading }, time.Second, 5*time.Millisecond)
	st := rec.latest()
	assert.NoError(t, st.Err)
	assert.True(t, st.Searched)
	require.Len(t, st.Results, 2)
	assert.Equal(t, "Suelos salinos", st.Results[0].Title)
	assert.Equal(t, "Riego", st.Results[1].Title)
}

func TestStaleResponseNeverOverwritesNewer(t *testing.T) {
	s := newScriptedSearcher()
	s.ignoreCancel = true
	rec := &recorder{}
	c := New(context.Background(), s, Options{}, rec.record)
	defer c.Close()

	c.Submit("old")
	waitStarted(t, s, "old")
	c.Submit("new")
	waitStarted(t, s, "new")

	s.release("new", reply{resp: hits("Newer")})
	require.Eventually(t, func() bool { return !rec.latest().Loading }, time.Second, 5*time.Millisecond)

	// The superseded search answers late with a success of its own.
	seq := rec.latest().Seq
	s.release("old", reply{resp: hits("Older")})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, seq, rec.latest().Seq)

	st := c.State()
	require.Len(t, st.Results, 1)
	assert.Equal(t, "Newer", st.Results[0].Title)
	assert.Equal(t, "new", st.Query)
}

func TestAbandonedRequestLeavesNoError(t *testing.T) {
	s := newScriptedSearcher()
	rec := &recorder{}
	c := New(context.Background(), s, Options{}, rec.record)
	defer c.Close()

	c.Submit("first")
	waitStarted(t, s, "first")
	c.Submit("second")
	waitStarted(t, s, "second")
	s.release("second", reply{resp: hits("Second")})

	require.Eventually(t, func() bool { return !rec.latest().Loading }, time.Second, 5*time.Millisecond)
	for _, st := range rec.all() {
		assert.NoError(t, st.Err, "state %d carries an error", st.Seq)
	}
}

func TestFailedSearchSetsError(t *testing.T) {
	s := newScriptedSearcher()
	rec := &recorder{}
	c := New(context.Background(), s, Options{}, rec.record)
	defer c.Close()

	c.Submit("suelos")
	waitStarted(t, s, "suelos")
	s.release("suelos", reply{resp: hits("Kept")})
	require.Eventually(t, func() bool { return rec.latest().Searched }, time.Second, 5*time.Millisecond)

	c.Submit("x")
	waitStarted(t, s, "x")
	s.release("x", reply{err: &httputil.RequestError{Kind: httputil.KindStatus, Status: 422, Message: "q is required"}})

	require.Eventually(t, func() bool { return rec.latest().Err != nil }, time.Second, 5*time.Millisecond)
	st := rec.latest()
	assert.False(t, st.Loading)
	assert.EqualError(t, st.Err, "q is required")
	require.Len(t, st.Results, 1)
	assert.Equal(t, "Kept", st.Results[0].Title)
}

func TestBlankQueryCancelsAndKeepsResults(t *testing.T) {
	s := newScriptedSearcher()
	rec := &recorder{}
	c := New(context.Background(), s, Options{}, rec.record)
	defer c.Close()

	c.Submit("suelos")
	waitStarted(t, s, "suelos")
	s.release("suelos", reply{resp: hits("Kept")})
	require.Eventually(t, func() bool { return rec.latest().Searched }, time.Second, 5*time.Millisecond)

	c.Submit("riego")
	waitStarted(t, s, "riego")
	c.Submit("   ")

	st := rec.latest()
	assert.False(t, st.Loading)
	assert.Equal(t, "   ", st.Query)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "Kept", st.Results[0].Title)
	assert.Equal(t, 2, s.callCount())
}

func TestInputIsDebounced(t *testing.T) {
	s := newScriptedSearcher()
	rec := &recorder{}
	c := New(context.Background(), s, Options{Debounce: 30 * time.Millisecond}, rec.record)
	defer c.Close()

	for _, q := range []string{"m", "ma", "mac", "machine learning"} {
		c.Input(q)
		time.Sleep(5 * time.Millisecond)
	}
	waitStarted(t, s, "machine learning")
	s.release("machine learning", reply{resp: hits("ML")})

	require.Eventually(t, func() bool { return rec.latest().Searched }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.callCount())
}

func TestCloseCancelsInFlight(t *testing.T) {
	s := newScriptedSearcher()
	rec := &recorder{}
	c := New(context.Background(), s, Options{}, rec.record)

	c.Submit("suelos")
	waitStarted(t, s, "suelos")

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	c.Submit("after close")
	assert.Equal(t, 1, s.callCount())
	assert.NoError(t, rec.latest().Err)
}
