// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cancel provides cancellation tokens for in-flight requests and the
// slot that keeps at most one live token per logical request source (for
// example, one search box).
package cancel

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is the cause recorded when a token is cancelled because a
// newer request replaced it.
var ErrSuperseded = errors.New("superseded by a newer request")

// Token represents one logical in-flight operation. It can be cancelled
// explicitly and observed through Done, Cancelled or its Context, which is
// what the request client consumes.
type Token struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewToken returns a live token derived from parent. Cancelling parent also
// cancels the token.
func NewToken(parent context.Context) *Token {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel requests cancellation. It is safe to call more than once.
func (t *Token) Cancel() {
	t.cancel(ErrSuperseded)
}

// Cancelled reports whether the token has been cancelled, either directly
// or through its parent.
func (t *Token) Cancelled() bool {
	return t.ctx.Err() != nil
}

// Done is closed once the token is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Err returns the cancellation cause, or nil while the token is live.
func (t *Token) Err() error {
	if t.ctx.Err() == nil {
		return nil
	}
	return context.Cause(t.ctx)
}

// Context exposes the token as a context.Context for blocking calls.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Slot holds the current token for one logical request source. Replacing
// the token cancels the previous one under the slot's lock, so two
// concurrent replacements can never leave two live tokens behind.
type Slot struct {
	mu      sync.Mutex
	current *Token
}

// Next cancels the slot's current token, if any, and installs a fresh token
// derived from parent.
func (s *Slot) Next(parent context.Context) *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
	}
	s.current = NewToken(parent)
	return s.current
}

// IsCurrent reports whether t is the slot's live token.
func (s *Slot) IsCurrent(t *Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t != nil && s.current == t
}

// Release clears the slot when t is still its current token and releases
// the token's resources. Releasing a stale token is a no-op.
func (s *Slot) Release(t *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != nil && s.current == t {
		s.current = nil
		t.Cancel()
	}
}

// Cancel cancels the current token and empties the slot.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
}
