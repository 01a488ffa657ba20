// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package debounce delays a rapidly changing value until it has been stable
// for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer derives a stable value from a stream of observations. The stable
// value only changes after the observed value has held for the configured
// delay; emit is called once per change of the stable value, on the timer's
// goroutine.
type Debouncer[T comparable] struct {
	delay time.Duration
	emit  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending T
	stable  T
	stopped bool
}

// New returns a Debouncer that waits delay after the last observation before
// calling emit. A non-positive delay emits on the next scheduler tick.
func New[T comparable](delay time.Duration, emit func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay, emit: emit}
}

// Observe records v and restarts the delay timer.
func (d *Debouncer[T]) Observe(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire promotes the pending value when no newer observation arrived since
// the timer was armed. Timers that already started running when Stop or
// Observe tried to stop them are filtered by the generation check.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if d.pending == d.stable {
		d.mu.Unlock()
		return
	}
	d.stable = d.pending
	v := d.stable
	d.mu.Unlock()

	if d.emit != nil {
		d.emit(v)
	}
}

// Value returns the current stable value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stable
}

// Stop cancels any pending emission. Observations after Stop are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
