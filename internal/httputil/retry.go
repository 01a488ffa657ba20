// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"time"
)

// transientStatus lists the HTTP statuses worth retrying: rate limiting and
// temporary gateway or upstream unavailability.
var transientStatus = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// IsTransientStatus reports whether a response with this status is retried.
func IsTransientStatus(code int) bool {
	return transientStatus[code]
}

// Backoff returns the delay before retry number attempt (1-based). The delay
// grows linearly: base, 2*base, 3*base, ...
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt <= 0 {
		return 0
	}
	return base * time.Duration(attempt)
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withAttemptTimeout merges the caller's context with a local timer of
// length timeout. The returned release func stops the timer; it must be
// called once the attempt ends, whichever signal fired.
func withAttemptTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeoutCause(ctx, timeout, errAttemptTimeout)
}
