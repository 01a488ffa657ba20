// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingBaseURL is returned by New when no base origin is configured.
	ErrMissingBaseURL = errors.New("API base URL is not configured: set api_base in the config file or THESIS_SEARCH_API_BASE")

	// ErrInvalidBaseURL is returned by New when the base origin is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("API base URL must be an absolute http(s) URL")

	// ErrAbandoned reports that the caller cancelled the request, usually
	// because a newer request superseded it. It is not a failure to surface.
	ErrAbandoned = errors.New("request abandoned")
)

// errAttemptTimeout is the cancellation cause of the per-attempt timer. It
// lets the client tell its own timeout apart from caller cancellation.
var errAttemptTimeout = errors.New("attempt timed out")

// Kind classifies a failed request.
type Kind string

const (
	KindStatus    Kind = "status"    // non-2xx response
	KindTimeout   Kind = "timeout"   // attempt timer fired
	KindNetwork   Kind = "network"   // transport-level failure
	KindMalformed Kind = "malformed" // 2xx body did not decode
	KindRequest   Kind = "request"   // request could not be built
)

// RequestError is the single failure type surfaced by the client. Error
// returns Message unchanged so it can be shown to the user as is.
type RequestError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// Outcome is the three-way result taxonomy used by presentation layers.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeAbandoned
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "failed"
	}
}

// canceler is implemented by transport errors that can report whether they
// stem from cancellation.
type canceler interface {
	Canceled() bool
}

// Classify maps err to an Outcome. Typed signals are checked first; keyword
// matching on the message is only used for opaque errors and must be backed
// by a cancellation marker, so a network failure that merely mentions
// "abort" is still reported as a failure.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, ErrAbandoned) {
		return OutcomeAbandoned
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return OutcomeFailed
	}
	if isCancellation(err) {
		return OutcomeAbandoned
	}
	return OutcomeFailed
}

// IsAbandoned reports whether err means the request was superseded or
// cancelled by its caller.
func IsAbandoned(err error) bool {
	return Classify(err) == OutcomeAbandoned
}

func isCancellation(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var c canceler
	if !errors.As(err, &c) || !c.Canceled() {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "abort") || strings.Contains(msg, "cancel")
}
