// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records request outcomes and retries. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "thesis_search_requests_total",
				Help: "Logical requests by final outcome (success, abandoned, failed).",
			},
			[]string{"method", "path", "outcome"},
		),
		retries: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "thesis_search_retries_total",
				Help: "Retry attempts by reason.",
			},
			[]string{"path", "reason"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "thesis_search_request_duration_seconds",
				Help:    "Wall time of logical requests including retries and backoff.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (m *Metrics) observe(method, path string, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, outcome.String()).Inc()
	m.duration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) retry(path, reason string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(path, reason).Inc()
}
