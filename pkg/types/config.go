// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultSearchTimeout = 15 * time.Second
	DefaultSearchRetries = 2
	DefaultSearchBackoff = 500 * time.Millisecond
	DefaultTopK          = 10
	DefaultProbeTimeout  = 5 * time.Second
	DefaultDebounce      = 200 * time.Millisecond
	DefaultUserAgent     = "thesis-search/dev"
)

// HTTPConfig holds shared HTTP settings for every request the client makes.
type HTTPConfig struct {
	// APIBase is the origin of the search service (e.g. "https://api.unesumrepo.com").
	// Required; the client refuses to start without it.
	APIBase string `json:"api_base" yaml:"api_base"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RateLimit caps outgoing requests per second. Zero disables the limiter.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// SearchConfig holds settings for POST /search.
type SearchConfig struct {
	// Timeout bounds a single attempt (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Retries is the number of extra attempts on transient failures (default 2).
	Retries int `json:"retries" yaml:"retries"`

	// Backoff is the base delay; attempt n waits Backoff*n (default 500ms).
	Backoff time.Duration `json:"backoff" yaml:"backoff"`

	// TopK is the number of results requested (default 10, clamped to [1,50]).
	TopK int `json:"top_k" yaml:"top_k"`
}

// ProbeConfig holds settings for the /healthz and /ready probes.
type ProbeConfig struct {
	// Timeout bounds each probe (default 5s). Probes are never retried.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SessionConfig holds settings for interactive search sessions.
type SessionConfig struct {
	// Debounce is how long the query must stay unchanged before a search
	// is issued (default 200ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format"`
}

// ClientConfig groups every setting of the thesis-search client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Search  SearchConfig  `json:"search" yaml:"search"`
	Probe   ProbeConfig   `json:"probe" yaml:"probe"`
	Session SessionConfig `json:"session" yaml:"session"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// ApplyDefaults fills unset fields with their default values. Retries is
// left alone because zero is a meaningful setting; callers that want the
// default must leave the key unset in viper.
func (c *ClientConfig) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = DefaultSearchTimeout
	}
	if c.Search.Retries < 0 {
		c.Search.Retries = 0
	}
	if c.Search.Backoff <= 0 {
		c.Search.Backoff = DefaultSearchBackoff
	}
	if c.Search.TopK == 0 {
		c.Search.TopK = DefaultTopK
	}
	if c.Probe.Timeout <= 0 {
		c.Probe.Timeout = DefaultProbeTimeout
	}
	if c.Session.Debounce <= 0 {
		c.Session.Debounce = DefaultDebounce
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
