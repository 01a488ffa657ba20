// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the client configuration from a YAML file, the
// environment and an optional .env file, in that order of increasing
// precedence below command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/thesis-search/pkg/types"
)

// EnvPrefix is the prefix of every environment variable the client reads.
const EnvPrefix = "THESIS_SEARCH"

// Configuration keys.
const (
	KeyAPIBase       = "api_base"
	KeyUserAgent     = "user_agent"
	KeyRateLimit     = "rate_limit"
	KeySearchTimeout = "search.timeout"
	KeySearchRetries = "search.retries"
	KeySearchBackoff = "search.backoff"
	KeySearchTopK    = "search.top_k"
	KeyProbeTimeout  = "probe.timeout"
	KeyDebounce      = "session.debounce"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

// legacyBaseEnv is accepted as an alias of THESIS_SEARCH_API_BASE so a .env
// shared with the web frontend works unchanged.
const legacyBaseEnv = "VITE_API_BASE"

// Setup prepares v: defaults, environment binding and config file lookup.
// cfgFile, when non-empty, overrides the search for thesis-search.yaml in
// the working directory and ~/.config/thesis-search/.
func Setup(v *viper.Viper, cfgFile string) {
	v.SetDefault(KeyUserAgent, types.DefaultUserAgent)
	v.SetDefault(KeySearchTimeout, types.DefaultSearchTimeout)
	v.SetDefault(KeySearchRetries, types.DefaultSearchRetries)
	v.SetDefault(KeySearchBackoff, types.DefaultSearchBackoff)
	v.SetDefault(KeySearchTopK, types.DefaultTopK)
	v.SetDefault(KeyProbeTimeout, types.DefaultProbeTimeout)
	v.SetDefault(KeyDebounce, types.DefaultDebounce)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("thesis-search")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "thesis-search"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyAPIBase, EnvPrefix+"_API_BASE", legacyBaseEnv)
}

// ReadFile reads the configured file. A missing file is not an error; the
// returned path is empty in that case.
func ReadFile(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds a ClientConfig from v and applies defaults.
func Load(v *viper.Viper) (types.ClientConfig, error) {
	cfg := types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			APIBase:   strings.TrimSpace(v.GetString(KeyAPIBase)),
			UserAgent: v.GetString(KeyUserAgent),
			RateLimit: v.GetFloat64(KeyRateLimit),
		},
		Search: types.SearchConfig{
			Timeout: v.GetDuration(KeySearchTimeout),
			Retries: v.GetInt(KeySearchRetries),
			Backoff: v.GetDuration(KeySearchBackoff),
			TopK:    v.GetInt(KeySearchTopK),
		},
		Probe: types.ProbeConfig{
			Timeout: v.GetDuration(KeyProbeTimeout),
		},
		Session: types.SessionConfig{
			Debounce: v.GetDuration(KeyDebounce),
		},
		Log: types.LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}

	if cfg.RateLimit < 0 {
		return cfg, fmt.Errorf("%s must not be negative, got %v", KeyRateLimit, cfg.RateLimit)
	}
	if cfg.Search.Retries < 0 {
		return cfg, fmt.Errorf("%s must not be negative, got %d", KeySearchRetries, cfg.Search.Retries)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}
