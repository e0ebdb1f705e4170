// Package config provides staticd configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (STATICD_* — runtime override)
//  2. Config file (staticd.yaml in the working directory or /etc/staticd)
//  3. Default values (sensible defaults for container use)
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidListenAddr indicates the listen address is malformed.
	ErrInvalidListenAddr = errors.New("invalid listen address")

	// ErrMissingRoot indicates the asset root is not configured.
	ErrMissingRoot = errors.New("missing asset root")

	// ErrInvalidIndexName indicates the index filename is invalid.
	ErrInvalidIndexName = errors.New("invalid index filename")

	// ErrInvalidRateLimit indicates the rate limit values are out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidCacheMaxAge indicates the cache max-age is negative.
	ErrInvalidCacheMaxAge = errors.New("invalid cache max-age")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Defaults for container deployments. The health check in the image
// probes GET / on this port.
const (
	// DefaultListenAddr is the default listen address.
	DefaultListenAddr = ":8080"

	// DefaultRoot is the default asset root, matching the directory the
	// site generator stage writes into the runtime image.
	DefaultRoot = "public"

	// DefaultIndexFile is the filename served for directory requests.
	DefaultIndexFile = "index.html"

	// DefaultRateBurst is the per-IP token bucket size when rate
	// limiting is enabled.
	DefaultRateBurst = 60
)

// Config stores staticd configuration.
type Config struct {
	// Network configuration
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"` // host:port, e.g. ":8080"

	// Asset configuration
	Root      string `mapstructure:"root" json:"root"`             // directory of pre-built site files
	IndexFile string `mapstructure:"index_file" json:"index_file"` // served for directory paths

	// Response configuration
	CacheMaxAge int `mapstructure:"cache_max_age" json:"cache_max_age"` // Cache-Control max-age in seconds, 0 disables

	// Rate limiting (0 rps disables the limiter entirely)
	RateRPS    float64 `mapstructure:"rate_rps" json:"rate_rps"`       // tokens refilled per second, per IP
	RateBurst  int     `mapstructure:"rate_burst" json:"rate_burst"`   // bucket size per IP
	TrustProxy bool    `mapstructure:"trust_proxy" json:"trust_proxy"` // trust X-Real-IP/X-Forwarded-For (behind reverse proxy)

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"` // debug, info, warn, error
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`   // JSON log output
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("staticd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/staticd")

	setDefaults(v)

	// STATICD_LISTEN_ADDR, STATICD_ROOT, STATICD_RATE_RPS, ...
	v.SetEnvPrefix("STATICD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read configuration file (if exists)
	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{".", "/etc/staticd"},
			"config_name", "staticd.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("index_file", DefaultIndexFile)

	// One year is conventional for fingerprinted generator output; default
	// to no caching so un-fingerprinted blogs see edits immediately.
	v.SetDefault("cache_max_age", 0)

	// Rate limiting off by default: the usual deployment sits behind a
	// reverse proxy that already does this.
	v.SetDefault("rate_rps", 0)
	v.SetDefault("rate_burst", DefaultRateBurst)
	v.SetDefault("trust_proxy", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}
