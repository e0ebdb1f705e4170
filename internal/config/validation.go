package config

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if err := validateAddr(c.ListenAddr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidListenAddr, err)
	}

	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("%w: root cannot be empty", ErrMissingRoot)
	}

	// The index name joins onto request paths, so it must be a bare
	// filename with no separators or traversal.
	switch {
	case c.IndexFile == "", c.IndexFile == ".", c.IndexFile == "..":
		return fmt.Errorf("%w: got %q", ErrInvalidIndexName, c.IndexFile)
	case strings.ContainsAny(c.IndexFile, `/\`):
		return fmt.Errorf("%w: must be a bare filename, got %q", ErrInvalidIndexName, c.IndexFile)
	}

	if c.RateRPS < 0 {
		return fmt.Errorf("%w: rate_rps must be >= 0, got %g", ErrInvalidRateLimit, c.RateRPS)
	}
	if c.RateRPS > 0 && c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be >= 1 when rate_rps is set, got %d",
			ErrInvalidRateLimit, c.RateBurst)
	}

	if c.CacheMaxAge < 0 {
		return fmt.Errorf("%w: must be >= 0, got %d", ErrInvalidCacheMaxAge, c.CacheMaxAge)
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("%w: must be one of %v, got %q", ErrInvalidLogLevel, validLogLevels, c.LogLevel)
	}

	return nil
}

// validateAddr validates a host:port listen address.
func validateAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("must be in host:port format: %w", err)
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			if strings.ContainsAny(host, " \t\n") {
				return fmt.Errorf("invalid host: %s", host)
			}
		}
	}

	if port == "" {
		return fmt.Errorf("port is required")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port must be numeric: %w", err)
	}
	if portNum < 0 || portNum > 65535 {
		return fmt.Errorf("port must be 0-65535 (0 = auto-assign), got %d", portNum)
	}

	return nil
}
