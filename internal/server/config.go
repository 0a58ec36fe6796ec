package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/pkg/constants"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string
	MaxBodySize    string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
	Version        string
	maxBodyBytes   int64
}

// NewConfig converts the loaded server section into runtime parameters,
// filling defaults for anything left empty.
func NewConfig(sc config.ServerConfig) (*Config, error) {
	cfg := &Config{
		Address:        sc.Address,
		MaxBodySize:    sc.MaxBodySize,
		RateLimit:      sc.RateLimit,
		RateBurst:      sc.RateBurst,
		AllowedOrigins: sc.AllowedOrigins,
		Version:        strings.TrimSpace(sc.Version),
	}

	timeout := strings.TrimSpace(sc.RequestTimeout)
	if timeout == "" {
		timeout = constants.DefaultRequestTimeout
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout %q: %w", sc.RequestTimeout, err)
	}
	cfg.RequestTimeout = d

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MaxBodyBytes returns the configured request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

// SetMaxBodyBytes overrides the configured request body limit.
func (c *Config) SetMaxBodyBytes(size int64) {
	if size > 0 {
		c.maxBodyBytes = size
		c.MaxBodySize = strconv.FormatInt(size, 10)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout, _ = time.ParseDuration(constants.DefaultRequestTimeout)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		c.RateBurst = constants.DefaultRateBurst
	}

	size, err := ParseSize(c.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.maxBodyBytes = size
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "16K", "1M") into bytes.
// An empty string yields the default body limit.
func ParseSize(value string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 || (multiplier > 1 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
