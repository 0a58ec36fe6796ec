// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/iwvelando/standings-forecast/pkg/constants"
	"github.com/iwvelando/standings-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for standings-forecast.
type Configuration struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server,omitempty" mapstructure:"server"`
	Standings StandingsConfig `yaml:"standings,omitempty" mapstructure:"standings"`
	Search    SearchConfig    `yaml:"search,omitempty" mapstructure:"search"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Address        string   `yaml:"address,omitempty" mapstructure:"address"`
	MaxBodySize    string   `yaml:"maxBodySize,omitempty" mapstructure:"maxBodySize"`
	RequestTimeout string   `yaml:"requestTimeout,omitempty" mapstructure:"requestTimeout"`
	RateLimit      float64  `yaml:"rateLimit,omitempty" mapstructure:"rateLimit"` // requests per second
	RateBurst      int      `yaml:"rateBurst,omitempty" mapstructure:"rateBurst"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" mapstructure:"allowedOrigins"`
	Version        string   `yaml:"version,omitempty" mapstructure:"version"`
}

// StandingsConfig selects where the points table is loaded from.
type StandingsConfig struct {
	Source   string         `yaml:"source,omitempty" mapstructure:"source"` // file, postgres, redis
	Path     string         `yaml:"path,omitempty" mapstructure:"path"`
	Postgres PostgresConfig `yaml:"postgres,omitempty" mapstructure:"postgres"`
	Redis    RedisConfig    `yaml:"redis,omitempty" mapstructure:"redis"`
}

// PostgresConfig holds the connection string for the postgres standings source.
type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// RedisConfig holds connection settings for the redis standings source.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" mapstructure:"addr"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`
	Prefix   string `yaml:"prefix,omitempty" mapstructure:"prefix"`
}

// SearchConfig bounds the candidate domains scanned per calculation.
type SearchConfig struct {
	BattingLowFraction float64 `yaml:"battingLowFraction,omitempty" mapstructure:"battingLowFraction"`
	ChaseLowFraction   float64 `yaml:"chaseLowFraction,omitempty" mapstructure:"chaseLowFraction"`
	ChaseHighFraction  float64 `yaml:"chaseHighFraction,omitempty" mapstructure:"chaseHighFraction"`
	MaxOvers           int     `yaml:"maxOvers,omitempty" mapstructure:"maxOvers"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file is not an error; defaults and
// environment overrides still apply.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can override it during Unmarshal.
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.requestTimeout", constants.DefaultRequestTimeout)
	v.SetDefault("server.rateLimit", constants.DefaultRateLimit)
	v.SetDefault("server.rateBurst", constants.DefaultRateBurst)
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("server.version", "dev")
	v.SetDefault("standings.source", constants.SourceFile)
	v.SetDefault("standings.path", constants.DefaultStandingsFile)
	v.SetDefault("standings.postgres.dsn", "")
	v.SetDefault("standings.redis.addr", "localhost:6379")
	v.SetDefault("standings.redis.password", "")
	v.SetDefault("standings.redis.db", 0)
	v.SetDefault("standings.redis.prefix", constants.DefaultRedisPrefix)
	v.SetDefault("search.battingLowFraction", constants.DefaultBattingLowFraction)
	v.SetDefault("search.chaseLowFraction", constants.DefaultChaseLowFraction)
	v.SetDefault("search.chaseHighFraction", constants.DefaultChaseHighFraction)
	v.SetDefault("search.maxOvers", constants.DefaultMaxOvers)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// RequestTimeoutDuration parses Server.RequestTimeout.
func (c *Configuration) RequestTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.Server.RequestTimeout))
	if err != nil {
		return 0, fmt.Errorf("invalid server.requestTimeout %q: %w", c.Server.RequestTimeout, err)
	}
	return d, nil
}

// Validate returns an error for values the application cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateSource(c.Standings.Source); err != nil {
		return err
	}

	switch c.Standings.Source {
	case constants.SourceFile:
		if strings.TrimSpace(c.Standings.Path) == "" {
			return fmt.Errorf("standings.path is required for the %s source", constants.SourceFile)
		}
	case constants.SourcePostgres:
		if strings.TrimSpace(c.Standings.Postgres.DSN) == "" {
			return fmt.Errorf("standings.postgres.dsn is required for the %s source", constants.SourcePostgres)
		}
	case constants.SourceRedis:
		if strings.TrimSpace(c.Standings.Redis.Addr) == "" {
			return fmt.Errorf("standings.redis.addr is required for the %s source", constants.SourceRedis)
		}
	}

	d, err := c.RequestTimeoutDuration()
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("server.requestTimeout must be positive, got %s", d)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rateLimit cannot be negative, got %v", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("server.rateBurst must be at least 1 when rate limiting, got %d", c.Server.RateBurst)
	}

	if err := validation.ValidateFraction("search.battingLowFraction", c.Search.BattingLowFraction); err != nil {
		return err
	}
	if err := validation.ValidateFraction("search.chaseLowFraction", c.Search.ChaseLowFraction); err != nil {
		return err
	}
	if err := validation.ValidateFraction("search.chaseHighFraction", c.Search.ChaseHighFraction); err != nil {
		return err
	}
	if c.Search.ChaseLowFraction > c.Search.ChaseHighFraction {
		return fmt.Errorf("search.chaseLowFraction %v exceeds search.chaseHighFraction %v",
			c.Search.ChaseLowFraction, c.Search.ChaseHighFraction)
	}
	if c.Search.MaxOvers < 1 {
		return fmt.Errorf("search.maxOvers must be at least 1, got %d", c.Search.MaxOvers)
	}
	return nil
}

// Warnings reports settings that are valid but probably unintended.
func (c *Configuration) Warnings() []string {
	var warnings []string

	if c.Server.RateLimit == 0 {
		warnings = append(warnings, "server.rateLimit is 0 - calculation requests are not rate limited")
	}
	if c.Search.BattingLowFraction == 0 {
		warnings = append(warnings, "search.battingLowFraction is 0 - every opponent total down to 0 runs is scanned")
	}
	if c.Search.ChaseHighFraction == 1 {
		warnings = append(warnings, "search.chaseHighFraction is 1 - chases using the final ball are scanned")
	}
	if c.Search.MaxOvers > constants.DefaultMaxOvers {
		warnings = append(warnings, fmt.Sprintf("search.maxOvers %d exceeds the longest format (%d overs)",
			c.Search.MaxOvers, constants.DefaultMaxOvers))
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			warnings = append(warnings, "server.allowedOrigins contains '*' - any origin may call the API")
			break
		}
	}
	if c.Standings.Source == constants.SourceRedis && c.Standings.Redis.Password == "" {
		warnings = append(warnings, "standings.redis.password is empty")
	}

	return warnings
}
