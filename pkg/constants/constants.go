// Package constants provides shared constants for the standings-forecast application.
package constants

// Cricket constants
const (
	// BallsPerOver is the number of legal deliveries in an over
	BallsPerOver = 6

	// PointsPerWin is the number of standings points awarded for a win
	PointsPerWin = 2
)

// Search window defaults
const (
	// DefaultBattingLowFraction is the share of the batting side's score used as the
	// lowest opponent total considered when batting first
	DefaultBattingLowFraction = 0.4

	// DefaultChaseLowFraction is the share of the full ball quota used as the
	// quickest chase considered when bowling first
	DefaultChaseLowFraction = 0.6

	// DefaultChaseHighFraction is the share of the full ball quota used as the
	// slowest chase considered when bowling first
	DefaultChaseHighFraction = 0.95

	// DefaultMaxOvers caps the overs per innings accepted by the search engine
	DefaultMaxOvers = 50
)

// Display precision
const (
	// TableNRRDecimals is the number of decimals used for NRR in the standings table
	TableNRRDecimals = 3

	// ResultNRRDecimals is the number of decimals used for NRR in result text
	ResultNRRDecimals = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultStandingsFile is the default static standings seed
	DefaultStandingsFile = "data/points_table.json"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "STANDINGS"
)

// Standings source types
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":3000"

	// DefaultMaxBodySizeBytes is the default maximum request body size (16 KB)
	DefaultMaxBodySizeBytes int64 = 16 * 1024

	// DefaultRequestTimeout is the default per-request timeout
	DefaultRequestTimeout = "5s"

	// DefaultRateLimit is the default sustained calculation rate (requests per second)
	DefaultRateLimit = 20.0

	// DefaultRateBurst is the default calculation burst size
	DefaultRateBurst = 40

	// DefaultRedisPrefix is the default key prefix for the Redis standings source
	DefaultRedisPrefix = "standings"

	// ServiceName identifies the service in health checks and logs
	ServiceName = "standings-forecast"
)
