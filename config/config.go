// Package config loads and validates the gfdata service configuration.
//
// Configuration is resolved with Viper in precedence order:
// environment variables (GFDATA_ prefix) > project config file > defaults.
package config

// Config represents the gfdata service configuration
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	Staging  StagingConfig     `mapstructure:"staging"`
	Fetch    FetchConfig       `mapstructure:"fetch"`
	Refresh  RefreshConfig     `mapstructure:"refresh"`
	Datasets map[string]string `mapstructure:"datasets"` // dataset key -> source URL
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	APIKeys        []string `mapstructure:"api_keys"` // Authorization header must match one of these
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig configures the SQLite dataset store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StagingConfig configures the staging directory for raw downloads
// and the metadata record
type StagingConfig struct {
	Dir string `mapstructure:"dir"`
}

// FetchConfig configures outbound HTTP to the remote data service
type FetchConfig struct {
	TimeoutSeconds    int `mapstructure:"timeout_seconds"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"` // 0 = unlimited
}

// RefreshConfig configures the periodic refresh ticker
type RefreshConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"` // 0 = manual refresh only
}

// Server constants
const (
	DefaultServerPort = 8080

	// DefaultFilePermissions is used for staged files and the metadata record
	DefaultFilePermissions = 0644
	// DefaultDirPermissions is used when creating the staging directory
	DefaultDirPermissions = 0755
)
