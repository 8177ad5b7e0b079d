package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/zimmerman-dev/gfdata/errors"
)

// fileConfig mirrors Config with toml tags for writing a starter file.
// Viper reads files through mapstructure tags, go-toml writes through these.
type fileConfig struct {
	Server struct {
		Port           int      `toml:"port"`
		APIKeys        []string `toml:"api_keys"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"server"`
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
	Staging struct {
		Dir string `toml:"dir"`
	} `toml:"staging"`
	Fetch struct {
		TimeoutSeconds    int `toml:"timeout_seconds"`
		RequestsPerMinute int `toml:"requests_per_minute"`
	} `toml:"fetch"`
	Refresh struct {
		IntervalSeconds int `toml:"interval_seconds"`
	} `toml:"refresh"`
	Datasets map[string]string `toml:"datasets"`
}

func toFileConfig(c *Config) *fileConfig {
	var f fileConfig
	f.Server.Port = c.Server.Port
	f.Server.APIKeys = c.Server.APIKeys
	f.Server.AllowedOrigins = c.Server.AllowedOrigins
	f.Database.Path = c.Database.Path
	f.Staging.Dir = c.Staging.Dir
	f.Fetch.TimeoutSeconds = c.Fetch.TimeoutSeconds
	f.Fetch.RequestsPerMinute = c.Fetch.RequestsPerMinute
	f.Refresh.IntervalSeconds = c.Refresh.IntervalSeconds
	f.Datasets = c.Datasets
	return &f
}

// WriteFile serializes the configuration to a TOML file at path.
// Refuses to overwrite an existing file.
func WriteFile(c *Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file %s already exists", path)
	}

	data, err := toml.Marshal(toFileConfig(c))
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// Render returns the configuration as TOML text, for `gfdata config show`.
func Render(c *Config) (string, error) {
	data, err := toml.Marshal(toFileConfig(c))
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config")
	}
	return string(data), nil
}

// Default returns the built-in default configuration.
func Default() *Config {
	v := newDefaultViper()
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		// Defaults are static; failing to unmarshal them is a programming error
		panic(err)
	}
	return &config
}
