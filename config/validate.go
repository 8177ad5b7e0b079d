package config

import (
	"net/url"

	"github.com/zimmerman-dev/gfdata/errors"
)

// Validate checks configuration invariants before the service starts.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port %d out of range", c.Server.Port)
	}
	if len(c.Server.APIKeys) == 0 {
		return errors.New("server.api_keys must not be empty")
	}
	for _, key := range c.Server.APIKeys {
		if key == "" {
			return errors.New("server.api_keys must not contain empty keys")
		}
	}

	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	if c.Staging.Dir == "" {
		return errors.New("staging.dir must not be empty")
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.Newf("fetch.timeout_seconds must be positive, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.RequestsPerMinute < 0 {
		return errors.Newf("fetch.requests_per_minute must not be negative, got %d", c.Fetch.RequestsPerMinute)
	}
	if c.Refresh.IntervalSeconds < 0 {
		return errors.Newf("refresh.interval_seconds must not be negative, got %d", c.Refresh.IntervalSeconds)
	}

	if len(c.Datasets) == 0 {
		return errors.New("datasets table must not be empty")
	}
	for key, raw := range c.Datasets {
		if key == "" {
			return errors.New("datasets table must not contain an empty key")
		}
		u, err := url.Parse(raw)
		if err != nil {
			return errors.Wrapf(err, "datasets.%s: invalid URL", key)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.Newf("datasets.%s: URL scheme %q not allowed", key, u.Scheme)
		}
	}

	return nil
}
