package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the bioquery service configuration, one YAML file per environment.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Query    QueryConfig    `yaml:"query"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // overrides the environment default when set
}

// AuthConfig lists the bearer tokens accepted by the HTTP API. Empty disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Addr is the listen address.
func (h HTTPConfig) Addr() string { return fmt.Sprintf(":%d", h.Port) }

func (h HTTPConfig) ReadTimeout() time.Duration     { return seconds(h.ReadTimeoutSec) }
func (h HTTPConfig) WriteTimeout() time.Duration    { return seconds(h.WriteTimeoutSec) }
func (h HTTPConfig) ShutdownTimeout() time.Duration { return seconds(h.ShutdownSec) }

// DatabaseConfig points at a Redis 8 deployment with JSON and the query engine.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Readiness is how long startup waits for the store to answer.
func (d DatabaseConfig) Readiness() time.Duration { return seconds(d.ReadinessTimeout) }

// QueryConfig bounds query execution.
type QueryConfig struct {
	BatchSize          int `yaml:"batch_size"` // documents per search round trip
	DefaultMaxDistance int `yaml:"default_max_distance"`
	MaxDistance        int `yaml:"max_distance"`
	Concurrency        int `yaml:"concurrency"` // references resolved in parallel by batch equivalence
	DefaultPageSize    int `yaml:"default_page_size"`
	MaxPageSize        int `yaml:"max_page_size"`
}

// CacheConfig controls the lineage cache kept next to the documents.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration { return seconds(c.TTLSec) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// defaults lists every numeric setting with its fallback for non-positive values.
func (c *Config) defaults() []struct {
	field *int
	value int
} {
	return []struct {
		field *int
		value int
	}{
		{&c.HTTP.ReadTimeoutSec, 10},
		{&c.HTTP.WriteTimeoutSec, 30},
		{&c.HTTP.ShutdownSec, 10},
		{&c.Database.ReadinessTimeout, 10},
		{&c.Query.BatchSize, 500},
		{&c.Query.DefaultMaxDistance, 3},
		{&c.Query.MaxDistance, 40},
		{&c.Query.Concurrency, 4},
		{&c.Query.DefaultPageSize, 10},
		{&c.Query.MaxPageSize, 1000},
		{&c.Cache.TTLSec, 3600},
	}
}

// ApplyDefaults fills non-positive numeric settings.
func (c *Config) ApplyDefaults() {
	for _, d := range c.defaults() {
		if *d.field <= 0 {
			*d.field = d.value
		}
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if len(c.Database.Addrs) == 0 {
		errs = append(errs, errors.New("database.addrs is required"))
	}
	if c.Database.DB < 0 {
		errs = append(errs, fmt.Errorf("database.db must not be negative, got %d", c.Database.DB))
	}
	if c.Query.DefaultMaxDistance > c.Query.MaxDistance {
		errs = append(errs, fmt.Errorf("query.default_max_distance (%d) exceeds query.max_distance (%d)",
			c.Query.DefaultMaxDistance, c.Query.MaxDistance))
	}
	if c.Query.DefaultPageSize > c.Query.MaxPageSize {
		errs = append(errs, fmt.Errorf("query.default_page_size (%d) exceeds query.max_page_size (%d)",
			c.Query.DefaultPageSize, c.Query.MaxPageSize))
	}
	for i, key := range c.Auth.APIKeys {
		if key == "" {
			errs = append(errs, fmt.Errorf("auth.api_keys[%d] is empty", i))
		}
	}
	return errors.Join(errs...)
}
