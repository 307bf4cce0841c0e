package db

import "time"

// Config holds PostgreSQL pool settings. The zero value of every duration
// and count is replaced by DefaultConfig's value in Connect.
type Config struct {
	URL               string        `yaml:"url"`
	HealthCheckPeriod time.Duration `yaml:"healthcheck_period"`
	MaxConnIdleTime   time.Duration `yaml:"max_conn_idle_time"`
	MaxConnLifetime   time.Duration `yaml:"max_conn_lifetime"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	RetryAttempts     int           `yaml:"retry_attempts"`
	MaxConns          int32         `yaml:"max_conns"`
	MinConns          int32         `yaml:"min_conns"`
}

// DefaultConfig returns the settings used for the lingua stores.
// Serialization reads are short, so the pool stays small.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		HealthCheckPeriod: time.Minute,
		MaxConnIdleTime:   10 * time.Minute,
		MaxConnLifetime:   30 * time.Minute,
		RetryInterval:     2 * time.Second,
		RetryAttempts:     3,
		MaxConns:          8,
		MinConns:          1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig(c.URL)
	if c.HealthCheckPeriod > 0 {
		d.HealthCheckPeriod = c.HealthCheckPeriod
	}
	if c.MaxConnIdleTime > 0 {
		d.MaxConnIdleTime = c.MaxConnIdleTime
	}
	if c.MaxConnLifetime > 0 {
		d.MaxConnLifetime = c.MaxConnLifetime
	}
	if c.RetryInterval > 0 {
		d.RetryInterval = c.RetryInterval
	}
	if c.RetryAttempts > 0 {
		d.RetryAttempts = c.RetryAttempts
	}
	if c.MaxConns > 0 {
		d.MaxConns = c.MaxConns
	}
	if c.MinConns > 0 {
		d.MinConns = c.MinConns
	}
	return d
}
