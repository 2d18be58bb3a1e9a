package connector

import (
	"fmt"
	"time"
)

// Config represents database connection configuration.
type Config struct {
	// URL is a complete connection string. When set it takes precedence over
	// the discrete fields below.
	URL            string            `koanf:"url"`
	Driver         string            `koanf:"driver" validate:"omitempty,oneof=pgx postgres"`
	Host           string            `koanf:"host" validate:"required_without=URL"`
	Port           int               `koanf:"port" validate:"omitempty,min=1,max=65535"`
	Database       string            `koanf:"name" validate:"required_without=URL"`
	Username       string            `koanf:"user"`
	Password       string            `koanf:"password"`
	SSLMode        string            `koanf:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Params         map[string]string `koanf:"params"`
	Pool           PoolConfig        `koanf:"pool"`
	ConnectTimeout time.Duration     `koanf:"connect_timeout"`
	Retry          *RetryConfig      `koanf:"retry"`
	// Trace logs every statement pgx sends, through the pgx-zerolog bridge.
	Trace bool `koanf:"trace"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen         int           `koanf:"max_open" validate:"min=0"`
	MaxIdle         int           `koanf:"max_idle" validate:"min=0"`
	MaxLifetime     time.Duration `koanf:"max_lifetime"`
	MaxIdleTime     time.Duration `koanf:"max_idle_time"`
	HealthCheckFreq time.Duration `koanf:"health_check_freq"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `koanf:"max_retries" validate:"min=0"`
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxDelay   time.Duration `koanf:"max_delay"`
	Backoff    float64       `koanf:"backoff" validate:"omitempty,gte=1"`
}

// DefaultConfig returns a configuration for a local Postgres server.
func DefaultConfig() Config {
	return Config{
		Driver:   "pgx",
		Host:     "localhost",
		Port:     5432,
		Database: "postgres",
		SSLMode:  "prefer",
		Pool: PoolConfig{
			MaxOpen:         10,
			MaxIdle:         2,
			MaxLifetime:     time.Hour,
			MaxIdleTime:     30 * time.Minute,
			HealthCheckFreq: time.Minute,
		},
		ConnectTimeout: 10 * time.Second,
		Retry: &RetryConfig{
			MaxRetries: 3,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   5 * time.Second,
			Backoff:    2,
		},
	}
}

// DSN returns the connection string for the configuration.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return NewDSNBuilder("postgres").
		Auth(c.Username, c.Password).
		Host(c.Host, c.Port).
		Database(c.Database).
		Param("sslmode", c.SSLMode).
		Params(c.Params).
		Build()
}

// Validate checks the fields that are needed to build a DSN.
func (c Config) Validate() error {
	if c.URL != "" {
		return nil
	}
	if err := NewDSNBuilder("postgres").Host(c.Host, c.Port).Validate(); err != nil {
		return err
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}
