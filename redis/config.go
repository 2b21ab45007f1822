package redis

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds the connection settings for the session store.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Addr is host:port of the server.
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`

	PoolSize   int `yaml:"pool_size" mapstructure:"pool_size"`
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// Timeouts, as Go durations ("5s").
	DialTimeout string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	IOTimeout   string `yaml:"io_timeout" mapstructure:"io_timeout"`

	// KeyPrefix namespaces every session key written by this service.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.IOTimeout == "" {
		c.IOTimeout = "3s"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "session"
	}
}

// Validate checks the configuration when the store is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	_, err := c.options()
	return err
}

func (c *Config) options() (*goredis.Options, error) {
	if c.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	dial, err := time.ParseDuration(c.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid dial_timeout %q: %w", c.DialTimeout, err)
	}
	io, err := time.ParseDuration(c.IOTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid io_timeout %q: %w", c.IOTimeout, err)
	}
	return &goredis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  dial,
		ReadTimeout:  io,
		WriteTimeout: io,
	}, nil
}
