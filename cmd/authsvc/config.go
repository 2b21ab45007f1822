package main

import (
	"fmt"

	"github.com/kbukum/sessionauth/auth"
	"github.com/kbukum/sessionauth/config"
	"github.com/kbukum/sessionauth/database"
	"github.com/kbukum/sessionauth/observability"
	"github.com/kbukum/sessionauth/redis"
	"github.com/kbukum/sessionauth/server"
)

// Config is the authsvc configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Bare environment variables understood besides the AUTH_* forms.
var envAliases = map[string]string{
	"AUTH_TYPE":        "auth.type",
	"SESSION_NAME":     "auth.session_name",
	"SESSION_DURATION": "auth.session_duration",
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.Auth.SessionStore == auth.SessionStoreRedis && !c.Redis.Enabled {
		return fmt.Errorf("auth.session_store=redis requires redis.enabled")
	}
	if c.Auth.Type == auth.TypeSessionDB && !c.Database.Enabled {
		return fmt.Errorf("auth.type=%s requires database.enabled", auth.TypeSessionDB)
	}
	return c.Observability.Validate()
}

// loadConfig reads config.yml, .env and the environment into a Config.
func loadConfig(configFile, envFile string) (*Config, error) {
	opts := []config.LoaderOption{
		config.WithEnvAliases(envAliases),
		config.WithDefault("database.enabled", true),
		config.WithDefault("database.auto_migrate", true),
	}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
