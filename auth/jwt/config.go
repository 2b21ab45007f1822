package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var hmacMethods = map[string]*gojwt.SigningMethodHMAC{
	"HS256": gojwt.SigningMethodHS256,
	"HS384": gojwt.SigningMethodHS384,
	"HS512": gojwt.SigningMethodHS512,
}

// Config configures bearer token signing.
type Config struct {
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is HS256, HS384 or HS512.
	Method   string   `yaml:"method" mapstructure:"method"`
	Issuer   string   `yaml:"issuer" mapstructure:"issuer"`
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// TTL is how long an issued token stays valid.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = "HS256"
	}
	if c.TTL == 0 {
		c.TTL = 15 * time.Minute
	}
}

func (c *Config) Validate() error {
	if _, ok := hmacMethods[c.Method]; !ok {
		return fmt.Errorf("unsupported signing method %q", c.Method)
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.TTL < 0 {
		return errors.New("ttl is negative")
	}
	return nil
}
