package logger

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// DefaultRedaction replaces the value of every redacted field.
	DefaultRedaction = "***"
	// DefaultSeparator ends a "key=value" pair inside a log message.
	DefaultSeparator = ";"
)

// DefaultRedactFields lists the personally identifiable fields masked in log output.
var DefaultRedactFields = []string{"name", "email", "phone", "ssn", "password"}

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`

	// RedactFields are structured field keys whose values are replaced
	// with Redaction before they are written.
	RedactFields []string `yaml:"redact_fields" mapstructure:"redact_fields"`
	Redaction    string   `yaml:"redaction" mapstructure:"redaction"`
	// Separator ends "key=value" pairs in messages, which are redacted
	// with FilterDatum.
	Separator string `yaml:"separator" mapstructure:"separator"`
	// DisableRedaction turns PII masking off, e.g. for local debugging.
	DisableRedaction bool `yaml:"disable_redaction" mapstructure:"disable_redaction"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	if len(c.RedactFields) == 0 && !c.DisableRedaction {
		c.RedactFields = append([]string(nil), DefaultRedactFields...)
	}
	if c.Redaction == "" {
		c.Redaction = DefaultRedaction
	}
	if c.Separator == "" {
		c.Separator = DefaultSeparator
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil || c.Level == "" {
		return fmt.Errorf("logging.level: unknown level %q", c.Level)
	}
	switch c.Format {
	case "json", "console", "pretty", "text":
	default:
		return fmt.Errorf("logging.format: must be json or console (got %q)", c.Format)
	}
	return nil
}
