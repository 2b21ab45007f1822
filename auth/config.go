package auth

import (
	"fmt"
	"time"

	"github.com/kbukum/sessionauth/auth/jwt"
	"github.com/kbukum/sessionauth/auth/password"
)

// Type names an authentication strategy.
type Type string

const (
	TypeNone       Type = "none"
	TypeBasic      Type = "basic_auth"
	TypeSession    Type = "session_auth"
	TypeSessionExp Type = "session_exp_auth"
	TypeSessionDB  Type = "session_db_auth"
	TypeBearer     Type = "bearer_auth"
)

// Session registry backends for session_auth and session_exp_auth.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// DefaultSessionName is the session cookie name when none is configured.
const DefaultSessionName = "session_id"

// DefaultExcludedPaths are the /api/v1 routes reachable without a credential.
var DefaultExcludedPaths = []string{
	"/api/v1/status/",
	"/api/v1/unauthorized/",
	"/api/v1/forbidden/",
	"/api/v1/auth_session/login/",
	"/api/v1/auth_token/login/",
}

// Config holds authentication configuration.
// Sub-configs are pointers so unused features are nil and skip validation.
type Config struct {
	// Type selects the installed strategy. Unknown values install "none".
	Type Type `yaml:"type" mapstructure:"type"`

	// SessionName is the session cookie name.
	SessionName string `yaml:"session_name" mapstructure:"session_name"`

	// SessionDuration is the session lifetime in seconds. Zero or less never expires.
	SessionDuration int `yaml:"session_duration" mapstructure:"session_duration"`

	// SessionStore picks the registry for cookie sessions: memory or redis.
	SessionStore string `yaml:"session_store" mapstructure:"session_store"`

	// SessionStoreTTL lets the redis store evict sessions after this many seconds.
	// Zero keeps them until logout. When set it must outlive SessionDuration.
	SessionStoreTTL int `yaml:"session_store_ttl" mapstructure:"session_store_ttl"`

	// ExcludedPaths are exempt from authentication. A trailing "*" matches a prefix.
	ExcludedPaths []string `yaml:"excluded_paths" mapstructure:"excluded_paths"`

	// Password configures password hashing (nil uses bcrypt defaults).
	Password *password.Config `yaml:"password" mapstructure:"password"`

	// JWT configures bearer tokens (nil disables bearer_auth).
	JWT *jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeNone
	}
	if c.SessionName == "" {
		c.SessionName = DefaultSessionName
	}
	if c.SessionStore == "" {
		c.SessionStore = SessionStoreMemory
	}
	if c.ExcludedPaths == nil {
		c.ExcludedPaths = append([]string(nil), DefaultExcludedPaths...)
	}
	if c.Password == nil {
		c.Password = &password.Config{}
	}
	c.Password.ApplyDefaults()
	if c.JWT != nil {
		c.JWT.ApplyDefaults()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("auth.session_store: unsupported value %q", c.SessionStore)
	}
	if c.SessionStoreTTL < 0 {
		return fmt.Errorf("auth.session_store_ttl: must not be negative")
	}
	if c.SessionStoreTTL > 0 && c.SessionDuration > 0 && c.SessionStoreTTL <= c.SessionDuration {
		return fmt.Errorf("auth.session_store_ttl: must exceed session_duration (%d)", c.SessionDuration)
	}
	if c.Password != nil {
		if err := c.Password.Validate(); err != nil {
			return fmt.Errorf("auth.password: %w", err)
		}
	}
	if c.JWT != nil {
		if err := c.JWT.Validate(); err != nil {
			return fmt.Errorf("auth.jwt: %w", err)
		}
	}
	if c.Type == TypeBearer && c.JWT == nil {
		return fmt.Errorf("auth.jwt: required for %s", TypeBearer)
	}
	return nil
}

// SessionTTL returns the session lifetime; zero means unlimited.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionDuration <= 0 {
		return 0
	}
	return time.Duration(c.SessionDuration) * time.Second
}

// StoreTTL returns how long the session store keeps records; zero means until deleted.
func (c *Config) StoreTTL() time.Duration {
	if c.SessionStoreTTL <= 0 {
		return 0
	}
	return time.Duration(c.SessionStoreTTL) * time.Second
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	line := string(c.Type)
	switch c.Type {
	case TypeSession, TypeSessionExp, TypeSessionDB:
		line += fmt.Sprintf(" cookie=%s", c.SessionName)
		if c.Type != TypeSession {
			line += fmt.Sprintf(" ttl=%s", c.SessionTTL())
		}
		if c.Type != TypeSessionDB {
			line += fmt.Sprintf(" store=%s", c.SessionStore)
		}
	case TypeBearer:
		line += fmt.Sprintf(" jwt=%s", c.JWT.Method)
	}
	if c.Password != nil {
		line += fmt.Sprintf(" password=%s", c.Password.Algorithm)
	}
	return line
}
