package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/sessionauth/auth"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FileAndAliases(t *testing.T) {
	path := writeConfig(t, `
name: authsvc
auth:
  type: basic_auth
  session_name: from_file
`)
	t.Setenv("AUTH_TYPE", "session_db_auth")
	t.Setenv("SESSION_NAME", "_my_session_id")
	t.Setenv("SESSION_DURATION", "60")

	cfg, err := loadConfig(path, "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Auth.Type != auth.TypeSessionDB {
		t.Errorf("Type = %q, want session_db_auth", cfg.Auth.Type)
	}
	if cfg.Auth.SessionName != "_my_session_id" {
		t.Errorf("SessionName = %q", cfg.Auth.SessionName)
	}
	if cfg.Auth.SessionDuration != 60 {
		t.Errorf("SessionDuration = %d", cfg.Auth.SessionDuration)
	}
	if !cfg.Database.Enabled || !cfg.Database.AutoMigrate {
		t.Error("database should be enabled with auto-migrate by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"redis sessions without redis", func(c *Config) { c.Auth.SessionStore = auth.SessionStoreRedis }, false},
		{"db sessions without database", func(c *Config) {
			c.Auth.Type = auth.TypeSessionDB
			c.Database.Enabled = false
		}, false},
		{"bearer without jwt", func(c *Config) { c.Auth.Type = auth.TypeBearer }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Database.Enabled = true
			cfg.Database.DSN = ":memory:"
			tt.mutate(cfg)
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
