package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(t *testing.T, cfg *Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Format = "json"
	cfg.ApplyDefaults()
	return NewWithWriter(cfg, "test-svc", buf), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
	if l.redact == nil {
		t.Error("expected redaction enabled by default")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestRedactsPIIFields(t *testing.T) {
	l, buf := newJSONLogger(t, nil)
	l.Info("login", Fields("email", "bob@dylan.com", "password", "hunter2", "user_id", "u-1"))

	line := decodeLine(t, buf)
	if line["email"] != DefaultRedaction {
		t.Errorf("expected email redacted, got %v", line["email"])
	}
	if line["password"] != DefaultRedaction {
		t.Errorf("expected password redacted, got %v", line["password"])
	}
	if line["user_id"] != "u-1" {
		t.Errorf("expected user_id kept, got %v", line["user_id"])
	}
	if line["service"] != "test-svc" {
		t.Errorf("expected service tag, got %v", line["service"])
	}
}

func TestRedactionDisabled(t *testing.T) {
	l, buf := newJSONLogger(t, &Config{DisableRedaction: true})
	l.Info("login", Fields("email", "bob@dylan.com"))
	if line := decodeLine(t, buf); line["email"] != "bob@dylan.com" {
		t.Errorf("expected raw email, got %v", line["email"])
	}
}

func TestWithFieldsRedacts(t *testing.T) {
	l, buf := newJSONLogger(t, &Config{RedactFields: []string{"SSN"}})
	l.WithFields(Fields("ssn", "123-45-6789", "phone", "555")).Warn("x")
	line := decodeLine(t, buf)
	if line["ssn"] != DefaultRedaction {
		t.Errorf("expected ssn redacted case-insensitively, got %v", line["ssn"])
	}
	if line["phone"] != "555" {
		t.Errorf("expected phone kept when not configured, got %v", line["phone"])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, nil)
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "u-9")
	l.WithContext(ctx).Info("hello")

	line := decodeLine(t, buf)
	if line[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", line[FieldRequestID])
	}
	if line[FieldUserID] != "u-9" {
		t.Errorf("expected user_id u-9, got %v", line[FieldUserID])
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newJSONLogger(t, nil)
	l.WithComponent("auth").Error("failed", ErrorFields("login", errors.New("boom")))
	line := decodeLine(t, buf)
	if line[FieldComponent] != "auth" {
		t.Errorf("expected component auth, got %v", line[FieldComponent])
	}
	if line[FieldError] != "boom" {
		t.Errorf("expected error boom, got %v", line[FieldError])
	}

	var nilLogger *Logger
	if nilLogger.WithComponent("x") == nil {
		t.Error("nil receiver should derive from the global logger")
	}
}

func TestMessageRedaction(t *testing.T) {
	l, buf := newJSONLogger(t, nil)
	l.Info("user=bob;email=bob@hbtn.io;password=hunter2;")
	line := decodeLine(t, buf)
	if want := "user=bob;email=***;password=***;"; line["message"] != want {
		t.Errorf("message = %v, want %q", line["message"], want)
	}
}

func TestFilterDatum(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		message string
		sep     string
		want    string
	}{
		{
			name:    "semicolon separated",
			fields:  []string{"email", "password"},
			message: "name=egg;email=eggmin@eggsample.com;password=eggcellent;date_of_birth=12/12/1986;",
			sep:     ";",
			want:    "name=egg;email=***;password=***;date_of_birth=12/12/1986;",
		},
		{
			name:    "other separator",
			fields:  []string{"password"},
			message: "name=bob|password=bobbycool|",
			sep:     "|",
			want:    "name=bob|password=***|",
		},
		{
			name:    "no match",
			fields:  []string{"ssn"},
			message: "name=bob;",
			sep:     ";",
			want:    "name=bob;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterDatum(tt.fields, "***", tt.message, tt.sep); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(f) != 2 {
		t.Errorf("expected 2 fields, got %d", len(f))
	}
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("save", errors.New("nope"))
	if ef[FieldOperation] != "save" || ef[FieldError] != "nope" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("load", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"trace level", func(c *Config) { c.Level = "trace" }, true},
		{"unknown level", func(c *Config) { c.Level = "loud" }, false},
		{"unknown format", func(c *Config) { c.Format = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !strings.Contains(err.Error(), "logging.") {
				t.Errorf("error should name the key: %v", err)
			}
		})
	}
}
