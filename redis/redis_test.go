package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/sessionauth/component"
	"github.com/kbukum/sessionauth/logger"
)

type record struct {
	UserID string `json:"user_id"`
	Hits   int    `json:"hits"`
}

func newClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := New(Config{Enabled: true, Addr: mini.Addr()}, logger.NewDefault("redis-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.DialTimeout = "soon" }, true},
		{"bad dial timeout", func(c *Config) { c.DialTimeout = "soon" }, false},
		{"bad io timeout", func(c *Config) { c.IOTimeout = "5" }, false},
		{"missing addr", func(c *Config) { c.Addr = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Enabled: true}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestJSONStore_SaveLoadDelete(t *testing.T) {
	client, mini := newClient(t)
	store := NewJSONStore[record](client, "session")
	ctx := context.Background()

	if err := store.Save(ctx, "s1", &record{UserID: "u1", Hits: 2}, 0, "user:u1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mini.Exists("session:s1") {
		t.Fatal("expected session:s1 to exist")
	}
	if ok, _ := mini.SIsMember("session:user:u1", "s1"); !ok {
		t.Error("expected s1 in the user index")
	}

	got, err := store.Load(ctx, "s1")
	if err != nil || got == nil || got.Hits != 2 {
		t.Fatalf("Load = %+v, %v", got, err)
	}
	if got, err := store.Load(ctx, "missing"); got != nil || err != nil {
		t.Errorf("Load(missing) = %+v, %v; want nil, nil", got, err)
	}

	if err := store.Delete(ctx, "s1", "user:u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mini.Exists("session:s1") {
		t.Error("expected value removed")
	}
	if ids, _ := store.Members(ctx, "user:u1"); len(ids) != 0 {
		t.Errorf("expected empty index, got %v", ids)
	}
	if err := store.Delete(ctx, "s1", ""); err != nil {
		t.Errorf("second Delete should be a no-op: %v", err)
	}
}

func TestJSONStore_LoadMany(t *testing.T) {
	client, _ := newClient(t)
	store := NewJSONStore[record](client, "session")
	ctx := context.Background()

	store.Save(ctx, "a", &record{Hits: 1}, 0, "")
	store.Save(ctx, "c", &record{Hits: 3}, 0, "")

	got, err := store.LoadMany(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("LoadMany: %v", err)
	}
	if len(got) != 3 || got[0].Hits != 1 || got[1] != nil || got[2].Hits != 3 {
		t.Errorf("unexpected result %+v", got)
	}
	if got, err := store.LoadMany(ctx, nil); got != nil || err != nil {
		t.Errorf("LoadMany(nil) = %v, %v", got, err)
	}
}

func TestJSONStore_TTLAndUnindex(t *testing.T) {
	client, mini := newClient(t)
	store := NewJSONStore[record](client, "session")
	ctx := context.Background()

	store.Save(ctx, "s1", &record{UserID: "u1"}, time.Minute, "user:u1")
	if ttl := mini.TTL("session:s1"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
	mini.FastForward(2 * time.Minute)
	if got, _ := store.Load(ctx, "s1"); got != nil {
		t.Error("expected value to expire")
	}

	ids, _ := store.Members(ctx, "user:u1")
	if len(ids) != 1 {
		t.Fatalf("index should outlive the value, got %v", ids)
	}
	if err := store.Unindex(ctx, "user:u1", ids...); err != nil {
		t.Fatalf("Unindex: %v", err)
	}
	if ids, _ := store.Members(ctx, "user:u1"); len(ids) != 0 {
		t.Errorf("expected empty index, got %v", ids)
	}
}

func TestJSONStore_Key(t *testing.T) {
	if k := NewJSONStore[record](nil, "").Key("x"); k != "x" {
		t.Errorf("Key = %q, want x", k)
	}
	if k := NewJSONStore[record](nil, "session").Key("x"); k != "session:x" {
		t.Errorf("Key = %q, want session:x", k)
	}
}

func TestClient_GetMissing(t *testing.T) {
	client, _ := newClient(t)
	if _, err := client.Get(context.Background(), "missing"); !IsNil(err) {
		t.Errorf("expected IsNil, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	mini := miniredis.RunT(t)
	ctx := context.Background()

	comp := NewComponent(Config{Enabled: true, Addr: mini.Addr()}, logger.NewDefault("test"))
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if d := comp.Describe(); d.Type != "redis" {
		t.Errorf("Describe = %+v", d)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestComponent_StartDisabled(t *testing.T) {
	comp := NewComponent(Config{}, logger.NewDefault("test"))
	if err := comp.Start(context.Background()); err == nil {
		t.Error("expected error starting disabled redis")
	}
	if err := comp.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start: %v", err)
	}
}
