package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/sessionauth/database"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/redis"
)

// NewLogger returns a debug logger that writes through t.Log, so output
// shows only for failing or verbose tests.
func NewLogger(t testing.TB) *logger.Logger {
	t.Helper()
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, t.Name(), tWriter{t})
}

type tWriter struct{ t testing.TB }

func (w tWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewDB opens an in-memory sqlite database and migrates models.
func NewDB(t testing.TB, models ...interface{}) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(),
		database.Config{Enabled: true, DSN: ":memory:", LogLevel: "silent"}, logger.NewDefault("testutil"))
	if err != nil {
		t.Fatalf("testutil: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("testutil: migrate: %v", err)
		}
	}
	return db
}

// NewRedis starts a miniredis server and returns a client connected to it.
// The server is returned for fast-forwarding TTLs.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("testutil: start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client, err := redis.New(redis.Config{Enabled: true, Addr: mini.Addr()}, logger.NewDefault("testutil"))
	if err != nil {
		t.Fatalf("testutil: redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}
