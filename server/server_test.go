package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionauth/component"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/server/middleware"
)

func newTestServer() *Server {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	return New(cfg, logger.NewDefault("test"))
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 5000 || cfg.MaxBodySize != "1MB" || cfg.LoginRateLimit != 30 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("out of range port should fail")
	}
}

func TestServer_DefaultsServeRoutes(t *testing.T) {
	s := newTestServer()
	s.ApplyDefaults("authsvc", nil)
	s.Engine().GET("/boom", func(*gin.Context) { panic("boom") })

	tests := []struct {
		path string
		code int
	}{
		{"/health", http.StatusOK},
		{"/info", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/boom", http.StatusInternalServerError},
		{"/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
		if rr.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.path, rr.Code, tt.code)
		}
		if rr.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("%s: missing request id header", tt.path)
		}
	}
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer()
	s.RegisterDefaultEndpoints("authsvc", nil)
	s.Engine().POST("/sessions", func(*gin.Context) {})

	routes := s.Routes()
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(routes))
	}
	if routes[0].Path != "/sessions" {
		t.Errorf("API routes should come first, got %s", routes[0].Path)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/sessionauth/api.(*Handlers).Login-fm": "Handlers.Login",
		"github.com/kbukum/sessionauth/server/endpoint.Health.func1": "health",
	}
	for in, want := range tests {
		if got := handlerName(in); got != want {
			t.Errorf("handlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	c := NewComponent(New(cfg, logger.NewDefault("test")))
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("unstarted health = %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("started health = %s", h.Status)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.Describe().Type != "server" {
		t.Error("unexpected description")
	}
}
