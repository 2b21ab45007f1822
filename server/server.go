package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/server/endpoint"
	"github.com/kbukum/sessionauth/server/middleware"
)

// Server serves a gin engine behind a net/http middleware chain, over
// HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	cfg    Config
	engine *gin.Engine
	chain  []middleware.Middleware
	log    *logger.Logger

	mu   sync.Mutex
	http *http.Server
	addr net.Addr
}

func New(cfg Config, log *logger.Logger) *Server {
	mode := gin.ReleaseMode
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)
	return &Server{cfg: cfg, engine: gin.New(), log: log.WithComponent("server")}
}

// Engine is where routes are registered.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Use appends middleware; earlier entries wrap later ones.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.chain = append(s.chain, mws...)
}

// Handler is the engine wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.chain...)(s.engine)
}

// ApplyDefaults installs the standard middleware and the /health, /info
// and /metrics endpoints.
func (s *Server) ApplyDefaults(service string, checker endpoint.HealthChecker) {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.cfg.CORS),
		middleware.BodySizeLimit(s.cfg.MaxBodySize),
		middleware.RequestLogger(s.log),
	)
	s.RegisterDefaultEndpoints(service, checker)
}

func (s *Server) RegisterDefaultEndpoints(service string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(service, checker))
	s.engine.GET("/info", endpoint.Info(service))
	s.engine.GET("/metrics", endpoint.Metrics())
}

// Start binds the listener and serves in the background.
func (s *Server) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	srv := &http.Server{
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{
			MaxConcurrentStreams: 250,
			IdleTimeout:          2 * time.Minute,
		}),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	s.http, s.addr = srv, ln.Addr()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Serve failed", logger.ErrorFields("serve", err))
		}
	}()
	s.log.Info("HTTP server listening", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests for at most cfg.ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.http = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.log.Info("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Addr is the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr != nil {
		return s.addr.String()
	}
	return s.cfg.Addr()
}

func (s *Server) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.http != nil
}
