package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionauth/auth"
	"github.com/kbukum/sessionauth/authz"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/observability"
	"github.com/kbukum/sessionauth/server/middleware"
	"github.com/kbukum/sessionauth/users"
)

// CookieName is the cookie carrying the flat service session id.
const CookieName = "session_id"

// Config wires the handlers to the auth stack.
type Config struct {
	Users      *users.Service
	Strategies *auth.Registry
	Checker    authz.Checker
	// SessionName names the cookie set by /api/v1/auth_session/login.
	SessionName string
	// LoginRateLimit caps login attempts per client and email per minute;
	// 0 disables the limit.
	LoginRateLimit int
	Metrics        *observability.AuthMetrics
	Logger         *logger.Logger
}

// Handlers serves every route of the service.
type Handlers struct {
	users       *users.Service
	strategies  *auth.Registry
	checker     authz.Checker
	sessionName string
	loginLimit  int
	metrics     *observability.AuthMetrics
	log         *logger.Logger
}

// New creates the handlers.
func New(cfg Config) *Handlers {
	if cfg.SessionName == "" {
		cfg.SessionName = auth.DefaultSessionName
	}
	if cfg.Checker == nil {
		cfg.Checker = authz.NewPathMatcher(auth.DefaultExcludedPaths)
	}
	return &Handlers{
		users:       cfg.Users,
		strategies:  cfg.Strategies,
		checker:     cfg.Checker,
		sessionName: cfg.SessionName,
		loginLimit:  cfg.LoginRateLimit,
		metrics:     cfg.Metrics,
		log:         cfg.Logger.WithComponent("api"),
	}
}

// Register mounts all routes on r. The rate limiter sweeps its windows
// until ctx is done.
func (h *Handlers) Register(ctx context.Context, r gin.IRouter) {
	limit := func(c *gin.Context) { c.Next() }
	if h.loginLimit > 0 {
		limit = middleware.RateLimit(ctx, middleware.RateLimitConfig{
			RequestsPerMinute: h.loginLimit,
			KeyFunc:           middleware.EmailBasedKey,
		})
	}

	r.GET("/", h.Welcome)
	r.POST("/users", h.RegisterUser)
	r.POST("/sessions", limit, h.Login)
	r.DELETE("/sessions", h.Logout)
	r.GET("/profile", h.Profile)
	r.POST("/reset_password", h.ResetPasswordToken)
	r.PUT("/update_password", h.UpdatePassword)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(middleware.AuthConfig{
		Strategy: h.strategies.Default(),
		Checker:  h.checker,
		Metrics:  h.metrics,
		Logger:   h.log,
	}))
	v1.GET("/status", h.Status)
	v1.GET("/unauthorized", func(c *gin.Context) { abort(c, http.StatusUnauthorized, "Unauthorized") })
	v1.GET("/forbidden", func(c *gin.Context) { abort(c, http.StatusForbidden, "Forbidden") })
	v1.POST("/auth_session/login", limit, h.SessionLogin)
	v1.DELETE("/auth_session/logout", h.SessionLogout)
	v1.POST("/auth_token/login", limit, h.TokenLogin)
	v1.GET("/users/:user_id", h.ShowUser)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
