package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/sessionauth/auth"
	"github.com/kbukum/sessionauth/auth/authctx"
	"github.com/kbukum/sessionauth/authz"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/observability"
	"github.com/kbukum/sessionauth/users"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	// Strategy resolves the request identity.
	Strategy auth.Strategy
	// Checker decides which paths need a credential. Nil protects every path.
	Checker authz.Checker
	// Metrics records decisions when set.
	Metrics *observability.AuthMetrics
	Logger  *logger.Logger
}

// Auth rejects requests to protected paths: 401 when the request carries
// neither an Authorization header nor a session cookie, 403 when it does
// but the strategy resolves no user. The resolved user is stored with
// authctx and its id under UserIDKey.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Checker == nil {
		cfg.Checker = authz.NewPathMatcher(nil)
	}
	log := cfg.Logger.WithComponent("middleware.auth")
	name := cfg.Strategy.Name()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if !cfg.Checker.RequiresAuth(path) {
			cfg.Metrics.RecordDecision(c.Request.Context(), name, observability.OutcomeExempt, time.Since(start))
			c.Next()
			return
		}

		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanAuthenticate)
		defer span.End()
		span.SetAttributes(
			attribute.String(observability.AttrStrategy, name),
			attribute.String(observability.AttrPath, path),
		)
		c.Request = c.Request.WithContext(ctx)

		reject := func(status int, outcome, msg string) {
			span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
			span.SetStatus(codes.Error, outcome)
			cfg.Metrics.RecordDecision(ctx, name, outcome, time.Since(start))
			log.WithContext(ctx).Debug("request rejected", map[string]interface{}{
				logger.FieldPath:     path,
				logger.FieldStrategy: name,
				logger.FieldStatus:   status,
			})
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
		}

		if !hasCredential(c.Request, cfg.Strategy) {
			reject(http.StatusUnauthorized, observability.OutcomeUnauthorized, "Unauthorized")
			return
		}
		u := cfg.Strategy.CurrentUser(c.Request)
		if u == nil {
			reject(http.StatusForbidden, observability.OutcomeForbidden, "Forbidden")
			return
		}

		span.SetAttributes(
			attribute.String(observability.AttrOutcome, observability.OutcomeAuthenticated),
			attribute.String(observability.AttrUserID, u.ID),
		)
		cfg.Metrics.RecordDecision(ctx, name, observability.OutcomeAuthenticated, time.Since(start))

		ctx = authctx.Set(ctx, u, name)
		ctx = logger.ContextWithUserID(ctx, u.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(UserIDKey, u.ID)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (*users.User, bool) {
	return authctx.Get[*users.User](c.Request.Context())
}

func hasCredential(r *http.Request, s auth.Strategy) bool {
	if _, ok := s.AuthorizationHeader(r); ok {
		return true
	}
	if ss, ok := s.(auth.SessionStrategy); ok {
		if _, ok := ss.SessionCookie(r); ok {
			return true
		}
	}
	return false
}
