package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/sessionauth/auth"
	apperrors "github.com/kbukum/sessionauth/errors"
	"github.com/kbukum/sessionauth/observability"
	"github.com/kbukum/sessionauth/server"
	"github.com/kbukum/sessionauth/server/middleware"
	"github.com/kbukum/sessionauth/users"
)

// Status answers GET /api/v1/status.
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// ShowUser answers GET /api/v1/users/:user_id; "me" is the current user.
func (h *Handlers) ShowUser(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	id := c.Param("user_id")
	if id == "me" {
		if !ok {
			abort(c, http.StatusNotFound, "Not found")
			return
		}
		c.JSON(http.StatusOK, current)
		return
	}

	u, err := h.users.Store().FindUserBy(c.Request.Context(), users.Criteria{users.FieldID: id})
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		abort(c, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// SessionLogin answers POST /api/v1/auth_session/login. It creates a
// session through the installed session strategy and sets its cookie.
func (h *Handlers) SessionLogin(c *gin.Context) {
	strategy, ok := h.strategies.Session()
	if !ok {
		abort(c, http.StatusNotFound, "Not found")
		return
	}

	u, ok := h.checkLogin(c)
	if !ok {
		return
	}

	sid, err := strategy.CreateSession(c.Request.Context(), u.ID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.SetCookie(h.sessionName, sid, 0, "/", "", false, true)
	c.JSON(http.StatusOK, u)
}

// SessionLogout answers DELETE /api/v1/auth_session/logout.
func (h *Handlers) SessionLogout(c *gin.Context) {
	strategy, ok := h.strategies.Session()
	if !ok || !strategy.DestroySession(c.Request) {
		abort(c, http.StatusNotFound, "Not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// TokenLogin answers POST /api/v1/auth_token/login with a signed access
// token when bearer auth is configured.
func (h *Handlers) TokenLogin(c *gin.Context) {
	s, ok := h.strategies.Get(string(auth.TypeBearer))
	bearer, isBearer := s.(*auth.BearerAuth)
	if !ok || !isBearer {
		abort(c, http.StatusNotFound, "Not found")
		return
	}

	u, ok := h.checkLogin(c)
	if !ok {
		return
	}

	token, err := bearer.IssueToken(u)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(bearer.TTL().Seconds()),
	})
}

// checkLogin validates the email/password form and returns the first user
// with that email whose password verifies. On failure it writes the
// response and returns false.
func (h *Handlers) checkLogin(c *gin.Context) (*users.User, bool) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanLogin)
	defer span.End()
	route := c.FullPath()
	span.SetAttributes(attribute.String(observability.AttrPath, route))

	fail := func(status int, msg string) (*users.User, bool) {
		h.metrics.RecordLogin(ctx, route, false)
		span.SetStatus(codes.Error, msg)
		abort(c, status, msg)
		return nil, false
	}

	var form credentialsForm
	if err := bindForm(c, &form); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeMissingField {
			return fail(http.StatusBadRequest, appErr.Message)
		}
		return fail(http.StatusBadRequest, "invalid form")
	}

	found, err := h.users.Store().Search(ctx, users.Criteria{users.FieldEmail: form.Email})
	if err != nil {
		server.RespondWithError(c, err)
		return nil, false
	}
	if len(found) == 0 {
		return fail(http.StatusNotFound, "no user found for this email")
	}
	for i := range found {
		if h.users.Hasher().Verify(form.Password, found[i].HashedPassword) == nil {
			h.metrics.RecordLogin(ctx, route, true)
			span.SetAttributes(attribute.String(observability.AttrUserID, found[i].ID))
			return &found[i], true
		}
	}
	return fail(http.StatusUnauthorized, "wrong password")
}
