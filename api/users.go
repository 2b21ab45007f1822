package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/sessionauth/errors"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/server"
)

// Welcome answers GET /.
func (h *Handlers) Welcome(c *gin.Context) {
	server.RespondMessage(c, http.StatusOK, "Bienvenue")
}

// RegisterUser answers POST /users.
func (h *Handlers) RegisterUser(c *gin.Context) {
	var form credentialsForm
	if err := bindForm(c, &form); err != nil {
		server.RespondWithError(c, err)
		return
	}

	u, err := h.users.RegisterUser(c.Request.Context(), form.Email, form.Password)
	if apperrors.HasCode(err, apperrors.ErrCodeDuplicateEmail) {
		server.RespondMessage(c, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": u.Email, "message": "user created"})
}

// Login answers POST /sessions: a valid login sets the session_id cookie.
func (h *Handlers) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var form credentialsForm
	if err := bindForm(c, &form); err != nil || !h.users.ValidLogin(ctx, form.Email, form.Password) {
		h.metrics.RecordLogin(ctx, c.FullPath(), false)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	sid, err := h.users.CreateSession(ctx, form.Email)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.metrics.RecordLogin(ctx, c.FullPath(), true)
	c.SetCookie(CookieName, sid, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"email": form.Email, "message": "logged in"})
}

// Logout answers DELETE /sessions by destroying the cookie's session and
// redirecting home.
func (h *Handlers) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sid, _ := c.Cookie(CookieName)
	u, err := h.users.GetUserFromSessionID(ctx, sid)
	if err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	if err := h.users.DestroySession(ctx, u.ID); err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Profile answers GET /profile with the email of the cookie's session.
func (h *Handlers) Profile(c *gin.Context) {
	sid, _ := c.Cookie(CookieName)
	u, err := h.users.GetUserFromSessionID(c.Request.Context(), sid)
	if err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": u.Email})
}

// ResetPasswordToken answers POST /reset_password.
func (h *Handlers) ResetPasswordToken(c *gin.Context) {
	var form emailForm
	if err := bindForm(c, &form); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	token, err := h.users.GetResetPasswordToken(c.Request.Context(), form.Email)
	if err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": form.Email, "reset_token": token})
}

// UpdatePassword answers PUT /update_password.
func (h *Handlers) UpdatePassword(c *gin.Context) {
	ctx := c.Request.Context()
	var form updatePasswordForm
	if err := bindForm(c, &form); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	if err := h.users.UpdatePassword(ctx, form.ResetToken, form.NewPassword); err != nil {
		h.log.WithContext(ctx).Warn("password update rejected", map[string]interface{}{
			logger.FieldEmail: form.Email,
			logger.FieldError: err.Error(),
		})
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": form.Email, "message": "Password updated"})
}
