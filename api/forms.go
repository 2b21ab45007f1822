package api

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/sessionauth/errors"
	"github.com/kbukum/sessionauth/validation"
)

type credentialsForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type emailForm struct {
	Email string `form:"email" validate:"required"`
}

type updatePasswordForm struct {
	Email       string `form:"email" validate:"required"`
	ResetToken  string `form:"reset_token" validate:"required"`
	NewPassword string `form:"new_password" validate:"required"`
}

// bindForm reads the form fields into dst and validates them.
func bindForm(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return apperrors.InvalidInput("form", err.Error())
	}
	return validation.Validate(dst)
}
