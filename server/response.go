package server

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/sessionauth/errors"
)

// RespondWithError renders err as an error body. Errors that are not an
// *AppError become 500 INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondMessage writes {"message": msg}.
func RespondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

