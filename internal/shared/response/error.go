package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/platipay/server/internal/shared/errors"
)

// Error writes err as a JSON error body. Errors that are not AppErrors are
// reported as internal errors without their message.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("internal server error", err)
	}
	_ = c.Error(err)
	c.JSON(appErr.StatusCode, appErr.ToResponse())
}
