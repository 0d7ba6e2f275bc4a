package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// ErrorHandler renders the last error a handler recorded with c.Error as the
// JSON error body. Handlers record and return; they never write error bodies
// themselves. Causes wrapped in an AppError, and any non-AppError, are logged
// here and never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, toAppError(c, c.Errors.Last().Err))
	}
}

// toAppError maps err onto the error taxonomy, logging anything the client
// will not see.
func toAppError(c *gin.Context, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		return apperrors.ErrInternalServer
	}
	if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
	return appErr
}

// writeError writes {"error":{"code","message"}} and stops the chain.
func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
