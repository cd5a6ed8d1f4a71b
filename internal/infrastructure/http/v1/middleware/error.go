package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	appctx "medistock/internal/core/context"
	"medistock/pkg/logger"
)

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into
// JSON responses. Application errors keep their status and code,
// anything else becomes an opaque 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		if c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()

		if appErr, ok := apperror.AsAppError(last.Err); ok {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error(ctx, "request failed", "error", appErr.Error(), "code", appErr.Code)
			} else {
				logger.Debug(ctx, "request rejected", "error", appErr.Error(), "code", appErr.Code)
			}

			c.JSON(appErr.HTTPStatus, errorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		logger.Error(ctx, "unhandled error", "error", last.Err)

		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{"request_id": appctx.GetRequestID(ctx)},
		})
	}
}
