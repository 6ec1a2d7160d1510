package middleware

import (
	"errors"
	"net/http"

	"marketing-site/internal/delivery/http/response"
	"marketing-site/pkg/apperror"
	"marketing-site/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				logger.Log.WarnContext(c.Request.Context(), appErr.Message,
					"error", appErr.Err, "request_id", response.RequestID(c))
			}
			var fields interface{}
			if len(appErr.Fields) > 0 {
				fields = appErr.Fields
			}
			response.Error(c, appErr.Code, appErr.Message, fields)
			return
		}

		// Internal details stay in the server log
		logger.Log.ErrorContext(c.Request.Context(), "Internal Server Error",
			"error", err, "request_id", response.RequestID(c))
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
