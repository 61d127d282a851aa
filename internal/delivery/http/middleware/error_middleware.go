package middleware

import (
	"errors"
	"net/http"

	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler pushed with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		renderError(c, c.Errors.Last().Err)
	}
}

func renderError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logger.Log.Warnw("request failed",
				"status", appErr.Code,
				"path", c.FullPath(),
				"request_id", c.GetString(ctxRequestID),
				"error", appErr.Err,
			)
		}
		response.Error(c, appErr.Code, appErr.Message, errorDetail(appErr))
		return
	}

	// Internal details stay in the log.
	logger.Log.Errorw("unhandled error", "path", c.FullPath(), "request_id", c.GetString(ctxRequestID), "error", err)
	response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
}

// abortWithError is for middlewares that stop the chain before any handler runs.
func abortWithError(c *gin.Context, err *apperror.AppError) {
	renderError(c, err)
	c.Abort()
}

func errorDetail(err *apperror.AppError) interface{} {
	if err.Action == "" {
		return nil
	}
	return response.ErrorDetail{Action: err.Action}
}
