package middleware

import (
	"fmt"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMiddleware turns panics and errors pushed with c.Error into the ServerError envelope.
func ErrorMiddleware(logger *config.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err, ok := recovered.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", recovered)
				}

				respondServerError(c, logger, err)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		respondServerError(c, logger, c.Errors.Last().Err)
	}
}

func respondServerError(c *gin.Context, logger *config.LokiLogger, err error) {
	traceID := GetCurrent(c).RequestID()

	logger.ErrorWithTrace(c.Request.Context(), "Unhandled error",
		zap.Error(err),
		zap.String("trace_id", traceID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)

	if c.Writer.Written() {
		c.Abort()
		return
	}

	SendInternalError(c, traceID)
}
