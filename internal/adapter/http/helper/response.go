package helper

import (
	"fmt"
	"net/http"

	"taskapp/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

const InternalErrorMessage = "An unexpected error occurred."

func SendError(c *gin.Context, statusCode int, code string, message string, details ...string) {
	c.AbortWithStatusJSON(statusCode, response.ApiErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}

func SendValidationError(c *gin.Context, details []string) {
	SendError(c, http.StatusBadRequest, response.ErrorCodeValidationFailed, "One or more validation errors occurred.", details...)
}

func SendTaskNotFoundError(c *gin.Context, id string) {
	SendNotFoundError(c, fmt.Sprintf("Task with id '%s' was not found.", id))
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, response.ErrorCodeNotFound, message)
}

// SendInternalError never exposes the underlying error, only the correlation id.
func SendInternalError(c *gin.Context, traceID string) {
	SendError(c, http.StatusInternalServerError, response.ErrorCodeServerError, InternalErrorMessage, "TraceId: "+traceID)
}
