package response

import (
	"time"

	"taskapp/pkg/option"
)

type TaskResponse struct {
	ID          int                      `json:"id"`
	Title       string                   `json:"title"`
	Description option.Option[string]    `json:"description"`
	IsCompleted bool                     `json:"isCompleted"`
	DueDate     option.Option[time.Time] `json:"dueDate"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   option.Option[time.Time] `json:"updatedAt"`
}

type HealthResponse struct {
	Status       string    `json:"status"`
	TimestampUtc time.Time `json:"timestampUtc"`
}

// ApiErrorResponse is the single error envelope of the HTTP API.
type ApiErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

const (
	ErrorCodeValidationFailed = "ValidationFailed"
	ErrorCodeNotFound         = "NotFound"
	ErrorCodeServerError      = "ServerError"
	ErrorCodeTooManyRequests  = "TooManyRequests"
)
