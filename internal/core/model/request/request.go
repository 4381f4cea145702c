package request

import (
	"time"

	"taskapp/pkg/option"
)

type CreateTaskRequest struct {
	Title       string                   `json:"title" validate:"notblank,max=200"`
	Description option.Option[string]    `json:"description" validate:"omitempty,max=2000"`
	DueDate     option.Option[time.Time] `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       string                   `json:"title" validate:"notblank,max=200"`
	Description option.Option[string]    `json:"description" validate:"omitempty,max=2000"`
	IsCompleted bool                     `json:"isCompleted"`
	DueDate     option.Option[time.Time] `json:"dueDate"`
}
