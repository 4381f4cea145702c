package domain

import (
	"time"

	"taskapp/pkg/option"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 2000
)

type Task struct {
	ID          int
	Title       string
	Description option.Option[string]
	IsCompleted bool
	DueDate     option.Option[time.Time]
	CreatedAt   time.Time
	UpdatedAt   option.Option[time.Time]
}

// UpdateFields carries the caller-editable part of a Task.
type UpdateFields struct {
	Title       string
	Description option.Option[string]
	IsCompleted bool
	DueDate     option.Option[time.Time]
}

// Apply overwrites every editable field. Absent optionals clear the stored value.
func (t *Task) Apply(fields UpdateFields) {
	t.Title = fields.Title
	t.Description = fields.Description
	t.IsCompleted = fields.IsCompleted
	t.DueDate = fields.DueDate
}
