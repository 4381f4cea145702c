package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskapp/pkg/option"
)

func TestTask_Apply(t *testing.T) {
	t.Run("should overwrite every editable field", func(t *testing.T) {
		due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		created := time.Now().UTC()

		task := Task{
			ID:          7,
			Title:       "Write report",
			Description: option.Some("draft"),
			CreatedAt:   created,
		}

		task.Apply(UpdateFields{
			Title:       "Write final report",
			Description: option.Some("final"),
			IsCompleted: true,
			DueDate:     option.Some(due),
		})

		assert.Equal(t, 7, task.ID)
		assert.Equal(t, created, task.CreatedAt)
		assert.Equal(t, "Write final report", task.Title)
		assert.Equal(t, option.Some("final"), task.Description)
		assert.True(t, task.IsCompleted)
		assert.Equal(t, option.Some(due), task.DueDate)
	})

	t.Run("should clear optionals omitted from the update", func(t *testing.T) {
		task := Task{
			Title:       "Pay rent",
			Description: option.Some("before the 5th"),
			DueDate:     option.Some(time.Now()),
		}

		task.Apply(UpdateFields{Title: "Pay rent"})

		assert.True(t, task.Description.IsNone())
		assert.True(t, task.DueDate.IsNone())
	})
}
