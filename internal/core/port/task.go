package port

import (
	"context"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

// TaskRepository reports absence through the boolean results; errors are storage faults.
type TaskRepository interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id int) (domain.Task, bool, error)
	Add(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) (bool, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
}

type TaskService interface {
	ListTasks(ctx context.Context) ([]response.TaskResponse, error)
	GetTask(ctx context.Context, id int) (response.TaskResponse, bool, error)
	CreateTask(ctx context.Context, req request.CreateTaskRequest) (response.TaskResponse, error)
	UpdateTask(ctx context.Context, id int, req request.UpdateTaskRequest) (bool, error)
	DeleteTask(ctx context.Context, id int) (bool, error)
}
