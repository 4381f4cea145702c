package service

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
)

const serviceName = "task"

type TaskService struct {
	repo  port.TaskRepository
	probe port.Telemetry
}

func NewTaskService(repo port.TaskRepository, probe port.Telemetry) *TaskService {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	return &TaskService{repo: repo, probe: probe}
}

func (ts *TaskService) ListTasks(ctx context.Context) (tasks []response.TaskResponse, err error) {
	ctx, done := ts.observe(ctx, "list")
	defer func() { done(err) }()

	rows, err := ts.repo.ListAll(ctx)

	if err != nil {
		return nil, err
	}

	data := make([]response.TaskResponse, 0, len(rows))

	for _, task := range rows {
		data = append(data, ToTaskResponse(task))
	}

	return data, nil
}

func (ts *TaskService) GetTask(ctx context.Context, id int) (task response.TaskResponse, found bool, err error) {
	ctx, done := ts.observe(ctx, "get", attribute.Int("task.id", id))
	defer func() { done(err) }()

	row, found, err := ts.repo.GetByID(ctx, id)

	if err != nil || !found {
		return response.TaskResponse{}, false, err
	}

	return ToTaskResponse(row), true, nil
}

func (ts *TaskService) CreateTask(ctx context.Context, req request.CreateTaskRequest) (task response.TaskResponse, err error) {
	ctx, done := ts.observe(ctx, "create")
	defer func() { done(err) }()

	newTask := domain.Task{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: false,
		DueDate:     req.DueDate,
	}

	created, err := ts.repo.Add(ctx, newTask)

	if err != nil {
		return response.TaskResponse{}, err
	}

	ts.probe.RecordBusinessEvent(ctx, "task_created", serviceName, strconv.Itoa(created.ID), map[string]interface{}{
		"has_due_date": created.DueDate.IsSome(),
	})

	return ToTaskResponse(created), nil
}

// UpdateTask replaces every editable field of an existing task.
func (ts *TaskService) UpdateTask(ctx context.Context, id int, req request.UpdateTaskRequest) (updated bool, err error) {
	ctx, done := ts.observe(ctx, "update", attribute.Int("task.id", id))
	defer func() { done(err) }()

	existing, found, err := ts.repo.GetByID(ctx, id)

	if err != nil || !found {
		return false, err
	}

	existing.Apply(domain.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		DueDate:     req.DueDate,
	})

	updated, err = ts.repo.Update(ctx, existing)

	if err != nil || !updated {
		return false, err
	}

	ts.probe.RecordBusinessEvent(ctx, "task_updated", serviceName, strconv.Itoa(id), map[string]interface{}{
		"is_completed": existing.IsCompleted,
	})

	return true, nil
}

func (ts *TaskService) DeleteTask(ctx context.Context, id int) (deleted bool, err error) {
	ctx, done := ts.observe(ctx, "delete", attribute.Int("task.id", id))
	defer func() { done(err) }()

	deleted, err = ts.repo.DeleteByID(ctx, id)

	if err != nil || !deleted {
		return false, err
	}

	ts.probe.RecordBusinessEvent(ctx, "task_deleted", serviceName, strconv.Itoa(id), nil)

	return true, nil
}

func (ts *TaskService) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := ts.probe.StartServiceSpan(ctx, serviceName, operation, attrs)

	return ctx, func(err error) {
		ts.probe.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)
		span.End()
	}
}

func ToTaskResponse(task domain.Task) response.TaskResponse {
	return response.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
