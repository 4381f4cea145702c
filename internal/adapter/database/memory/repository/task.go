package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/option"
)

const entity = "task"

type TaskRepository struct {
	db        *memory.DB
	telemetry port.Telemetry
	now       func() time.Time
}

func NewTaskRepository(db *memory.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (tr *TaskRepository) ListAll(ctx context.Context) (tasks []domain.Task, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "ListAll", entity, tr.attrs())
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "ListAll", entity)
	defer func() { op.End(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return tr.db.All()
}

func (tr *TaskRepository) GetByID(ctx context.Context, id int) (task domain.Task, found bool, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetByID", entity, tr.attrs(attribute.Int("task.id", id)))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "GetByID", entity)
	defer func() { op.End(err) }()

	if err := ctx.Err(); err != nil {
		return domain.Task{}, false, err
	}

	task, found = tr.db.Get(id)

	return task, found, nil
}

func (tr *TaskRepository) Add(ctx context.Context, task domain.Task) (created domain.Task, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Add", entity, tr.attrs())
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "Add", entity)
	defer func() { op.End(err) }()

	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	task.ID = tr.db.NextID()
	task.CreatedAt = tr.now()
	task.UpdatedAt = option.None[time.Time]()

	if err := tr.db.Put(task); err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (updated bool, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", entity, tr.attrs(attribute.Int("task.id", task.ID)))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "Update", entity)
	defer func() { op.End(err) }()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	return tr.db.Replace(task.ID, func(stored *domain.Task) {
		stored.Apply(domain.UpdateFields{
			Title:       task.Title,
			Description: task.Description,
			IsCompleted: task.IsCompleted,
			DueDate:     task.DueDate,
		})
		stored.UpdatedAt = option.Some(tr.now())
	})
}

func (tr *TaskRepository) DeleteByID(ctx context.Context, id int) (deleted bool, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "DeleteByID", entity, tr.attrs(attribute.Int("task.id", id)))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "DeleteByID", entity)
	defer func() { op.End(err) }()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	return tr.db.Delete(id)
}

func (tr *TaskRepository) attrs(extra ...attribute.KeyValue) []attribute.KeyValue {
	return append([]attribute.KeyValue{attribute.String("db.system", "memory")}, extra...)
}
