package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/option"
)

const (
	entity = "task"
	table  = "tasks"
)

var columns = []string{"id", "title", "description", "is_completed", "due_date", "created_at", "updated_at"}

type TaskRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
	now       func() time.Time
}

func NewTaskRepository(db *postgres.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.IsCompleted,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	return task, err
}

func (tr *TaskRepository) ListAll(ctx context.Context) (tasks []domain.Task, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "ListAll", entity, tr.attrs("SELECT"))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "ListAll", entity)
	defer func() { op.End(err) }()

	query, args, err := tr.db.QueryBuilder.
		Select(columns...).
		From(table).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	tasks = make([]domain.Task, 0)

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(tasks)))

	return tasks, nil
}

func (tr *TaskRepository) GetByID(ctx context.Context, id int) (task domain.Task, found bool, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetByID", entity, tr.attrs("SELECT", attribute.Int("task.id", id)))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "GetByID", entity)
	defer func() { op.End(err) }()

	query, args, err := tr.db.QueryBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Task{}, false, err
	}

	task, err = scanTask(tr.db.QueryRow(ctx, query, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, false, nil
	}

	if err != nil {
		return domain.Task{}, false, err
	}

	return task, true, nil
}

func (tr *TaskRepository) Add(ctx context.Context, task domain.Task) (created domain.Task, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Add", entity, tr.attrs("INSERT"))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "Add", entity)
	defer func() { op.End(err) }()

	task.CreatedAt = tr.now()
	task.UpdatedAt = option.None[time.Time]()

	query, args, err := tr.db.QueryBuilder.
		Insert(table).
		Columns("title", "description", "is_completed", "due_date", "created_at").
		Values(task.Title, task.Description, task.IsCompleted, task.DueDate, task.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	if err := tr.db.QueryRow(ctx, query, args...).Scan(&task.ID); err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (updated bool, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", entity, tr.attrs("UPDATE", attribute.Int("task.id", task.ID)))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "Update", entity)
	defer func() { op.End(err) }()

	query, args, err := tr.db.QueryBuilder.
		Update(table).
		SetMap(map[string]interface{}{
			"title":        task.Title,
			"description":  task.Description,
			"is_completed": task.IsCompleted,
			"due_date":     task.DueDate,
			"updated_at":   tr.now(),
		}).
		Where(sq.Eq{"id": task.ID}).
		ToSql()

	if err != nil {
		return false, err
	}

	tag, err := tr.db.Exec(ctx, query, args...)

	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (tr *TaskRepository) DeleteByID(ctx context.Context, id int) (deleted bool, err error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "DeleteByID", entity, tr.attrs("DELETE", attribute.Int("task.id", id)))
	defer span.End()

	op := tel.StartOperation(tr.telemetry, ctx, "DeleteByID", entity)
	defer func() { op.End(err) }()

	query, args, err := tr.db.QueryBuilder.
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, err
	}

	tag, err := tr.db.Exec(ctx, query, args...)

	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (tr *TaskRepository) attrs(operation string, extra ...attribute.KeyValue) []attribute.KeyValue {
	return append([]attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.table", table),
		attribute.String("db.operation", operation),
	}, extra...)
}
