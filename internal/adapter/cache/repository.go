package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
)

const listKey = "tasks:all"

func taskKey(id int) string {
	return "tasks:" + strconv.Itoa(id)
}

// TaskRepository serves reads from a cache and drops the affected keys after every successful write.
// Writes bump generation before invalidating; a read that overlapped a write never leaves its value cached.
type TaskRepository struct {
	next       port.TaskRepository
	cache      port.CacheRepository
	ttl        time.Duration
	probe      port.Telemetry
	metrics    *telemetry.AppMetrics
	generation atomic.Uint64
}

func NewTaskRepository(next port.TaskRepository, cache port.CacheRepository, ttl time.Duration, probe port.Telemetry, metrics *telemetry.AppMetrics) port.TaskRepository {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	return &TaskRepository{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		probe:   probe,
		metrics: metrics,
	}
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task

	if r.lookup(ctx, listKey, &tasks) {
		return tasks, nil
	}

	generation := r.generation.Load()
	tasks, err := r.next.ListAll(ctx)

	if err != nil {
		return nil, err
	}

	r.store(ctx, generation, listKey, tasks)

	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int) (domain.Task, bool, error) {
	var task domain.Task

	if r.lookup(ctx, taskKey(id), &task) {
		return task, true, nil
	}

	generation := r.generation.Load()
	task, found, err := r.next.GetByID(ctx, id)

	if err != nil || !found {
		return domain.Task{}, false, err
	}

	r.store(ctx, generation, taskKey(id), task)

	return task, true, nil
}

func (r *TaskRepository) Add(ctx context.Context, task domain.Task) (domain.Task, error) {
	created, err := r.next.Add(ctx, task)

	if err != nil {
		return domain.Task{}, err
	}

	r.generation.Add(1)
	r.invalidate(ctx, listKey)

	return created, nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) (bool, error) {
	updated, err := r.next.Update(ctx, task)

	if err != nil || !updated {
		return updated, err
	}

	r.generation.Add(1)
	r.invalidate(ctx, listKey, taskKey(task.ID))

	return true, nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	deleted, err := r.next.DeleteByID(ctx, id)

	if err != nil || !deleted {
		return deleted, err
	}

	r.generation.Add(1)
	r.invalidate(ctx, listKey, taskKey(id))

	return true, nil
}

// lookup treats every cache fault as a miss.
func (r *TaskRepository) lookup(ctx context.Context, key string, dest interface{}) bool {
	payload, found, err := r.cache.Get(ctx, key)

	if err != nil {
		r.probe.RecordError(ctx, "cache.get", err, map[string]interface{}{"key": key})
	}

	if err == nil && found && json.Unmarshal(payload, dest) == nil {
		if r.metrics != nil {
			r.metrics.RecordCacheHit(ctx, cacheLabel(key))
		}

		return true
	}

	if r.metrics != nil {
		r.metrics.RecordCacheMiss(ctx, cacheLabel(key))
	}

	return false
}

// store caches value read at generation. It skips the write when a mutation
// committed during the read, and undoes it when one committed during the write.
func (r *TaskRepository) store(ctx context.Context, generation uint64, key string, value interface{}) {
	if r.generation.Load() != generation {
		return
	}

	payload, err := json.Marshal(value)

	if err == nil {
		err = r.cache.Set(ctx, key, payload, r.ttl)
	}

	if err != nil {
		r.probe.RecordError(ctx, "cache.set", err, map[string]interface{}{"key": key})
		return
	}

	if r.generation.Load() != generation {
		r.invalidate(ctx, key)
	}
}

func (r *TaskRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.probe.RecordError(ctx, "cache.delete", err, map[string]interface{}{"keys": keys})
	}
}

func cacheLabel(key string) string {
	if key == listKey {
		return "list"
	}

	return "item"
}
