package http

import (
	"context"
	"errors"
	"fmt"
	"os"

	"taskapp/internal/adapter/cache"
	"taskapp/internal/adapter/database/memory"
	memoryrepo "taskapp/internal/adapter/database/memory/repository"
	"taskapp/internal/adapter/database/postgres"
	postgresrepo "taskapp/internal/adapter/database/postgres/repository"
	"taskapp/internal/adapter/database/sqlite"
	sqliterepo "taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
)

type Container struct {
	TaskRepo    port.TaskRepository
	TaskService port.TaskService

	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler

	closers []func() error
}

// NewContainer selects storage by cfg.Database.Driver and optionally decorates it with a cache.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger, probe port.Telemetry, metrics *telemetry.AppMetrics) (*Container, error) {
	if probe == nil {
		probe = telemetry.NewNoOpProbe()
	}

	container := &Container{}

	repo, err := container.newRepository(ctx, cfg, probe)
	if err != nil {
		return nil, err
	}

	repo, err = container.withCache(ctx, cfg, repo, probe, metrics)
	if err != nil {
		container.Close()
		return nil, err
	}

	svc := service.NewTaskService(repo, probe)

	container.TaskRepo = repo
	container.TaskService = svc
	container.TaskHandler = handler.NewTaskHandler(svc, validation.NewRequestValidator(), logger)
	container.HealthHandler = handler.NewHealthHandler()

	return container, nil
}

func (c *Container) newRepository(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (port.TaskRepository, error) {
	switch cfg.Database.Driver {
	case config.DatabaseMemory:
		return memoryrepo.NewTaskRepository(memory.NewDB(), probe), nil

	case config.DatabaseSqlite:
		db, err := sqlite.NewDB(sqlite.Options{
			Path:       cfg.Database.Path,
			LogQueries: cfg.Database.LogQueries,
			QueryLog:   os.Stderr,
		})
		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, db.Close)

		return sqliterepo.NewTaskRepository(db, probe), nil

	case config.DatabasePostgres:
		db, err := postgres.NewDB(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, func() error {
			db.Close()
			return nil
		})

		return postgresrepo.NewTaskRepository(db, probe), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownDatabaseDriver, cfg.Database.Driver)
}

func (c *Container) withCache(ctx context.Context, cfg *config.AppConfig, repo port.TaskRepository, probe port.Telemetry, metrics *telemetry.AppMetrics) (port.TaskRepository, error) {
	switch cfg.Cache.Driver {
	case config.CacheNone, "":
		return repo, nil

	case config.CacheMemory:
		return cache.NewTaskRepository(repo, cache.NewMemoryCache(cfg.Cache.TTL), cfg.Cache.TTL, probe, metrics), nil

	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, client.Close)

		backend := cache.NewRedisCache(client, cfg.ServiceName+":")

		return cache.NewTaskRepository(repo, backend, cfg.Cache.TTL, probe, metrics), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownCacheDriver, cfg.Cache.Driver)
}

func (c *Container) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}

	c.closers = nil

	return errors.Join(errs...)
}
