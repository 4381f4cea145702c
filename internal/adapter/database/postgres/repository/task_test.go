package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/adapter/database/postgres/repository"
	"taskapp/internal/core/port"
	. "taskapp/pkg/test"
)

type PostgresTaskRepositorySuite struct {
	RepositoryContractSuite
	container testcontainers.Container
	db        *postgres.DB
}

func (s *PostgresTaskRepositorySuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "taskapp",
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	s.Require().NoError(err)

	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)

	mapped, err := container.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	url := fmt.Sprintf("postgres://test:test@%s:%s/taskapp?sslmode=disable", host, mapped.Port())

	s.db, err = postgres.NewDB(ctx, url)
	s.Require().NoError(err)

	s.NewRepo = func() port.TaskRepository {
		_, err := s.db.Exec(context.Background(), "TRUNCATE tasks")
		s.Require().NoError(err)

		return repository.NewTaskRepository(s.db, nil)
	}
}

func (s *PostgresTaskRepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}

	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

func TestPostgresTaskRepositorySuite(t *testing.T) {
	if os.Getenv("TASKAPP_INTEGRATION") != "1" {
		t.Skip("set TASKAPP_INTEGRATION=1 to run postgres integration tests")
	}

	suite.Run(t, new(PostgresTaskRepositorySuite))
}
