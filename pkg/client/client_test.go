package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	api "taskapp/internal/adapter/http"
	"taskapp/internal/core/model/request"
	"taskapp/pkg/config"
	"taskapp/pkg/option"
)

type ClientSuite struct {
	suite.Suite
	Server    *httptest.Server
	Container *api.Container
	Client    *Client
}

func (s *ClientSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	cfg.Database.Driver = config.DatabaseMemory
	cfg.RateLimitEnabled = false

	logger := config.WrapZapLogger(zap.NewNop(), "taskapp", "")

	container, err := api.NewContainer(context.Background(), cfg, logger, nil, nil)
	s.Require().NoError(err)

	s.Container = container
	s.Server = httptest.NewServer(api.NewRouter(container, nil, logger, cfg))

	s.Client, err = New(s.Server.URL+"/", 5*time.Second)
	s.Require().NoError(err)
}

func (s *ClientSuite) TearDownTest() {
	s.Server.Close()
	s.Container.Close()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) TestCRUD() {
	ctx := context.Background()

	tasks, err := s.Client.ListTasks(ctx)
	s.Require().NoError(err)
	s.Empty(tasks)

	due := time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)

	created, err := s.Client.CreateTask(ctx, request.CreateTaskRequest{
		Title:       "New Task",
		Description: option.Some("Desc"),
		DueDate:     option.Some(due),
	})
	s.Require().NoError(err)
	s.Equal("New Task", created.Title)
	s.False(created.IsCompleted)

	fetched, found, err := s.Client.GetTask(ctx, created.ID)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(option.Some("Desc"), fetched.Description)
	s.True(fetched.DueDate.OrElse(time.Time{}).Equal(due))

	err = s.Client.UpdateTask(ctx, created.ID, request.UpdateTaskRequest{Title: "Renamed", IsCompleted: true})
	s.Require().NoError(err)

	tasks, err = s.Client.ListTasks(ctx)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("Renamed", tasks[0].Title)
	s.True(tasks[0].IsCompleted)
	s.True(tasks[0].UpdatedAt.IsSome())

	deleted, err := s.Client.DeleteTask(ctx, created.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.Client.DeleteTask(ctx, created.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, found, err = s.Client.GetTask(ctx, created.ID)
	s.Require().NoError(err)
	s.False(found)
}

func (s *ClientSuite) TestValidationErrorCarriesEnvelope() {
	_, err := s.Client.CreateTask(context.Background(), request.CreateTaskRequest{Title: "   "})

	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusBadRequest, apiErr.StatusCode)
	s.Equal("ValidationFailed", apiErr.Envelope.Error)
	s.Equal([]string{"Title is required."}, apiErr.Envelope.Details)
	s.Equal("HTTP 400 while calling POST /api/tasks: Title is required.", err.Error())
}

func (s *ClientSuite) TestUpdateMissingTask() {
	err := s.Client.UpdateTask(context.Background(), 999, request.UpdateTaskRequest{Title: "x"})

	s.True(IsNotFound(err))
}

func TestNew_MissingBaseURL(t *testing.T) {
	_, err := New("  ", time.Second)

	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestListTasks_RejectsMalformedBodies(t *testing.T) {
	bodies := map[string]string{
		"not an array":    `{"id":1}`,
		"missing title":   `[{"id":1,"isCompleted":false,"createdAt":"2030-01-01T00:00:00Z"}]`,
		"wrong type":      `[{"id":"1","title":"x","isCompleted":false,"createdAt":"2030-01-01T00:00:00Z"}]`,
		"bad date":        `[{"id":1,"title":"x","isCompleted":false,"createdAt":"yesterday"}]`,
		"not json at all": `<html>`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			c, err := New(server.URL, time.Second)
			require.NoError(t, err)

			_, err = c.ListTasks(context.Background())

			assert.ErrorIs(t, err, ErrUnexpectedResponse)
		})
	}
}

func TestListTasks_AcceptsNullOptionals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":3,"title":"x","description":null,"isCompleted":true,"dueDate":null,"createdAt":"2030-01-01T00:00:00.123456Z","updatedAt":null}]`))
	}))
	defer server.Close()

	c, err := New(server.URL, time.Second)
	require.NoError(t, err)

	tasks, err := c.ListTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 3, tasks[0].ID)
	assert.True(t, tasks[0].Description.IsNone())
}

func TestServerErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	c, err := New(server.URL, time.Second)
	require.NoError(t, err)

	_, err = c.DeleteTask(context.Background(), 1)

	assert.EqualError(t, err, "HTTP 502 while calling DELETE /api/tasks/1.")
}

func TestCanceledRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c, err := New(server.URL, 5*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.ListTasks(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
}
