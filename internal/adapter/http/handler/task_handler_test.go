package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
	. "taskapp/pkg/test"
)

type TaskHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *TaskHandlerSuite) SetupTest() {
	RegisterTestingT(s.T())

	probe := telemetry.NewNoOpProbe()
	repo := repository.NewTaskRepository(InitTestDB(), probe)
	svc := service.NewTaskService(repo, probe)

	s.Router = setupTaskTestRouter(svc)
}

func TestTaskHandlerSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerSuite))
}

func testLogger() *config.LokiLogger {
	return config.WrapZapLogger(zap.NewNop(), "taskapp", "")
}

func setupTaskTestRouter(svc port.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	logger := testLogger()
	taskHandler := NewTaskHandler(svc, validation.NewRequestValidator(), logger)

	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.ErrorMiddleware(logger))

	tasks := router.Group("/api/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.POST("", taskHandler.CreateTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	router.GET("/api/health", NewHealthHandler().Health)

	return router
}

func (s *TaskHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request

	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var out T
	Expect(json.Unmarshal(rr.Body.Bytes(), &out)).To(Succeed())
	return out
}

func (s *TaskHandlerSuite) createTask(body string) response.TaskResponse {
	rr := s.do("POST", "/api/tasks", body)
	Expect(rr.Code).To(Equal(http.StatusCreated))
	return decode[response.TaskResponse](rr)
}

func (s *TaskHandlerSuite) TestListTasks_Empty() {
	rr := s.do("GET", "/api/tasks", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	Expect(rr.Body.String()).To(Equal("[]"))
}

func (s *TaskHandlerSuite) TestCreateTask() {
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	body := fmt.Sprintf(`{"title":"New Task","description":"Desc","dueDate":%q}`, tomorrow.Format(time.RFC3339))

	rr := s.do("POST", "/api/tasks", body)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	task := decode[response.TaskResponse](rr)
	Expect(rr.Header().Get("Location")).To(Equal(fmt.Sprintf("/api/tasks/%d", task.ID)))
	Expect(task.ID).To(BeNumerically(">", 0))
	Expect(task.Title).To(Equal("New Task"))
	Expect(task.IsCompleted).To(BeFalse())
	Expect(task.Description.OrElse("")).To(Equal("Desc"))
	Expect(task.DueDate.OrElse(time.Time{}).Equal(tomorrow)).To(BeTrue())
	Expect(task.CreatedAt).ToNot(BeZero())

	raw := decode[map[string]interface{}](rr)
	Expect(raw).To(HaveKeyWithValue("updatedAt", BeNil()))
}

func (s *TaskHandlerSuite) TestCreateTask_RoundTrip() {
	created := s.createTask(`{"title":"Read","description":"Chapter 4","dueDate":"2030-01-02T15:04:00Z"}`)

	rr := s.do("GET", fmt.Sprintf("/api/tasks/%d", created.ID), "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	fetched := decode[response.TaskResponse](rr)
	Expect(fetched.Title).To(Equal(created.Title))
	Expect(fetched.Description).To(Equal(created.Description))
	Expect(fetched.DueDate.OrElse(time.Time{}).Equal(created.DueDate.OrElse(time.Time{}))).To(BeTrue())
}

func (s *TaskHandlerSuite) TestCreateTask_UniqueIDs() {
	first := s.createTask(`{"title":"one"}`)
	second := s.createTask(`{"title":"two"}`)

	Expect(second.ID).ToNot(Equal(first.ID))

	list := decode[[]response.TaskResponse](s.do("GET", "/api/tasks", ""))
	Expect(list).To(HaveLen(2))
}

func (s *TaskHandlerSuite) TestCreateTask_MissingTitle() {
	rr := s.do("POST", "/api/tasks", `{"description":"Desc"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body := decode[response.ApiErrorResponse](rr)
	Expect(body.Error).To(Equal(response.ErrorCodeValidationFailed))
	Expect(body.Details).To(Equal([]string{"Title is required."}))
}

func (s *TaskHandlerSuite) TestCreateTask_TooLong() {
	payload := fmt.Sprintf(`{"title":%q,"description":%q}`, strings.Repeat("t", 201), strings.Repeat("d", 2001))

	rr := s.do("POST", "/api/tasks", payload)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ApiErrorResponse](rr).Details).To(ConsistOf(
		"Title must be at most 200 characters.",
		"Description must be at most 2000 characters.",
	))
}

func (s *TaskHandlerSuite) TestCreateTask_MalformedBodies() {
	cases := map[string]string{
		`{"title":`:                            "The request body is not valid JSON.",
		`{"title":5}`:                          "The field 'title' has an invalid value.",
		`{"title":"x","dueDate":"2026-10-20"}`: "The field 'dueDate' has an invalid value.",
	}

	for body, detail := range cases {
		rr := s.do("POST", "/api/tasks", body)

		Expect(rr.Code).To(Equal(http.StatusBadRequest))

		envelope := decode[response.ApiErrorResponse](rr)
		Expect(envelope.Error).To(Equal(response.ErrorCodeValidationFailed))
		Expect(envelope.Details).To(Equal([]string{detail}))
	}

	req, _ := http.NewRequest("POST", "/api/tasks", strings.NewReader(""))
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ApiErrorResponse](rr).Details).To(Equal([]string{"A non-empty request body is required."}))
}

func (s *TaskHandlerSuite) TestGetTask_NotFound() {
	rr := s.do("GET", "/api/tasks/999999", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	body := decode[response.ApiErrorResponse](rr)
	Expect(body.Error).To(Equal(response.ErrorCodeNotFound))
	Expect(body.Message).To(Equal("Task with id '999999' was not found."))
}

func (s *TaskHandlerSuite) TestGetTask_NonIntegerID() {
	rr := s.do("GET", "/api/tasks/abc", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decode[response.ApiErrorResponse](rr).Error).To(Equal(response.ErrorCodeNotFound))
}

func (s *TaskHandlerSuite) TestUpdateTask() {
	created := s.createTask(`{"title":"Draft","description":"first"}`)
	path := fmt.Sprintf("/api/tasks/%d", created.ID)

	rr := s.do("PUT", path, `{"title":"Done","isCompleted":true}`)

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Body.Len()).To(BeZero())

	fetched := decode[response.TaskResponse](s.do("GET", path, ""))
	Expect(fetched.Title).To(Equal("Done"))
	Expect(fetched.IsCompleted).To(BeTrue())
	Expect(fetched.Description.IsNone()).To(BeTrue())
	Expect(fetched.UpdatedAt.IsSome()).To(BeTrue())
}

func (s *TaskHandlerSuite) TestUpdateTask_NotFoundAndInvalid() {
	rr := s.do("PUT", "/api/tasks/4242", `{"title":"x","isCompleted":false}`)
	Expect(rr.Code).To(Equal(http.StatusNotFound))

	created := s.createTask(`{"title":"keep"}`)
	rr = s.do("PUT", fmt.Sprintf("/api/tasks/%d", created.ID), `{"title":"  "}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ApiErrorResponse](rr).Error).To(Equal(response.ErrorCodeValidationFailed))
}

func (s *TaskHandlerSuite) TestDeleteTask() {
	created := s.createTask(`{"title":"Temp"}`)
	path := fmt.Sprintf("/api/tasks/%d", created.ID)

	Expect(s.do("DELETE", path, "").Code).To(Equal(http.StatusNoContent))
	Expect(s.do("GET", path, "").Code).To(Equal(http.StatusNotFound))
	Expect(s.do("DELETE", path, "").Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestHealth() {
	rr := s.do("GET", "/api/health", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decode[response.HealthResponse](rr)
	Expect(body.Status).To(Equal("ok"))
	Expect(body.TimestampUtc).To(BeTemporally("~", time.Now(), time.Minute))
	Expect(body.TimestampUtc.Location()).To(Equal(time.UTC))
}

type brokenService struct {
	port.TaskService
	panics bool
}

func (b brokenService) ListTasks(ctx context.Context) ([]response.TaskResponse, error) {
	if b.panics {
		panic("unexpected state")
	}
	return nil, errors.New("database is locked: /var/lib/tasks.db")
}

func TestTaskHandler_ServerErrors(t *testing.T) {
	RegisterTestingT(t)

	for _, panics := range []bool{false, true} {
		router := setupTaskTestRouter(brokenService{panics: panics})

		req, _ := http.NewRequest("GET", "/api/tasks", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusInternalServerError))
		Expect(rr.Body.String()).ToNot(ContainSubstring("database is locked"))
		Expect(rr.Body.String()).ToNot(ContainSubstring("unexpected state"))

		body := decode[response.ApiErrorResponse](rr)
		Expect(body).To(Equal(response.ApiErrorResponse{
			Error:   response.ErrorCodeServerError,
			Message: "An unexpected error occurred.",
			Details: []string{"TraceId: req-123"},
		}))
	}
}

func TestTaskHandler_IDsBeyondInt32AreNotFound(t *testing.T) {
	RegisterTestingT(t)

	// any call into the service would panic and answer 500
	router := setupTaskTestRouter(brokenService{})

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		req, _ := http.NewRequest(method, "/api/tasks/3000000000", strings.NewReader(`{"title":"x"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusNotFound), method)

		body := decode[response.ApiErrorResponse](rr)
		Expect(body.Error).To(Equal(response.ErrorCodeNotFound))
		Expect(body.Message).To(Equal("Task with id '3000000000' was not found."))
	}
}
