package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/pkg/config"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TaskHandler struct {
	svc       port.TaskService
	validator port.Validator
	Logger    *config.LokiLogger
}

func NewTaskHandler(svc port.TaskService, validator port.Validator, logger *config.LokiLogger) *TaskHandler {
	return &TaskHandler{
		svc:       svc,
		validator: validator,
		Logger:    logger,
	}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ctx, span := h.startSpan(c, "ListTasks")
	defer span.End()

	tasks, err := h.svc.ListTasks(ctx)

	if err != nil {
		h.fail(c, span, err)
		return
	}

	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "GetTask")
	defer span.End()

	id, ok := parseID(c)
	if !ok {
		return
	}

	task, found, err := h.svc.GetTask(ctx, id)

	if err != nil {
		h.fail(c, span, err)
		return
	}

	if !found {
		SendTaskNotFoundError(c, c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "CreateTask")
	defer span.End()

	var req request.CreateTaskRequest

	if !h.bind(c, span, &req) {
		return
	}

	task, err := h.svc.CreateTask(ctx, req)

	if err != nil {
		h.fail(c, span, err)
		return
	}

	span.SetAttributes(attribute.Int("task.id", task.ID))

	c.Header("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "UpdateTask")
	defer span.End()

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req request.UpdateTaskRequest

	if !h.bind(c, span, &req) {
		return
	}

	updated, err := h.svc.UpdateTask(ctx, id, req)

	if err != nil {
		h.fail(c, span, err)
		return
	}

	if !updated {
		SendTaskNotFoundError(c, c.Param("id"))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "DeleteTask")
	defer span.End()

	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteTask(ctx, id)

	if err != nil {
		h.fail(c, span, err)
		return
	}

	if !deleted {
		SendTaskNotFoundError(c, c.Param("id"))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) startSpan(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.task."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

// bind decodes and validates the body; on failure the 400 envelope is already written.
func (h *TaskHandler) bind(c *gin.Context, span trace.Span, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		AddSpanEvent(span, "request.malformed", nil)
		SendValidationError(c, []string{describeDecodeError(err)})
		return false
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		details := h.validator.FormatValidationErrors(err)
		AddSpanEvent(span, "request.invalid", []attribute.KeyValue{
			attribute.StringSlice("validation.errors", details),
		})
		SendValidationError(c, details)
		return false
	}

	return true
}

// fail hands err to the error middleware, which answers 500.
func (h *TaskHandler) fail(c *gin.Context, span trace.Span, err error) {
	AddSpanError(span, err)

	if h.Logger != nil {
		h.Logger.Logger.Ctx(c.Request.Context()).Error("Task request failed",
			zap.Error(err),
			zap.String("route", c.FullPath()),
		)
	}

	_ = c.Error(err)
}

// parseID answers 404 when the segment is not a 32-bit integer, as no route would match it.
// Ids outside int32 cannot exist in any backend.
func parseID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 32)

	if err != nil {
		SendTaskNotFoundError(c, raw)
		return 0, false
	}

	return int(id), true
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError

	switch {
	case errors.Is(err, io.EOF):
		return "A non-empty request body is required."
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("The field '%s' has an invalid value.", typeErr.Field)
	case errors.As(err, &timeErr):
		// dueDate is the only timestamp a client sends.
		return "The field 'dueDate' has an invalid value."
	default:
		return "The request body is not valid JSON."
	}
}
