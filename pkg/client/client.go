package client

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

//go:embed task_list.schema.json
var taskListSchema string

const taskListSchemaURL = "task_list.schema.json"

var (
	ErrMissingBaseURL     = errors.New("API base URL is not configured")
	ErrUnexpectedResponse = errors.New("unexpected API response")
)

// APIError is returned for every non-2xx answer; Envelope is zero when the body was not an error envelope.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Envelope   response.ApiErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("HTTP %d while calling %s %s", e.StatusCode, e.Method, e.Path)

	switch {
	case len(e.Envelope.Details) > 0:
		return msg + ": " + strings.Join(e.Envelope.Details, " ")
	case e.Envelope.Message != "":
		return msg + ": " + e.Envelope.Message
	}

	return msg + "."
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	schema     *jsonschema.Schema
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource(taskListSchemaURL, strings.NewReader(taskListSchema)); err != nil {
		return nil, fmt.Errorf("load task list schema: %w", err)
	}

	schema, err := compiler.Compile(taskListSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task list schema: %w", err)
	}

	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		schema:     schema,
	}, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]response.TaskResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/tasks", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := c.validateList(body); err != nil {
		return nil, err
	}

	tasks := make([]response.TaskResponse, 0)

	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return tasks, nil
}

// GetTask reports false when the task does not exist.
func (c *Client) GetTask(ctx context.Context, id int) (response.TaskResponse, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil)

	if IsNotFound(err) {
		return response.TaskResponse{}, false, nil
	}

	if err != nil {
		return response.TaskResponse{}, false, err
	}
	defer resp.Body.Close()

	var task response.TaskResponse

	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return response.TaskResponse{}, false, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return task, true, nil
}

func (c *Client) CreateTask(ctx context.Context, req request.CreateTaskRequest) (response.TaskResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/tasks", req)
	if err != nil {
		return response.TaskResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return response.TaskResponse{}, fmt.Errorf("%w: 204 No Content for create, expected a task", ErrUnexpectedResponse)
	}

	var task response.TaskResponse

	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return response.TaskResponse{}, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return task, nil
}

// UpdateTask surfaces a missing task as an *APIError with status 404.
func (c *Client) UpdateTask(ctx context.Context, id int, req request.UpdateTaskRequest) error {
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), req)
	if err != nil {
		return err
	}

	drain(resp)

	return nil
}

// DeleteTask reports false when the task was already gone.
func (c *Client) DeleteTask(ctx context.Context, id int) (bool, error) {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil)

	if IsNotFound(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	drain(resp)

	return true, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer drain(resp)

	apiErr := &APIError{StatusCode: resp.StatusCode, Method: method, Path: path}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr.Envelope)

	return nil, apiErr
}

func (c *Client) validateList(body []byte) error {
	var doc interface{}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	if err := c.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError

		if errors.As(err, &ve) {
			leaf := firstLeaf(ve)
			return fmt.Errorf("%w: %s at %q", ErrUnexpectedResponse, leaf.Message, leaf.InstanceLocation)
		}

		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return nil
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
