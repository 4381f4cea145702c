package mutation

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"taskapp/internal/core/model/request"
	"taskapp/internal/core/model/response"
)

// Mutator is the subset of the API client the mutations need.
type Mutator interface {
	CreateTask(ctx context.Context, req request.CreateTaskRequest) (response.TaskResponse, error)
	UpdateTask(ctx context.Context, id int, req request.UpdateTaskRequest) error
	DeleteTask(ctx context.Context, id int) (bool, error)
}

// Status is the pending flag and last failure of one mutation.
type Status struct {
	Pending bool
	Err     string
}

// TaskMutations tracks create, update and remove independently.
// Callers refresh the list themselves after a mutation settles.
type TaskMutations struct {
	api    Mutator
	logger *log.Logger

	mu     sync.Mutex
	create Status
	update Status
	remove Status
}

func NewTaskMutations(api Mutator, logger *log.Logger) *TaskMutations {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &TaskMutations{api: api, logger: logger}
}

func (m *TaskMutations) Create(ctx context.Context, req request.CreateTaskRequest) (response.TaskResponse, error) {
	m.begin(&m.create)

	task, err := m.api.CreateTask(ctx, req)
	m.settle(&m.create, "create", err)

	return task, err
}

func (m *TaskMutations) Update(ctx context.Context, id int, req request.UpdateTaskRequest) error {
	m.begin(&m.update)

	err := m.api.UpdateTask(ctx, id, req)
	m.settle(&m.update, "update", err, "id", id)

	return err
}

// Remove reports false when the task was already gone.
func (m *TaskMutations) Remove(ctx context.Context, id int) (bool, error) {
	m.begin(&m.remove)

	deleted, err := m.api.DeleteTask(ctx, id)
	m.settle(&m.remove, "remove", err, "id", id)

	return deleted, err
}

func (m *TaskMutations) CreateStatus() Status { return m.snapshot(&m.create) }
func (m *TaskMutations) UpdateStatus() Status { return m.snapshot(&m.update) }
func (m *TaskMutations) RemoveStatus() Status { return m.snapshot(&m.remove) }

// Saving is true while a create or update is in flight.
func (m *TaskMutations) Saving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create.Pending || m.update.Pending
}

func (m *TaskMutations) begin(s *Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Pending = true
	s.Err = ""
}

func (m *TaskMutations) settle(s *Status, op string, err error, keyvals ...interface{}) {
	m.mu.Lock()
	s.Pending = false
	if err != nil {
		s.Err = err.Error()
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("task mutation failed", append([]interface{}{"op", op, "err", err}, keyvals...)...)
		return
	}
	m.logger.Debug("task mutation done", append([]interface{}{"op", op}, keyvals...)...)
}

func (m *TaskMutations) snapshot(s *Status) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *s
}
