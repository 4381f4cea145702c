package query

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"taskapp/internal/core/model/response"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

type Loader interface {
	ListTasks(ctx context.Context) ([]response.TaskResponse, error)
}

// State is a snapshot; Tasks keeps the last successful list even when Status is StatusError.
type State struct {
	Status Status
	Err    string
	Tasks  []response.TaskResponse
}

type TasksQuery struct {
	loader Loader
	logger *log.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	listeners  []func(State)
}

func NewTasksQuery(loader Loader, logger *log.Logger) *TasksQuery {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &TasksQuery{
		loader: loader,
		logger: logger,
		state:  State{Status: StatusIdle, Tasks: []response.TaskResponse{}},
	}
}

// Subscribe registers fn to receive every state change. fn runs on the goroutine calling Reload.
func (q *TasksQuery) Subscribe(fn func(State)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, fn)
}

func (q *TasksQuery) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

// Reload cancels any load still in flight and fetches the list again.
// A load that is canceled or superseded returns nil and leaves no error behind.
func (q *TasksQuery) Reload(ctx context.Context) error {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.generation++
	generation := q.generation
	previous := q.state.Status
	q.cancel = cancel
	q.state.Status = StatusLoading
	q.state.Err = ""
	q.publishAndUnlock()

	tasks, err := q.loader.ListTasks(loadCtx)

	q.mu.Lock()

	if generation != q.generation {
		q.mu.Unlock()
		q.logger.Debug("discarding superseded task load", "generation", generation)
		return nil
	}

	q.cancel = nil

	switch {
	case err == nil:
		if tasks == nil {
			tasks = []response.TaskResponse{}
		}
		q.state = State{Status: StatusSuccess, Tasks: tasks}
		q.logger.Debug("tasks loaded", "count", len(tasks))

	case errors.Is(err, context.Canceled):
		q.state.Status = previous
		q.logger.Debug("task load canceled")
		err = nil

	default:
		q.state.Status = StatusError
		q.state.Err = err.Error()
		q.logger.Error("loading tasks failed", "err", err)
	}

	q.publishAndUnlock()

	return err
}

// Close cancels the load in flight, if any.
func (q *TasksQuery) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *TasksQuery) snapshot() State {
	tasks := make([]response.TaskResponse, len(q.state.Tasks))
	copy(tasks, q.state.Tasks)

	return State{Status: q.state.Status, Err: q.state.Err, Tasks: tasks}
}

// publishAndUnlock releases q.mu before calling listeners so they may read State.
func (q *TasksQuery) publishAndUnlock() {
	snap := q.snapshot()
	listeners := append([]func(State){}, q.listeners...)
	q.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
