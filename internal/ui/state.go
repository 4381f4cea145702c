// Package ui is the terminal task page: a list with filter, a create/edit
// form and a delete confirmation, all talking to the tasks API.
package ui

import (
	"taskapp/internal/core/model/response"
)

type formMode int

const (
	formClosed formMode = iota
	formCreating
	formEditing
)

// FormState is closed, creating, or editing a specific task.
// Only Editing carries a task.
type FormState struct {
	mode formMode
	task response.TaskResponse
}

func FormClosed() FormState   { return FormState{mode: formClosed} }
func FormCreating() FormState { return FormState{mode: formCreating} }

func FormEditing(task response.TaskResponse) FormState {
	return FormState{mode: formEditing, task: task}
}

func (f FormState) IsOpen() bool     { return f.mode != formClosed }
func (f FormState) IsCreating() bool { return f.mode == formCreating }

// Editing returns the task under edit.
func (f FormState) Editing() (response.TaskResponse, bool) {
	if f.mode != formEditing {
		return response.TaskResponse{}, false
	}
	return f.task, true
}

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterOpen      StatusFilter = "open"
	FilterCompleted StatusFilter = "completed"
)

var filterOrder = []StatusFilter{FilterAll, FilterOpen, FilterCompleted}

func (f StatusFilter) Label() string {
	switch f {
	case FilterOpen:
		return "Open"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles all -> open -> completed -> all.
func (f StatusFilter) Next() StatusFilter {
	for i, candidate := range filterOrder {
		if candidate == f {
			return filterOrder[(i+1)%len(filterOrder)]
		}
	}
	return FilterAll
}

// FilterTasks keeps the order of tasks. Unknown filters behave like FilterAll.
func FilterTasks(tasks []response.TaskResponse, filter StatusFilter) []response.TaskResponse {
	out := make([]response.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		switch filter {
		case FilterOpen:
			if task.IsCompleted {
				continue
			}
		case FilterCompleted:
			if !task.IsCompleted {
				continue
			}
		}
		out = append(out, task)
	}
	return out
}
