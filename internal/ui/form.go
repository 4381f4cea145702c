package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/pkg/option"
)

// DueDateLayout is the format typed into the due date field, in local time.
const DueDateLayout = "2006-01-02 15:04"

var ErrInvalidDueDate = errors.New("due date must look like " + DueDateLayout)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDueDate
	fieldCompleted
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

type taskForm struct {
	state       FormState
	loc         *time.Location
	focus       formField
	title       textinput.Model
	description textarea.Model
	dueDate     textinput.Model
	completed   bool
}

func newTaskForm(state FormState, loc *time.Location) *taskForm {
	if loc == nil {
		loc = time.Local
	}

	f := &taskForm{
		state:       state,
		loc:         loc,
		title:       newInput(domain.TitleMaxLength, "e.g., Buy groceries"),
		description: textarea.New(),
		dueDate:     newInput(len(DueDateLayout), DueDateLayout),
	}

	f.description.CharLimit = domain.DescriptionMaxLength
	f.description.Placeholder = "Optional"
	f.description.ShowLineNumbers = false
	f.description.Prompt = ""
	f.description.SetWidth(60)
	f.description.SetHeight(4)
	f.description.Cursor.SetMode(cursor.CursorStatic)

	if task, ok := state.Editing(); ok {
		f.title.SetValue(task.Title)
		f.description.SetValue(task.Description.OrElse(""))
		f.completed = task.IsCompleted
		if due, ok := task.DueDate.Get(); ok {
			f.dueDate.SetValue(due.In(loc).Format(DueDateLayout))
		}
	}

	f.setFocus(fieldTitle)

	return f
}

func newInput(limit int, placeholder string) textinput.Model {
	in := textinput.New()
	in.CharLimit = limit
	in.Placeholder = placeholder
	in.Prompt = ""
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func (f *taskForm) fields() []formField {
	if f.state.IsCreating() {
		return []formField{fieldTitle, fieldDescription, fieldDueDate}
	}
	return []formField{fieldTitle, fieldDescription, fieldDueDate, fieldCompleted}
}

// canSubmit is false while the title is blank or a save is in flight.
func (f *taskForm) canSubmit(saving bool) bool {
	return strings.TrimSpace(f.title.Value()) != "" && !saving
}

// handleKey routes msg to the focused field. Enter submits except inside the
// description, where it breaks the line; ctrl+s submits from anywhere.
func (f *taskForm) handleKey(msg tea.KeyMsg, saving bool) (formAction, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if saving {
			return formNone, nil
		}
		return formCancel, nil
	case tea.KeyCtrlS:
		return f.submitAction(saving), nil
	case tea.KeyEnter:
		if f.focus != fieldDescription {
			return f.submitAction(saving), nil
		}
	case tea.KeyTab:
		f.moveFocus(1)
		return formNone, nil
	case tea.KeyShiftTab:
		f.moveFocus(-1)
		return formNone, nil
	}

	if saving {
		return formNone, nil
	}

	var cmd tea.Cmd

	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDueDate:
		f.dueDate, cmd = f.dueDate.Update(msg)
	case fieldCompleted:
		if msg.Type == tea.KeySpace || msg.String() == "x" {
			f.completed = !f.completed
		}
	}

	return formNone, cmd
}

func (f *taskForm) submitAction(saving bool) formAction {
	if !f.canSubmit(saving) {
		return formNone
	}
	return formSubmit
}

func (f *taskForm) moveFocus(delta int) {
	fields := f.fields()
	idx := 0
	for i, field := range fields {
		if field == f.focus {
			idx = i
		}
	}
	f.setFocus(fields[(idx+delta+len(fields))%len(fields)])
}

func (f *taskForm) setFocus(field formField) {
	f.focus = field

	f.title.Blur()
	f.description.Blur()
	f.dueDate.Blur()

	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	case fieldDueDate:
		f.dueDate.Focus()
	}
}

func (f *taskForm) parsedDescription() option.Option[string] {
	desc := strings.TrimSpace(f.description.Value())
	if desc == "" {
		return option.None[string]()
	}
	return option.Some(desc)
}

func (f *taskForm) parsedDueDate() (option.Option[time.Time], error) {
	raw := strings.TrimSpace(f.dueDate.Value())
	if raw == "" {
		return option.None[time.Time](), nil
	}

	due, err := time.ParseInLocation(DueDateLayout, raw, f.loc)
	if err != nil {
		return option.None[time.Time](), fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
	}
	return option.Some(due.UTC()), nil
}

func (f *taskForm) createRequest() (request.CreateTaskRequest, error) {
	due, err := f.parsedDueDate()
	if err != nil {
		return request.CreateTaskRequest{}, err
	}

	return request.CreateTaskRequest{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.parsedDescription(),
		DueDate:     due,
	}, nil
}

func (f *taskForm) updateRequest() (request.UpdateTaskRequest, error) {
	due, err := f.parsedDueDate()
	if err != nil {
		return request.UpdateTaskRequest{}, err
	}

	return request.UpdateTaskRequest{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.parsedDescription(),
		IsCompleted: f.completed,
		DueDate:     due,
	}, nil
}

func (f *taskForm) view(saving bool, errMsg string) string {
	var b strings.Builder

	heading := "Edit Task"
	submit := "Save"
	if f.state.IsCreating() {
		heading = "Create Task"
		submit = "Create"
	}
	if saving {
		submit = "Saving..."
	}

	b.WriteString(headingStyle.Render(heading) + "\n\n")
	if errMsg != "" {
		b.WriteString(errorStyle.Render("Error: "+errMsg) + "\n\n")
	}

	b.WriteString(f.line(fieldTitle, "Title *", f.title.View()))
	b.WriteString(f.line(fieldDescription, "Description", "\n"+f.description.View()))
	b.WriteString(f.line(fieldDueDate, "Due date", f.dueDate.View()))

	if !f.state.IsCreating() {
		box := "[ ]"
		if f.completed {
			box = "[x]"
		}
		b.WriteString(f.line(fieldCompleted, "Completed", box))
	}

	b.WriteString("\n")
	if f.canSubmit(saving) {
		b.WriteString(buttonStyle.Render(submit))
	} else {
		b.WriteString(disabledStyle.Render(submit))
	}
	b.WriteString("  " + helpStyle.Render("enter/ctrl+s submit | tab next field | esc cancel") + "\n")

	return boxStyle.Render(b.String())
}

func (f *taskForm) line(field formField, label, value string) string {
	marker := "  "
	if f.focus == field {
		marker = focusStyle.Render("> ")
	}

	return fmt.Sprintf("%s%-12s %s\n", marker, label, value)
}
