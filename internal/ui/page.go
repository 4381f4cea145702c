package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskapp/internal/client/mutation"
	"taskapp/internal/client/query"
	"taskapp/internal/core/model/response"
)

// API is what the page needs from the tasks client.
type API interface {
	query.Loader
	mutation.Mutator
}

type loadedMsg struct{ err error }

type savedMsg struct{ err error }

type removedMsg struct {
	task    response.TaskResponse
	deleted bool
	err     error
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithLocation sets the zone due dates are typed and shown in.
func WithLocation(loc *time.Location) PageOption {
	return func(p *Page) {
		p.loc = loc
	}
}

// WithContext bounds every request the page issues.
func WithContext(ctx context.Context) PageOption {
	return func(p *Page) {
		p.ctx = ctx
	}
}

// Page is the tasks screen.
type Page struct {
	ctx       context.Context
	loc       *time.Location
	logger    *log.Logger
	query     *query.TasksQuery
	mutations *mutation.TaskMutations

	filter   StatusFilter
	cursor   int
	formSt   FormState
	form     *taskForm
	formErr  string
	confirm  confirmDialog
	saving   bool
	deleting bool
}

func NewPage(api API, logger *log.Logger, opts ...PageOption) *Page {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	p := &Page{
		ctx:       context.Background(),
		loc:       time.Local,
		logger:    logger,
		query:     query.NewTasksQuery(api, logger),
		mutations: mutation.NewTaskMutations(api, logger),
		filter:    FilterAll,
		formSt:    FormClosed(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Page) Init() tea.Cmd {
	return p.reload()
}

func (p *Page) reload() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: p.query.Reload(p.ctx)}
	}
}

func (p *Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			p.logger.Warn("loading tasks failed", "err", msg.err)
		}
		p.clampCursor()
		return p, nil

	case savedMsg:
		p.saving = false
		if msg.err != nil {
			return p, nil
		}
		p.closeForm()
		return p, p.reload()

	case removedMsg:
		p.deleting = false
		p.confirm = confirmDialog{}
		if msg.err != nil {
			return p, nil
		}
		if !msg.deleted {
			p.logger.Info("task already removed", "id", msg.task.ID)
		}
		return p, p.reload()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return p, tea.Quit
		}
		switch {
		case p.confirm.open:
			return p, p.handleConfirmKey(msg)
		case p.formSt.IsOpen():
			return p, p.handleFormKey(msg)
		default:
			return p, p.handleListKey(msg)
		}
	}

	return p, nil
}

func (p *Page) handleListKey(msg tea.KeyMsg) tea.Cmd {
	visible := p.visibleTasks()

	switch msg.String() {
	case "q":
		return tea.Quit
	case "n":
		p.openForm(FormCreating())
	case "e", "enter":
		if task, ok := p.selected(visible); ok {
			p.openForm(FormEditing(task))
		}
	case "d", "delete":
		if task, ok := p.selected(visible); ok && !p.deleting {
			p.confirm = confirmDialog{open: true, task: task}
		}
	case "r", "f5":
		if p.query.State().Status == query.StatusLoading {
			return nil
		}
		return p.reload()
	case "f":
		p.setFilter(p.filter.Next())
	case "1":
		p.setFilter(FilterAll)
	case "2":
		p.setFilter(FilterOpen)
	case "3":
		p.setFilter(FilterCompleted)
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(visible)-1 {
			p.cursor++
		}
	}

	return nil
}

func (p *Page) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	action, cmd := p.form.handleKey(msg, p.isSaving())

	switch action {
	case formCancel:
		p.closeForm()
	case formSubmit:
		return p.submit()
	}
	return cmd
}

func (p *Page) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		if p.deleting {
			return nil
		}
		p.deleting = true
		task := p.confirm.task
		return func() tea.Msg {
			deleted, err := p.mutations.Remove(p.ctx, task.ID)
			return removedMsg{task: task, deleted: deleted, err: err}
		}
	case "n", "esc":
		if !p.deleting {
			p.confirm = confirmDialog{}
		}
	}
	return nil
}

func (p *Page) submit() tea.Cmd {
	p.formErr = ""

	if task, ok := p.formSt.Editing(); ok {
		req, err := p.form.updateRequest()
		if err != nil {
			p.formErr = err.Error()
			return nil
		}
		p.saving = true
		return func() tea.Msg {
			return savedMsg{err: p.mutations.Update(p.ctx, task.ID, req)}
		}
	}

	req, err := p.form.createRequest()
	if err != nil {
		p.formErr = err.Error()
		return nil
	}
	p.saving = true
	return func() tea.Msg {
		_, err := p.mutations.Create(p.ctx, req)
		return savedMsg{err: err}
	}
}

func (p *Page) openForm(state FormState) {
	p.formSt = state
	p.form = newTaskForm(state, p.loc)
	p.formErr = ""
}

func (p *Page) closeForm() {
	p.formSt = FormClosed()
	p.form = nil
	p.formErr = ""
}

func (p *Page) setFilter(filter StatusFilter) {
	p.filter = filter
	p.clampCursor()
}

func (p *Page) isSaving() bool {
	return p.saving || p.mutations.Saving()
}

func (p *Page) visibleTasks() []response.TaskResponse {
	return FilterTasks(p.query.State().Tasks, p.filter)
}

func (p *Page) selected(visible []response.TaskResponse) (response.TaskResponse, bool) {
	if p.cursor < 0 || p.cursor >= len(visible) {
		return response.TaskResponse{}, false
	}
	return visible[p.cursor], true
}

func (p *Page) clampCursor() {
	n := len(p.visibleTasks())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *Page) View() string {
	var b strings.Builder
	state := p.query.State()

	b.WriteString(titleStyle.Render("Tasks") + "  ")
	refresh := "[r] Refresh"
	if state.Status == query.StatusLoading {
		refresh = "Loading..."
	}
	b.WriteString(helpStyle.Render("[n] + New Task  "+refresh) + "\n")
	b.WriteString(fmt.Sprintf("Filter: %s %s\n\n", p.filter.Label(), helpStyle.Render("(f to change)")))

	if p.formSt.IsOpen() {
		errMsg := p.formErr
		if errMsg == "" {
			if p.formSt.IsCreating() {
				errMsg = p.mutations.CreateStatus().Err
			} else {
				errMsg = p.mutations.UpdateStatus().Err
			}
		}
		b.WriteString(p.form.view(p.isSaving(), errMsg) + "\n\n")
	}

	if p.confirm.open {
		b.WriteString(p.confirm.view(p.deleting) + "\n\n")
	}

	if errMsg := p.mutations.RemoveStatus().Err; errMsg != "" {
		b.WriteString(errorStyle.Render("Delete error: "+errMsg) + "\n\n")
	}

	switch state.Status {
	case query.StatusLoading:
		b.WriteString("Loading tasks...\n\n")
	case query.StatusError:
		b.WriteString(errorStyle.Render("Couldn't load tasks: "+state.Err) + "\n")
		b.WriteString(buttonStyle.Render("[r] Retry") + "\n\n")
	case query.StatusSuccess:
		if len(state.Tasks) == 0 {
			b.WriteString("No tasks yet.\n\n")
		}
	}

	if len(state.Tasks) > 0 {
		visible := FilterTasks(state.Tasks, p.filter)
		if len(visible) == 0 {
			b.WriteString("No tasks match this filter.\n\n")
		} else {
			b.WriteString(renderList(visible, p.cursor, p.loc) + "\n\n")
		}
	}

	b.WriteString(helpStyle.Render("j/k move | e edit | d delete | 1-3 filter | q quit"))
	return b.String()
}

// Close cancels any in-flight list load.
func (p *Page) Close() {
	p.query.Close()
}

// Run shows the page until the user quits or ctx is done.
func Run(ctx context.Context, api API, logger *log.Logger, opts ...PageOption) error {
	page := NewPage(api, logger, append([]PageOption{WithContext(ctx)}, opts...)...)
	defer page.Close()

	program := tea.NewProgram(page, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run task page: %w", err)
	}
	return nil
}
