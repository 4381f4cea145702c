package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapp/internal/core/model/response"
	"taskapp/pkg/option"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func press(f *taskForm, saving bool, keys ...tea.KeyMsg) formAction {
	action := formNone
	for _, k := range keys {
		action, _ = f.handleKey(k, saving)
	}
	return action
}

func TestTaskForm_CreateRequest(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	press(f, false,
		runes("  Buy milk  "), key(tea.KeyTab),
		runes("   "), key(tea.KeyTab),
		runes("2025-03-01 09:30"),
	)

	req, err := f.createRequest()

	require.NoError(t, err)
	assert.Equal(t, "Buy milk", req.Title)
	assert.True(t, req.Description.IsNone())
	assert.Equal(t, option.Some(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)), req.DueDate)
}

func TestTaskForm_DueDateIsLocalTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	f := newTaskForm(FormCreating(), loc)
	f.title.SetValue("x")
	f.dueDate.SetValue("2025-03-01 09:30")

	req, err := f.createRequest()

	require.NoError(t, err)
	due, _ := req.DueDate.Get()
	assert.Equal(t, time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC), due)
}

func TestTaskForm_InvalidDueDate(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)
	f.title.SetValue("x")
	f.dueDate.SetValue("tomorrow")

	_, err := f.createRequest()

	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestTaskForm_SubmitDisabled(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	assert.Equal(t, formNone, press(f, false, key(tea.KeyEnter)))

	press(f, false, runes("   "))
	assert.False(t, f.canSubmit(false))

	press(f, false, runes("a"))
	assert.True(t, f.canSubmit(false))
	assert.False(t, f.canSubmit(true))
	assert.Equal(t, formNone, press(f, true, key(tea.KeyEnter)))
	assert.Equal(t, formSubmit, press(f, false, key(tea.KeyEnter)))
	assert.Equal(t, formSubmit, press(f, false, key(tea.KeyCtrlS)))
}

func TestTaskForm_TitleMaxLength(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	press(f, false, runes(strings.Repeat("é", 250)))
	assert.Equal(t, 200, len([]rune(f.title.Value())))

	press(f, false, key(tea.KeyBackspace))
	assert.Equal(t, 199, len([]rune(f.title.Value())))
}

func TestTaskForm_EditsInsideTheTitle(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	press(f, false, runes("Buy milk"))
	for range len("milk") {
		press(f, false, key(tea.KeyLeft))
	}
	press(f, false, runes("oat "))

	assert.Equal(t, "Buy oat milk", f.title.Value())
}

func TestTaskForm_DescriptionIsMultiline(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	action := press(f, false,
		runes("Title"), key(tea.KeyTab),
		runes("first line"), key(tea.KeyEnter), runes("second line"),
	)

	assert.Equal(t, formNone, action)

	req, err := f.createRequest()

	require.NoError(t, err)
	assert.Equal(t, option.Some("first line\nsecond line"), req.Description)
	assert.Equal(t, formSubmit, press(f, false, key(tea.KeyCtrlS)))
}

func TestTaskForm_DescriptionMaxLength(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	press(f, false, key(tea.KeyTab), runes(strings.Repeat("d", 2100)))

	assert.Equal(t, 2000, len(f.description.Value()))
}

func TestTaskForm_CompletedOnlyWhenEditing(t *testing.T) {
	create := newTaskForm(FormCreating(), time.UTC)
	assert.NotContains(t, create.fields(), fieldCompleted)
	assert.NotContains(t, create.view(false, ""), "Completed")

	due := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	edit := newTaskForm(FormEditing(response.TaskResponse{
		ID:          3,
		Title:       "Draft",
		Description: option.Some("notes"),
		DueDate:     option.Some(due),
	}), time.UTC)

	assert.Equal(t, "Draft", edit.title.Value())
	assert.Equal(t, "notes", edit.description.Value())
	assert.Equal(t, "2025-03-01 09:30", edit.dueDate.Value())

	press(edit, false, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab))
	assert.Equal(t, fieldCompleted, edit.focus)
	press(edit, false, key(tea.KeySpace))

	req, err := edit.updateRequest()

	require.NoError(t, err)
	assert.True(t, req.IsCompleted)
	assert.Equal(t, option.Some("notes"), req.Description)
	assert.Equal(t, option.Some(due), req.DueDate)
}

func TestTaskForm_EscCancelsUnlessSaving(t *testing.T) {
	f := newTaskForm(FormCreating(), time.UTC)

	assert.Equal(t, formNone, press(f, true, key(tea.KeyEsc)))
	assert.Equal(t, formCancel, press(f, false, key(tea.KeyEsc)))
}
