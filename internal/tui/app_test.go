package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pdxmph/tasklist-tui/internal/storage"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, seed bool, opts Options) (Model, *tasks.Store) {
	t.Helper()
	storeOpts := tasks.DefaultOptions()
	storeOpts.Seed = seed
	store, err := tasks.Open(storage.NewMemoryBackend(), storeOpts)
	require.NoError(t, err)

	if opts.CardBreakpoint == 0 {
		opts.CardBreakpoint = 100
	}
	m := New(store, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys through Update in order
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestAddTaskThroughForm(t *testing.T) {
	m, store := newTestModel(t, false, Options{})

	m = press(m, "a")
	require.True(t, m.formMode, "a should open the form")

	m = press(m, "Buy milk", "tab", "Two litres", "tab", "2024-05-01", "enter")
	require.False(t, m.formMode, "form still open: %q", m.form.errMsg)
	assert.Equal(t, "Task added!", m.status)

	assert.Equal(t, []tasks.Task{{
		ID:          1,
		Name:        "Buy milk",
		Description: "Two litres",
		DueDate:     "2024-05-01",
		Status:      tasks.StatusPending,
		Priority:    tasks.PriorityMedium,
	}}, store.Tasks())
	assert.Contains(t, m.View(), "Buy milk")
}

func TestAddFormPriorityCycle(t *testing.T) {
	m, store := newTestModel(t, false, Options{})

	m = press(m, "a", "n", "tab", "d", "tab", "2024-01-01", "tab", " ", "enter")
	require.False(t, m.formMode, "form still open: %q", m.form.errMsg)

	list := store.Tasks()
	require.Len(t, list, 1)
	assert.Equal(t, tasks.PriorityHigh, list[0].Priority)
}

func TestAddFormRequiresAllFields(t *testing.T) {
	m, store := newTestModel(t, false, Options{})

	m = press(m, "a", "Only a title", "enter")
	require.True(t, m.formMode, "form closed despite missing fields")
	assert.Equal(t, "Please enter all fields", m.form.errMsg)
	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.View(), "Please enter all fields")

	m = press(m, "esc")
	assert.False(t, m.formMode, "esc should close the form")
}

func TestEditTaskThroughForm(t *testing.T) {
	m, store := newTestModel(t, true, Options{})

	// Clear the title and type a new one
	m = press(m, "e")
	require.True(t, m.formMode)
	for range store.Tasks()[0].Name {
		m = press(m, "backspace")
	}
	m = press(m, "Renamed", "enter")
	require.Equal(t, "Task updated!", m.status, "form error %q", m.form.errMsg)

	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "2024-03-12", got.DueDate)
	assert.Equal(t, tasks.StatusInProgress, got.Status)
}

func TestEditEmptyTitleRejected(t *testing.T) {
	m, store := newTestModel(t, true, Options{})

	m = press(m, "e")
	for range store.Tasks()[0].Name {
		m = press(m, "backspace")
	}
	m = press(m, "enter")

	assert.True(t, m.formMode)
	assert.Equal(t, "Title cannot be empty", m.form.errMsg)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, store := newTestModel(t, true, Options{})

	m = press(m, "d")
	require.Equal(t, confirmDelete, m.confirm)
	assert.Contains(t, m.View(), "Are you sure you want to delete 'Design landing page'?")

	m = press(m, "n")
	require.Equal(t, 5, store.Len(), "declined delete removed a task")

	m = press(m, "d", "y")
	require.Equal(t, 4, store.Len())
	_, err := store.Get(1)
	assert.ErrorIs(t, err, tasks.ErrTaskNotFound)
	assert.Equal(t, "Deleted! Your task has been deleted.", m.status)
}

func TestClearAll(t *testing.T) {
	m, store := newTestModel(t, true, Options{})

	m = press(m, "X", "y")
	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.View(), "No Task Found")
}

func TestPriorityKeys(t *testing.T) {
	m, store := newTestModel(t, true, Options{})

	m = press(m, "p")
	got, _ := store.Get(1)
	assert.Equal(t, tasks.PriorityHigh, got.Priority)

	press(m, "P", "P")
	got, _ = store.Get(1)
	assert.Equal(t, tasks.PriorityLow, got.Priority)
}

func TestStatusFilterPicker(t *testing.T) {
	m, _ := newTestModel(t, true, Options{})

	// All, Pending, In Progress, Completed
	m = press(m, "s", "j", "j", "j", "enter")
	require.Equal(t, tasks.StatusCompleted, m.view.Filter.Status)
	visible := m.visibleTasks()
	require.Len(t, visible, 2)
	for _, task := range visible {
		assert.Equal(t, tasks.StatusCompleted, task.Status)
	}

	m = press(m, "s", "k", "k", "enter")
	assert.Equal(t, tasks.StatusPending, m.view.Filter.Status)
	assert.Empty(t, m.visibleTasks(), "no seeded task is Pending")
	assert.Contains(t, m.View(), "No Task Found")

	m = press(m, "C")
	assert.True(t, m.view.Filter.IsZero())
	assert.Len(t, m.visibleTasks(), 5)
}

func TestPriorityFilterPicker(t *testing.T) {
	m, store := newTestModel(t, true, Options{})
	_, err := store.SetPriority(4, tasks.PriorityHigh)
	require.NoError(t, err)
	m.reload()

	// All, Low, Medium, High
	m = press(m, "f", "j", "j", "j", "enter")
	visible := m.visibleTasks()
	require.Len(t, visible, 1)
	assert.Equal(t, 4, visible[0].ID)
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t, true, Options{})

	m = press(m, "/", "BRAND", "enter")
	visible := m.visibleTasks()
	require.Len(t, visible, 1)
	assert.Equal(t, 3, visible[0].ID)

	m = press(m, "esc")
	assert.Len(t, m.visibleTasks(), 5, "esc clears the search")
}

func TestSortTogglesViewOnly(t *testing.T) {
	m, store := newTestModel(t, true, Options{})

	m = press(m, "o")
	assert.Equal(t, 2, m.visibleTasks()[0].ID)
	assert.Equal(t, "Sorted by due date (asc)", m.status)

	m = press(m, "o")
	assert.Equal(t, 5, m.visibleTasks()[0].ID)
	assert.Equal(t, 1, store.Tasks()[0].ID, "stored order is untouched")
}

func TestSortPersisted(t *testing.T) {
	m, store := newTestModel(t, true, Options{PersistSort: true})

	press(m, "o")
	assert.Equal(t, 2, store.Tasks()[0].ID)
}

func TestCardsBelowBreakpoint(t *testing.T) {
	m, _ := newTestModel(t, true, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	narrow := next.(Model).View()
	assert.Contains(t, narrow, "Title:")
	assert.Contains(t, narrow, "Due Date:")
	assert.NotContains(t, narrow, "SL.No")

	assert.Contains(t, m.View(), "SL.No")
}

func TestNavigationStaysInBounds(t *testing.T) {
	m, _ := newTestModel(t, true, Options{})

	m = press(m, "k")
	assert.Equal(t, 0, m.selected)

	m = press(m, "j", "j", "j", "j", "j", "j")
	assert.Equal(t, 4, m.selected)
}

func TestNoticeShownAtStartup(t *testing.T) {
	m, _ := newTestModel(t, false, Options{Notice: "recovered"})
	assert.Contains(t, m.View(), "recovered")
}
