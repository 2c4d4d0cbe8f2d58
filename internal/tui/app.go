package tui

import (
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
)

// Options tunes the model beyond what the store carries
type Options struct {
	// PersistSort writes the sorted order back to storage instead of only
	// sorting the view
	PersistSort bool

	// CardBreakpoint is the terminal width below which tasks render as cards
	CardBreakpoint int

	// Notice is shown on the status line at startup
	Notice string
}

// Which picker overlay is open
const (
	pickerNone = iota
	pickerPriority
	pickerStatus
)

// What a y/n confirmation applies to
const (
	confirmNone = iota
	confirmDelete
	confirmClear
)

// Model represents the main application state
type Model struct {
	store    *tasks.Store
	tasks    []tasks.Task
	view     tasks.View
	sortNext tasks.SortOrder
	opts     Options
	selected int
	width    int
	height   int
	status   string

	// Search mode
	searchMode bool
	search     textinput.Model

	// Filter picker mode
	picker         int
	pickerSelected int

	// Add/edit form mode
	formMode bool
	form     taskForm

	// Delete / clear confirmation mode
	confirm   int
	confirmID int
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green for completed

	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange for anything not done

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// New creates a new application model over an opened store
func New(store *tasks.Store, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tasks..."
	ti.Width = 30
	ti.CharLimit = 50
	ti.Prompt = "> "
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	return Model{
		store:    store,
		tasks:    store.Tasks(),
		sortNext: tasks.SortAsc,
		opts:     opts,
		status:   opts.Notice,
		search:   ti,
		form:     newTaskForm(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch {
		case m.confirm != confirmNone:
			return m.updateConfirm(msg)
		case m.formMode:
			return m.updateForm(msg)
		case m.picker != pickerNone:
			return m.updatePicker(msg)
		case m.searchMode:
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind, id := m.confirm, m.confirmID
	m.confirm = confirmNone
	m.confirmID = 0

	switch msg.String() {
	case "y", "Y":
	default:
		// Any other key cancels
		return m, nil
	}

	switch kind {
	case confirmDelete:
		if err := m.store.Delete(id); err != nil {
			// A stale id means the list already changed under us
			if !errors.Is(err, tasks.ErrTaskNotFound) {
				m.setError(err)
			}
		} else {
			m.status = "Deleted! Your task has been deleted."
		}
	case confirmClear:
		if err := m.store.Clear(); err != nil {
			m.setError(err)
		} else {
			m.status = "All tasks cleared."
		}
	}
	m.reload()
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.formMode = false
		m.form.focus(-1)
		return m, nil

	case "ctrl+s":
		return m.submitForm()

	case "enter":
		// Enter submits everywhere but inside the description box
		if m.form.field != FormFieldDescription {
			return m.submitForm()
		}

	case "tab", "down":
		if msg.String() == "down" && m.form.field == FormFieldDescription {
			break
		}
		return m, m.form.next()

	case "shift+tab", "up":
		if msg.String() == "up" && m.form.field == FormFieldDescription {
			break
		}
		return m, m.form.prev()

	case "left", "right", " ":
		if m.form.field == FormFieldPriority || m.form.field == FormFieldStatus {
			m.form.cycle(msg.String() != "left")
			return m, nil
		}
	}

	return m, m.form.updateInput(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	ack, done, err := m.form.submit(m.store)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if !done {
		return m, nil
	}
	m.formMode = false
	m.form.focus(-1)
	m.status = ack
	m.reload()
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.pickerOptions()
	switch msg.String() {
	case "esc":
		m.picker = pickerNone
		m.pickerSelected = 0
	case "enter":
		// Index 0 is "All", which clears that filter
		choice := ""
		if m.pickerSelected > 0 {
			choice = options[m.pickerSelected]
		}
		if m.picker == pickerPriority {
			m.view.Filter.Priority = tasks.Priority(choice)
		} else {
			m.view.Filter.Status = tasks.Status(choice)
		}
		m.picker = pickerNone
		m.pickerSelected = 0
		m.selected = m.ensureValidSelection()
	case "j", "down":
		if m.pickerSelected < len(options)-1 {
			m.pickerSelected++
		}
	case "k", "up":
		if m.pickerSelected > 0 {
			m.pickerSelected--
		}
	}
	return m, nil
}

// pickerOptions lists the choices of the open picker, "All" first
func (m Model) pickerOptions() []string {
	options := []string{"All"}
	switch m.picker {
	case pickerPriority:
		for _, p := range tasks.Priorities {
			options = append(options, string(p))
		}
	case pickerStatus:
		for _, s := range tasks.Statuses {
			options = append(options, string(s))
		}
	}
	return options
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.search.Reset()
		m.view.Filter.Search = ""
		m.selected = m.ensureValidSelection()
		return m, nil
	case "enter":
		m.searchMode = false
		m.search.Blur()
		m.selected = m.ensureValidSelection()
		return m, nil
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down":
		if m.selected < len(m.visibleTasks())-1 {
			m.selected++
		}
		return m, nil
	}

	// Pass all other keys to the textinput
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.Filter.Search = m.search.Value()
	m.selected = m.ensureValidSelection()
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.visibleTasks())-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "g", "home":
		m.selected = 0

	case "G", "end":
		m.selected = m.ensureValidSelection()
		if n := len(m.visibleTasks()); n > 0 {
			m.selected = n - 1
		}

	case "/":
		m.searchMode = true
		m.search.SetValue(m.view.Filter.Search)
		m.search.CursorEnd()
		if m.width > 0 {
			m.search.Width = max(m.width/3, 20)
		}
		return m, tea.Batch(m.search.Focus(), textinput.Blink)

	case "esc":
		// Clear the search and return to full list
		if m.view.Filter.Search != "" {
			m.search.Reset()
			m.view.Filter.Search = ""
			m.selected = m.ensureValidSelection()
		}

	case "a":
		m.formMode = true
		return m, tea.Batch(m.form.openAdd(m.store.Options()), textinput.Blink)

	case "e":
		if t, ok := m.current(); ok {
			m.formMode = true
			return m, tea.Batch(m.form.openEdit(t), textinput.Blink)
		}

	case "d", "x":
		if t, ok := m.current(); ok {
			m.confirm = confirmDelete
			m.confirmID = t.ID
		}

	case "X":
		if len(m.tasks) > 0 {
			m.confirm = confirmClear
		}

	case "p", "P":
		// Priority changes apply immediately, no confirmation
		if t, ok := m.current(); ok {
			next := t.Priority.Next()
			if msg.String() == "P" {
				next = t.Priority.Prev()
			}
			if _, err := m.store.SetPriority(t.ID, next); err != nil {
				m.setError(err)
			} else {
				m.status = fmt.Sprintf("Priority of %q set to %s", t.Name, next)
			}
			m.reload()
		}

	case "f":
		m.picker = pickerPriority
		m.pickerSelected = indexOf(m.pickerOptions(), string(m.view.Filter.Priority))

	case "s":
		m.picker = pickerStatus
		m.pickerSelected = indexOf(m.pickerOptions(), string(m.view.Filter.Status))

	case "o":
		m.toggleSort()

	case "C":
		// Clear all filters
		m.view.Filter = tasks.Filter{}
		m.search.Reset()
		m.selected = m.ensureValidSelection()
	}

	return m, nil
}

// toggleSort applies the next due date order. With PersistSort the stored
// list is reordered, otherwise only the view is.
func (m *Model) toggleSort() {
	order := m.sortNext
	m.sortNext = order.Toggle()

	if m.opts.PersistSort {
		if err := m.store.SortByDueDate(order); err != nil {
			m.setError(err)
			return
		}
		m.reload()
	} else {
		m.view.Order = order
	}
	m.status = "Sorted by due date (" + order.String() + ")"
	m.selected = m.ensureValidSelection()
}

// reload refreshes the snapshot after the store changed
func (m *Model) reload() {
	m.tasks = m.store.Tasks()
	m.selected = m.ensureValidSelection()
}

func (m *Model) setError(err error) {
	log.Printf("[tui] %v", err)
	m.status = "Error: " + err.Error()
}

// visibleTasks returns the filtered and sorted tasks both layouts render
func (m Model) visibleTasks() []tasks.Task {
	return m.view.Derive(m.tasks)
}

// current returns the selected visible task
func (m Model) current() (tasks.Task, bool) {
	visible := m.visibleTasks()
	if len(visible) == 0 || m.selected >= len(visible) {
		return tasks.Task{}, false
	}
	return visible[m.selected], true
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return 0
	}
	if m.selected >= len(visible) {
		return len(visible) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return 0
}
