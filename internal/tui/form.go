package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
)

// Form field indices
const (
	FormFieldName = iota
	FormFieldDescription
	FormFieldDueDate
	FormFieldPriority
	FormFieldStatus
	FormFieldCount // Total number of fields
)

// taskForm is the add/edit overlay. Status is only offered when editing.
type taskForm struct {
	editing     bool
	taskID      int
	field       int
	name        textinput.Model
	description textarea.Model
	dueDate     textinput.Model
	priority    tasks.Priority
	status      tasks.Status
	errMsg      string
}

func newTaskForm() taskForm {
	name := textinput.New()
	name.Placeholder = "Title"
	name.Width = 40
	name.CharLimit = 120

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.ShowLineNumbers = false
	desc.SetHeight(3)
	desc.SetWidth(42)
	desc.CharLimit = 500

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.Width = 12
	due.CharLimit = 10

	return taskForm{name: name, description: desc, dueDate: due}
}

// openAdd resets the form for a new task
func (f *taskForm) openAdd(defaults tasks.Options) tea.Cmd {
	f.editing = false
	f.taskID = 0
	f.name.SetValue("")
	f.description.Reset()
	f.dueDate.SetValue("")
	f.priority = defaults.DefaultPriority
	f.status = defaults.DefaultStatus
	f.errMsg = ""
	return f.focus(FormFieldName)
}

// openEdit fills the form from an existing task
func (f *taskForm) openEdit(t tasks.Task) tea.Cmd {
	f.editing = true
	f.taskID = t.ID
	f.name.SetValue(t.Name)
	f.name.CursorEnd()
	f.description.Reset()
	f.description.SetValue(t.Description)
	f.dueDate.SetValue(t.DueDate)
	f.dueDate.CursorEnd()
	f.priority = t.Priority
	if !f.priority.Valid() {
		f.priority = tasks.PriorityMedium
	}
	f.status = t.Status
	if !f.status.Valid() {
		f.status = tasks.StatusPending
	}
	f.errMsg = ""
	return f.focus(FormFieldName)
}

func (f *taskForm) lastField() int {
	if f.editing {
		return FormFieldStatus
	}
	return FormFieldPriority
}

func (f *taskForm) focus(field int) tea.Cmd {
	f.name.Blur()
	f.description.Blur()
	f.dueDate.Blur()
	f.field = field

	switch field {
	case FormFieldName:
		return f.name.Focus()
	case FormFieldDescription:
		return f.description.Focus()
	case FormFieldDueDate:
		return f.dueDate.Focus()
	}
	return nil
}

func (f *taskForm) next() tea.Cmd {
	if f.field < f.lastField() {
		return f.focus(f.field + 1)
	}
	return f.focus(FormFieldName)
}

func (f *taskForm) prev() tea.Cmd {
	if f.field > 0 {
		return f.focus(f.field - 1)
	}
	return f.focus(f.lastField())
}

// cycle changes the selector under the cursor
func (f *taskForm) cycle(forward bool) {
	switch f.field {
	case FormFieldPriority:
		if forward {
			f.priority = f.priority.Next()
		} else {
			f.priority = f.priority.Prev()
		}
	case FormFieldStatus:
		if forward {
			f.status = f.status.Next()
		} else {
			for i := 0; i < len(tasks.Statuses)-1; i++ {
				f.status = f.status.Next()
			}
		}
	}
}

// updateInput passes a key to the focused text field
func (f *taskForm) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.field {
	case FormFieldName:
		f.name, cmd = f.name.Update(msg)
	case FormFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case FormFieldDueDate:
		f.dueDate, cmd = f.dueDate.Update(msg)
	}
	return cmd
}

func (f *taskForm) draft() tasks.Draft {
	return tasks.Draft{
		Name:        f.name.Value(),
		Description: f.description.Value(),
		DueDate:     f.dueDate.Value(),
		Priority:    f.priority,
	}
}

func (f *taskForm) patch() tasks.Patch {
	name := f.name.Value()
	desc := f.description.Value()
	due := f.dueDate.Value()
	priority := f.priority
	status := f.status
	return tasks.Patch{
		Name:        &name,
		Description: &desc,
		DueDate:     &due,
		Priority:    &priority,
		Status:      &status,
	}
}

// submit writes the form through the store. Validation problems stay on the
// form; the returned error is anything else the store reported.
func (f *taskForm) submit(store *tasks.Store) (string, bool, error) {
	var err error
	if f.editing {
		_, err = store.Edit(f.taskID, f.patch())
	} else {
		_, err = store.Add(f.draft())
	}

	var verr *tasks.ValidationError
	if errors.As(err, &verr) {
		f.errMsg = verr.Error()
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	f.errMsg = ""
	if f.editing {
		return "Task updated!", true, nil
	}
	return "Task added!", true, nil
}
