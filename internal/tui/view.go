package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
)

// cardHeight is the rendered height of one card including its border
const cardHeight = 7

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch {
	case m.confirm != confirmNone:
		return m.renderConfirmation()
	case m.formMode:
		return m.renderForm()
	case m.picker != pickerNone:
		return m.renderPicker()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if m.searchMode {
		sections = append(sections, m.search.View())
	}

	// header, optional search line, status and help
	bodyHeight := m.height - 4
	if m.searchMode {
		bodyHeight--
	}

	if m.wide() {
		sections = append(sections, m.renderTable(bodyHeight))
	} else {
		sections = append(sections, m.renderCards(bodyHeight))
	}

	sections = append(sections, m.renderStatus(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// wide reports whether the terminal is wide enough for the table layout
func (m Model) wide() bool {
	return m.width >= m.opts.CardBreakpoint
}

func (m Model) renderHeader() string {
	header := fmt.Sprintf("Tasks (%d of %d)", len(m.visibleTasks()), len(m.tasks))

	var indicators []string
	if m.view.Filter.Priority != "" {
		indicators = append(indicators, "priority:"+string(m.view.Filter.Priority))
	}
	if m.view.Filter.Status != "" {
		indicators = append(indicators, "status:"+string(m.view.Filter.Status))
	}
	if m.view.Filter.Search != "" && !m.searchMode {
		indicators = append(indicators, "search:"+m.view.Filter.Search)
	}
	if m.view.Order != tasks.SortNone {
		indicators = append(indicators, "due:"+m.view.Order.String())
	}
	if len(indicators) > 0 {
		header += " [" + strings.Join(indicators, ", ") + "]"
	}
	return header
}

// visibleWindow returns the start and end indices of the rows that fit in
// height lines while keeping the selection on screen
func (m Model) visibleWindow(total, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	start := 0
	if m.selected >= height {
		start = m.selected - height + 1
	}
	end := start + height
	if end > total {
		end = total
	}
	return start, end
}

// renderTable renders the wide layout. Only the rows on screen are handed to
// the table so its cursor is always visible.
func (m Model) renderTable(height int) string {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return borderStyle.Width(m.width - 2).Render(labelStyle.Render("No Task Found"))
	}

	// table header and its rule take two lines, the border two more
	rowsHeight := height - 4
	start, end := m.visibleWindow(len(visible), rowsHeight)

	rows := make([]table.Row, 0, end-start)
	for i := start; i < end; i++ {
		t := visible[i]
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			singleLine(t.Name),
			singleLine(t.Description),
			t.DueDate,
			string(t.Status),
			string(t.Priority),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = selectedStyle

	t := table.New(
		table.WithColumns(m.tableColumns()),
		table.WithRows(rows),
		table.WithHeight(max(end-start, 1)),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	t.SetCursor(m.selected - start)

	return borderStyle.Render(t.View())
}

// tableColumns splits the width between title and description after the
// fixed columns
func (m Model) tableColumns() []table.Column {
	const (
		numberWidth   = 5
		dueWidth      = 10
		statusWidth   = 11
		priorityWidth = 8
		cellPadding   = 2 * 6 // default cell style pads one column each side
		borders       = 2
	)
	flexible := m.width - numberWidth - dueWidth - statusWidth - priorityWidth - cellPadding - borders
	if flexible < 20 {
		flexible = 20
	}
	titleWidth := flexible * 2 / 5
	descWidth := flexible - titleWidth

	return []table.Column{
		{Title: "SL.No", Width: numberWidth},
		{Title: "Title", Width: titleWidth},
		{Title: "Description", Width: descWidth},
		{Title: "Due Date", Width: dueWidth},
		{Title: "Status", Width: statusWidth},
		{Title: "Priority", Width: priorityWidth},
	}
}

// renderCards renders the narrow layout, one bordered card per task
func (m Model) renderCards(height int) string {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return labelStyle.Render("No Task Found")
	}

	start, end := m.visibleWindow(len(visible), height/cardHeight)
	cardWidth := m.width - 2
	if cardWidth < 20 {
		cardWidth = 20
	}

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := visible[i]
		lines := []string{
			labelStyle.Render("Title: ") + singleLine(t.Name),
			labelStyle.Render("Description: ") + singleLine(t.Description),
			labelStyle.Render("Due Date: ") + t.DueDate,
			labelStyle.Render("Status: ") + renderStatusBadge(t.Status),
			labelStyle.Render("Priority: ") + string(t.Priority),
		}

		style := borderStyle.Width(cardWidth - 2)
		if i == m.selected {
			style = style.BorderForeground(lipgloss.Color("62")).BorderStyle(lipgloss.ThickBorder())
		}
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderStatusBadge(s tasks.Status) string {
	if s == tasks.StatusCompleted {
		return completedStyle.Render(string(s))
	}
	return openStyle.Render(string(s))
}

func (m Model) renderStatus() string {
	if strings.HasPrefix(m.status, "Error:") {
		return errorStyle.Render(m.status)
	}
	return labelStyle.Render(m.status)
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.searchMode {
		return " Type to search • ↑/↓: navigate • Enter: confirm • Esc: cancel"
	}

	help := " j/k: navigate • a: add • e: edit • d: delete • p/P: priority • /: search • f: priority filter • s: status filter • o: sort"

	if !m.view.Filter.IsZero() {
		help += " • C: clear filters"
	}
	if len(m.tasks) > 0 {
		help += " • X: clear all"
	}

	help += " • q: quit"
	return help
}

// renderForm renders the add/edit overlay
func (m Model) renderForm() string {
	f := m.form

	title := "Add Task"
	if f.editing {
		title = "Edit Task"
	}

	var lines []string
	lines = append(lines, title)
	lines = append(lines, strings.Repeat("─", 44))
	lines = append(lines, "")

	lines = append(lines, fieldLabel("Title", f.field == FormFieldName))
	lines = append(lines, f.name.View())
	lines = append(lines, "")
	lines = append(lines, fieldLabel("Description", f.field == FormFieldDescription))
	lines = append(lines, f.description.View())
	lines = append(lines, "")
	lines = append(lines, fieldLabel("Due Date", f.field == FormFieldDueDate))
	lines = append(lines, f.dueDate.View())
	lines = append(lines, "")
	lines = append(lines, fieldLabel("Priority", f.field == FormFieldPriority)+"  "+
		renderChoice(string(f.priority), f.field == FormFieldPriority))
	if f.editing {
		lines = append(lines, fieldLabel("Status", f.field == FormFieldStatus)+"    "+
			renderChoice(string(f.status), f.field == FormFieldStatus))
	}

	if f.errMsg != "" {
		lines = append(lines, "")
		lines = append(lines, errorStyle.Render(f.errMsg))
	}

	lines = append(lines, "")
	lines = append(lines, "Tab/Shift+Tab: move • ←/→: change • Enter/Ctrl+S: save • Esc: cancel")

	return m.centered(borderStyle.
		Padding(1).
		Width(60).
		Render(strings.Join(lines, "\n")))
}

func fieldLabel(label string, active bool) string {
	if active {
		return selectedStyle.Render(label)
	}
	return labelStyle.Render(label)
}

func renderChoice(value string, active bool) string {
	if active {
		return selectedStyle.Render("< " + value + " >")
	}
	return "  " + value + "  "
}

// renderPicker renders the priority/status filter overlay
func (m Model) renderPicker() string {
	heading := "Filter by priority:"
	if m.picker == pickerStatus {
		heading = "Filter by status:"
	}

	var lines []string
	lines = append(lines, heading)
	lines = append(lines, "")

	for i, option := range m.pickerOptions() {
		line := "  " + option
		if i == 0 {
			line = "  All (clear filter)"
		}
		if i == m.pickerSelected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Press Enter to confirm, Esc to cancel")

	return m.centered(borderStyle.
		Padding(1).
		Render(strings.Join(lines, "\n")))
}

// renderConfirmation renders the delete / clear prompt
func (m Model) renderConfirmation() string {
	var prompt string
	switch m.confirm {
	case confirmDelete:
		name := ""
		for _, t := range m.tasks {
			if t.ID == m.confirmID {
				name = t.Name
				break
			}
		}
		prompt = fmt.Sprintf("Are you sure you want to delete '%s'?\nThis action cannot be undone! (y/n)", name)
	case confirmClear:
		prompt = fmt.Sprintf("Delete all %d tasks?\nThis action cannot be undone! (y/n)", len(m.tasks))
	}

	width := 60
	height := 7

	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(prompt)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(width).
		Height(height).
		Render(content)

	return m.centered(box)
}

// centered places an overlay box in the middle of the screen
func (m Model) centered(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// singleLine flattens text for one-line cells
func singleLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
