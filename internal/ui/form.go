package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/task"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldPriority
	fieldDue
	fieldNotes
	fieldSubtasks
)

// formState backs both the add and the edit form. editID is empty when adding.
type formState struct {
	editID string
	values []string
	index  int
}

func formFields(editing bool) []string {
	fields := []string{"title", "description", "category", "priority (High/Medium/Low)", "due date (YYYY-MM-DD)", "notes"}
	if !editing {
		fields = append(fields, "subtasks (separate with ;)")
	}
	return fields
}

func (fs formState) fields() []string { return formFields(fs.editID != "") }

func (fs formState) currentLabel() string { return fs.fields()[fs.index] }

func (fs formState) currentValue() string { return fs.values[fs.index] }

func (fs *formState) setCurrentValue(v string) { fs.values[fs.index] = v }

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	fs := &formState{}
	if t == nil {
		fs.values = make([]string, len(formFields(false)))
		fs.values[fieldPriority] = string(task.PriorityMedium)
		fs.values[fieldDue] = task.FormatDate(m.clock())
		m.status = "New task: tab to move, enter on the last field to save, esc to cancel"
	} else {
		fs.editID = t.ID
		fs.values = []string{t.Title, t.Description, t.Category, string(t.Priority), task.FormatDate(t.Due), t.Notes}
		m.status = fmt.Sprintf("Editing \"%s\": tab to move, enter on the last field to save, esc to cancel", t.Title)
	}
	m.form = fs
	m.input.SetValue(fs.currentValue())
	m.input.Placeholder = fs.currentLabel()
	m.input.CursorEnd()
	m.input.Focus()
	m.mode = modeForm
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		return m.closeForm("Cancelled"), nil
	case "tab", "down":
		return m.moveForm(1), nil
	case "shift+tab", "up":
		return m.moveForm(-1), nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(m.form.fields())-1 {
			return m.saveForm()
		}
		return m.moveForm(1), nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) moveForm(delta int) Model {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, len(m.form.fields()))
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.status = fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel.",
		m.form.currentLabel(), m.form.index+1, len(m.form.fields()))
	return m
}

func (m Model) closeForm(status string) Model {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.status = status
	return m
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft(m.clock().Location())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	if m.form.editID == "" {
		created, err := m.board.AddTask(d)
		if err != nil {
			m.status = describeErr(err)
			return m, nil
		}
		m.board.Store().Notifications().Add("Task Created", fmt.Sprintf("\"%s\" was added to %s", created.Title, created.Category))
		m = m.closeForm(fmt.Sprintf("Added \"%s\"", created.Title))
		m.cursor = m.indexOf(created.ID)
		return m, nil
	}

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		m.status = describeErr(err)
		return m, nil
	}
	id := m.form.editID
	patch := task.Patch{
		Title:       &d.Title,
		Description: &d.Description,
		Category:    &d.Category,
		Priority:    &d.Priority,
		Due:         &d.Due,
		Notes:       &d.Notes,
	}
	if err := m.board.UpdateTask(id, patch); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m = m.closeForm("Task saved")
	m.cursor = m.indexOf(id)
	return m, nil
}

// draft parses the form values. Missing required fields are left for
// Draft.Validate; malformed ones fail here.
func (fs formState) draft(loc *time.Location) (task.Draft, error) {
	d := task.Draft{
		Title:       fs.values[fieldTitle],
		Description: fs.values[fieldDescription],
		Category:    fs.values[fieldCategory],
		Notes:       fs.values[fieldNotes],
	}
	if v := strings.TrimSpace(fs.values[fieldPriority]); v != "" {
		p, ok := task.ParsePriority(v)
		if !ok {
			return task.Draft{}, fmt.Errorf("priority invalid: %q", v)
		}
		d.Priority = p
	}
	if v := strings.TrimSpace(fs.values[fieldDue]); v != "" {
		due, err := task.ParseDate(v, loc)
		if err != nil {
			return task.Draft{}, fmt.Errorf("due date invalid: %v", err)
		}
		d.Due = due
	}
	if len(fs.values) > fieldSubtasks {
		for _, title := range strings.Split(fs.values[fieldSubtasks], ";") {
			d.Subtasks = append(d.Subtasks, task.Subtask{Title: title})
		}
	}
	return d, nil
}

func (m Model) indexOf(id string) int {
	for i, t := range m.tasks() {
		if t.ID == id {
			return i
		}
	}
	return clampCursor(m.cursor, len(m.tasks()))
}
