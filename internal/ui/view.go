package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"taskdeck/internal/analytics"
	"taskdeck/internal/config"
	"taskdeck/internal/selection"
	"taskdeck/internal/task"
)

const barWidth = 24

func (m Model) View() string {
	if m.mode == modeLogin {
		return m.renderLogin()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case modeAnalytics:
		b.WriteString(m.renderAnalytics())
	case modeNotifications:
		b.WriteString(m.renderNotifications())
	default:
		b.WriteString(m.renderTaskList())
		b.WriteString("\n---\n")
		switch {
		case m.mode == modeForm && m.form != nil:
			b.WriteString(m.renderFormBox())
			b.WriteString("\n")
			b.WriteString("Field: " + m.form.currentLabel())
			b.WriteString("\n")
			b.WriteString(m.input.View())
		case m.mode == modeSearch:
			b.WriteString("Search: ")
			b.WriteString(m.input.View())
		case m.showDetail:
			b.WriteString(m.renderDetail())
		default:
			b.WriteString(mutedStyle.Render(m.criteriaStatus()))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.renderHelp()))
	return b.String()
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskDeck"))
	b.WriteString("\n")
	if m.login != nil && m.login.register {
		b.WriteString(headerStyle.Render("Create an account"))
	} else {
		b.WriteString(headerStyle.Render("Sign in to your account"))
	}
	b.WriteString("\n\n")
	if m.login != nil {
		for _, in := range m.login.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("demo: %s / %s • tab switch • enter submit • ctrl+r register • esc quit",
		m.cfg.Demo.Email, m.cfg.Demo.Password)))
	return b.String()
}

func (m Model) renderHeader() string {
	var parts []string
	parts = append(parts, titleStyle.Render("TaskDeck"))
	if u, ok := m.board.Store().User(); ok {
		parts = append(parts, fmt.Sprintf("%s (%s)", u.Name, u.Role))
		parts = append(parts, presenceStyle(u.Presence).Render("● "+string(u.Presence)))
	}
	if n := m.board.Store().Notifications().UnreadCount(); n > 0 {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("%d unread", n)))
	}
	parts = append(parts, headerStyle.Render("session "+formatElapsed(m.now.Sub(m.started))))
	if m.sync.view.Selection != selection.Inactive {
		parts = append(parts, selectionStyle.Render(fmt.Sprintf("selecting: %d", len(m.sync.view.Selected))))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTaskList() string {
	tasks := m.tasks()
	if len(tasks) == 0 {
		if m.sync.view.Total == 0 {
			return fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)
		}
		return fmt.Sprintf("No tasks match the current filters. Press '%s' to clear them.", m.cfg.Keys.ClearFilters)
	}

	selecting := m.sync.view.Selection != selection.Inactive
	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		switch {
		case selecting && slices.Contains(m.sync.view.Selected, t.ID):
			checkbox = selectionStyle.Render("[*]")
		case selecting:
			checkbox = "[ ]"
		case t.Completed():
			checkbox = "[x]"
		}

		title := t.Title
		if t.Completed() {
			title = doneStyle.Render(title)
		}
		due := task.FormatDate(t.Due)
		if t.Overdue(m.now) {
			due = overdueStyle.Render(due + " overdue")
		}
		line := fmt.Sprintf("%s %s %s  %s  %s  due %s",
			cursor, checkbox, title,
			priorityStyle(t.Priority).Render(string(t.Priority)),
			mutedStyle.Render(t.Category), due)
		if done, total := t.SubtaskProgress(); total > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  %d/%d", done, total))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetail() string {
	t, ok := m.current()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(t.Description)))
	b.WriteString(fmt.Sprintf("Category    : %s\n", t.Category))
	b.WriteString(fmt.Sprintf("Priority    : %s\n", priorityStyle(t.Priority).Render(string(t.Priority))))
	b.WriteString(fmt.Sprintf("Status      : %s\n", t.Status))
	b.WriteString(fmt.Sprintf("Due         : %s\n", task.FormatDate(t.Due)))
	b.WriteString(fmt.Sprintf("Assigned to : %s\n", emptyPlaceholder(t.AssignedTo)))
	b.WriteString(fmt.Sprintf("Created     : %s\n", task.FormatDate(t.CreatedAt)))
	b.WriteString(fmt.Sprintf("Notes       : %s\n", emptyPlaceholder(t.Notes)))
	if len(t.Subtasks) > 0 {
		done, total := t.SubtaskProgress()
		b.WriteString(fmt.Sprintf("Subtasks    : %d/%d (tab to move, %s to toggle)\n", done, total, m.cfg.Keys.ToggleSubtask))
		sub := wrapIndex(m.subCursor, len(t.Subtasks))
		for i, st := range t.Subtasks {
			prefix := "  "
			if i == sub {
				prefix = cursorStyle.Render("> ")
			}
			box := "[ ]"
			title := st.Title
			if st.Completed {
				box = "[x]"
				title = doneStyle.Render(title)
			}
			b.WriteString(fmt.Sprintf("  %s%s %s\n", prefix, box, title))
		}
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderFormBox() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	title := "New task"
	if m.form.editID != "" {
		title = "Edit task"
	}
	b.WriteString(title)
	b.WriteString("\n")
	for i, name := range m.form.fields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-28s : %s\n", prefix, name, emptyPlaceholder(m.form.values[i])))
	}
	return b.String()
}

func (m Model) renderAnalytics() string {
	tasks := m.board.All()
	r := analytics.Compute(tasks, m.now)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Analytics"))
	b.WriteString(fmt.Sprintf("  %d %s, %d overdue\n\n", r.Total, plural(r.Total, "task", "tasks"), r.Overdue))
	b.WriteString(renderBars("By status", r.ByStatus))
	b.WriteString(renderBars("By priority", r.ByPriority))
	b.WriteString(renderBars("By category", r.ByCategory))
	b.WriteString(renderBars(fmt.Sprintf("Completed, last %d days", analytics.TimelineDays), r.Timeline))
	return b.String()
}

func renderBars(title string, counts []analytics.Count) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	if len(counts) == 0 {
		b.WriteString("  (none)\n\n")
		return b.String()
	}
	scale := analytics.Max(counts)
	for _, c := range counts {
		n := 0
		if scale > 0 {
			n = c.Value * barWidth / scale
		}
		b.WriteString(fmt.Sprintf("  %-12s %s %d\n", c.Label, barStyle.Render(strings.Repeat("█", n)), c.Value))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderNotifications() string {
	feed := m.board.Store().Notifications()
	items := feed.List()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Notifications"))
	b.WriteString(fmt.Sprintf("  %d unread\n\n", feed.UnreadCount()))
	if len(items) == 0 {
		b.WriteString("No notifications")
		return b.String()
	}
	cur := clampCursor(m.noteCursor, len(items))
	for i, n := range items {
		prefix := " "
		if i == cur {
			prefix = cursorStyle.Render(">")
		}
		marker := "•"
		title := n.Title
		if n.Read {
			marker = " "
			title = mutedStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %s %s  %s\n", prefix, marker, title, mutedStyle.Render(task.FormatDate(n.CreatedAt))))
		b.WriteString(fmt.Sprintf("      %s\n", n.Message))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	k := m.cfg.Keys
	switch {
	case m.mode == modeForm:
		return "tab/shift+tab move • enter next/save • esc cancel"
	case m.mode == modeSearch:
		return "type to filter • enter keep • esc clear"
	case m.mode == modeAnalytics:
		return fmt.Sprintf("%s/esc back • %s quit", k.Analytics, k.Quit)
	case m.mode == modeNotifications:
		return fmt.Sprintf("%s/%s move • enter read • %s read all • esc back", k.Up, k.Down, k.MarkAllRead)
	case m.sync.view.Selection != selection.Inactive:
		return fmt.Sprintf("space select • %s complete selected • %s delete selected • esc cancel", k.BatchComplete, k.BatchDelete)
	}
	return renderHelp(k)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s complete • %s delete • %s detail • %s search • %s/%s/%s/%s filter • %s clear • %s-%s sort • %s reverse • %s select • %s stats • %s inbox • %s status • %s logout • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Complete, k.Delete, k.Detail, k.Search,
		k.FilterCategory, k.FilterPriority, k.FilterStatus, k.FilterDate, k.ClearFilters,
		k.SortDue, k.SortCreated, k.SortDirection, k.SelectMode, k.Analytics, k.Notifications,
		k.CyclePresence, k.Logout, k.Quit)
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mins, secs)
}
