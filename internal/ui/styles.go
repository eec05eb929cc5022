package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/auth"
	"taskdeck/internal/task"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5D5CDE"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5D5CDE"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	selectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5D5CDE"))
	badgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("#EF4444")).Padding(0, 1)
)

func priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	case task.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
}

func presenceStyle(p auth.Presence) lipgloss.Style {
	switch p {
	case auth.PresenceOnline:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	case auth.PresenceBreak:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	case auth.PresenceShadow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
}
