package task

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due and creation dates.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Weight orders priorities for sorting. Unknown values weigh 0 and sort lowest.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func ParsePriority(v string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high", "h", "3":
		return PriorityHigh, true
	case "medium", "med", "m", "2":
		return PriorityMedium, true
	case "low", "l", "1":
		return PriorityLow, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
)

func ParseStatus(v string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "active":
		return StatusActive, true
	case "completed", "done":
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Categories offered by the add form and filter cycle. The set is open: any
// string is a valid category.
var Categories = []string{"Development", "Design", "Marketing", "Research"}

type Subtask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Status      Status    `json:"status" yaml:"status"`
	Due         time.Time `json:"due" yaml:"due"`
	AssignedTo  string    `json:"assigned_to" yaml:"assigned_to"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Subtasks    []Subtask `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Subtasks = slices.Clone(t.Subtasks)
	return t
}

func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		t.Category == o.Category &&
		t.Priority == o.Priority &&
		t.Status == o.Status &&
		t.Due.Equal(o.Due) &&
		t.AssignedTo == o.AssignedTo &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		slices.Equal(t.Subtasks, o.Subtasks) &&
		t.Notes == o.Notes
}

// SubtaskProgress reports completed and total subtasks.
func (t Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// Overdue is true for active tasks whose due date is before today.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed() || t.Due.IsZero() {
		return false
	}
	return Day(t.Due).Before(Day(now))
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(v), loc)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
