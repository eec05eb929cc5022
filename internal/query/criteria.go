package query

import (
	"fmt"
	"strings"

	"taskdeck/internal/task"
)

type SortKey int

const (
	SortDue SortKey = iota
	SortPriority
	SortTitle
	SortCreated
)

var sortKeyNames = map[SortKey]string{
	SortDue:      "due",
	SortPriority: "priority",
	SortTitle:    "title",
	SortCreated:  "created",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return sortKeyNames[SortTitle]
}

// ParseSortKey maps a key name to a SortKey. Anything unrecognised sorts by
// title.
func ParseSortKey(v string) SortKey {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "due", "duedate", "due_date":
		return SortDue
	case "priority":
		return SortPriority
	case "created", "createdat", "created_at":
		return SortCreated
	default:
		return SortTitle
	}
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func ParseDirection(v string) Direction {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// DateRange restricts tasks by due date relative to today.
type DateRange int

const (
	AnyDate DateRange = iota
	DueToday
	DueThisWeek
	DueThisMonth
)

func (r DateRange) String() string {
	switch r {
	case DueToday:
		return "today"
	case DueThisWeek:
		return "week"
	case DueThisMonth:
		return "month"
	default:
		return ""
	}
}

// ParseDateRange maps "today", "week" and "month"; anything else means no date
// filter.
func ParseDateRange(v string) DateRange {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "today":
		return DueToday
	case "week", "this-week":
		return DueThisWeek
	case "month", "this-month":
		return DueThisMonth
	default:
		return AnyDate
	}
}

// Criteria is the user's current filter and sort selection. Zero-valued
// filters pass everything through.
type Criteria struct {
	Search    string
	Category  string
	Priority  task.Priority
	Status    task.Status
	Dates     DateRange
	Sort      SortKey
	Direction Direction
}

// Default sorts by due date, earliest first.
func Default() Criteria {
	return Criteria{Sort: SortDue, Direction: Ascending}
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	return c.Search != "" || c.Category != "" || c.Priority != "" || c.Status != "" || c.Dates != AnyDate
}

// Describe summarises the criteria for a status line.
func (c Criteria) Describe() string {
	var parts []string
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", c.Search))
	}
	if c.Category != "" {
		parts = append(parts, "category:"+c.Category)
	}
	if c.Priority != "" {
		parts = append(parts, "priority:"+string(c.Priority))
	}
	if c.Status != "" {
		parts = append(parts, "status:"+string(c.Status))
	}
	if c.Dates != AnyDate {
		parts = append(parts, "due:"+c.Dates.String())
	}
	parts = append(parts, fmt.Sprintf("sort:%s %s", c.Sort, c.Direction))
	return strings.Join(parts, " ")
}
