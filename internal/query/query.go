// Package query derives the visible task list from the collection and the
// user's criteria. Apply is pure: the same inputs always give the same output.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"taskdeck/internal/task"
)

// Apply returns the tasks matching every active filter in c, stably sorted by
// c.Sort in c.Direction. now fixes "today" for the date filters. The input
// slice is not modified.
func Apply(tasks []task.Task, c Criteria, now time.Time) []task.Task {
	keep := predicates(c, now)
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesAll(t, keep) {
			out = append(out, t.Clone())
		}
	}

	compare := comparator(c.Sort)
	if c.Direction == Descending {
		asc := compare
		compare = func(a, b task.Task) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

type predicate func(task.Task) bool

func matchesAll(t task.Task, preds []predicate) bool {
	for _, p := range preds {
		if !p(t) {
			return false
		}
	}
	return true
}

func predicates(c Criteria, now time.Time) []predicate {
	var preds []predicate
	if term := strings.ToLower(c.Search); term != "" {
		preds = append(preds, func(t task.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), term) ||
				strings.Contains(strings.ToLower(t.Description), term)
		})
	}
	if c.Category != "" {
		preds = append(preds, func(t task.Task) bool { return t.Category == c.Category })
	}
	if c.Priority != "" {
		preds = append(preds, func(t task.Task) bool { return t.Priority == c.Priority })
	}
	if c.Status != "" {
		preds = append(preds, func(t task.Task) bool { return t.Status == c.Status })
	}
	if from, to, ok := dueWindow(c.Dates, now); ok {
		preds = append(preds, func(t task.Task) bool {
			if t.Due.IsZero() {
				return false
			}
			due := task.Day(t.Due.In(now.Location()))
			return !due.Before(from) && !due.After(to)
		})
	}
	return preds
}

// dueWindow returns the inclusive day range for r. Weeks start on Sunday.
func dueWindow(r DateRange, now time.Time) (from, to time.Time, ok bool) {
	today := task.Day(now)
	switch r {
	case DueToday:
		return today, today, true
	case DueThisWeek:
		return today.AddDate(0, 0, -int(today.Weekday())), today, true
	case DueThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), today, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func comparator(k SortKey) func(a, b task.Task) int {
	switch k {
	case SortDue:
		return func(a, b task.Task) int { return cmp.Compare(a.Due.UnixMilli(), b.Due.UnixMilli()) }
	case SortCreated:
		return func(a, b task.Task) int { return cmp.Compare(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli()) }
	case SortPriority:
		return func(a, b task.Task) int { return cmp.Compare(a.Priority.Weight(), b.Priority.Weight()) }
	default:
		return func(a, b task.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	}
}
