package analytics

import (
	"time"

	"taskdeck/internal/task"
)

// TimelineDays is how many days the completion timeline covers, today included.
const TimelineDays = 7

type Count struct {
	Label string
	Value int
}

type Report struct {
	Total      int
	ByStatus   []Count
	ByPriority []Count
	ByCategory []Count
	Timeline   []Count
	Overdue    int
}

// Compute summarises tasks. Categories keep first-appearance order. The
// timeline counts completed tasks per creation day over the last TimelineDays.
func Compute(tasks []task.Task, now time.Time) Report {
	r := Report{
		Total: len(tasks),
		ByStatus: []Count{
			{Label: string(task.StatusActive)},
			{Label: string(task.StatusCompleted)},
		},
		ByPriority: []Count{
			{Label: string(task.PriorityHigh)},
			{Label: string(task.PriorityMedium)},
			{Label: string(task.PriorityLow)},
		},
	}

	today := task.Day(now)
	start := today.AddDate(0, 0, -(TimelineDays - 1))
	for i := 0; i < TimelineDays; i++ {
		r.Timeline = append(r.Timeline, Count{Label: start.AddDate(0, 0, i).Format("Jan 2")})
	}

	categories := map[string]int{}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusActive:
			r.ByStatus[0].Value++
		case task.StatusCompleted:
			r.ByStatus[1].Value++
		}
		switch t.Priority {
		case task.PriorityHigh:
			r.ByPriority[0].Value++
		case task.PriorityMedium:
			r.ByPriority[1].Value++
		case task.PriorityLow:
			r.ByPriority[2].Value++
		}

		i, ok := categories[t.Category]
		if !ok {
			i = len(r.ByCategory)
			categories[t.Category] = i
			r.ByCategory = append(r.ByCategory, Count{Label: t.Category})
		}
		r.ByCategory[i].Value++

		if t.Overdue(now) {
			r.Overdue++
		}
		if t.Completed() && !t.CreatedAt.IsZero() {
			created := task.Day(t.CreatedAt.In(now.Location()))
			for i := range r.Timeline {
				if created.Equal(start.AddDate(0, 0, i)) {
					r.Timeline[i].Value++
					break
				}
			}
		}
	}
	return r
}

// Max returns the largest value in counts, for scaling bars.
func Max(counts []Count) int {
	m := 0
	for _, c := range counts {
		if c.Value > m {
			m = c.Value
		}
	}
	return m
}
