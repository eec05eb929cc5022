package store

import (
	"time"

	"taskdeck/internal/notify"
	"taskdeck/internal/task"
)

// SampleTasks is the demo data loaded when seed_sample_data is on.
func SampleTasks(loc *time.Location) []task.Task {
	d := func(v string) time.Time {
		t, _ := task.ParseDate(v, loc)
		return t
	}
	return []task.Task{
		{
			ID:          "1",
			Title:       "Website Redesign",
			Description: "Redesign the company website with new branding",
			Category:    "Design",
			Priority:    task.PriorityHigh,
			Status:      task.StatusActive,
			Due:         d("2025-05-01"),
			AssignedTo:  "1",
			CreatedAt:   d("2025-04-15"),
			Subtasks: []task.Subtask{
				{ID: "1-1", Title: "Create wireframes", Completed: true},
				{ID: "1-2", Title: "Design mockups"},
				{ID: "1-3", Title: "Implement frontend"},
			},
		},
		{
			ID:          "2",
			Title:       "Database Migration",
			Description: "Migrate from MySQL to PostgreSQL",
			Category:    "Development",
			Priority:    task.PriorityMedium,
			Status:      task.StatusActive,
			Due:         d("2025-05-10"),
			AssignedTo:  "1",
			CreatedAt:   d("2025-04-18"),
		},
		{
			ID:          "3",
			Title:       "Prototype Testing",
			Description: "Test the new product prototype with users",
			Category:    "Research",
			Priority:    task.PriorityLow,
			Status:      task.StatusCompleted,
			Due:         d("2025-04-20"),
			AssignedTo:  "2",
			CreatedAt:   d("2025-04-10"),
		},
	}
}

func SampleNotifications(loc *time.Location) []notify.Notification {
	d := func(v string) time.Time {
		t, _ := task.ParseDate(v, loc)
		return t
	}
	return []notify.Notification{
		{ID: "1", Title: "Task Deadline Approaching", Message: `Task "Website Redesign" is due in 2 days`, CreatedAt: d("2025-04-20")},
		{ID: "2", Title: "New Task Assigned", Message: `You have been assigned to "Database Migration"`, CreatedAt: d("2025-04-21")},
		{ID: "3", Title: "Task Completed", Message: `"Prototype Testing" was marked as complete`, CreatedAt: d("2025-04-22")},
	}
}
