package analytics

import (
	"testing"
	"time"
	_ "time/tzdata"

	"taskdeck/internal/task"
)

func TestCompute(t *testing.T) {
	now := time.Date(2025, 4, 22, 18, 0, 0, 0, time.UTC)
	d := func(v string) time.Time {
		tm, _ := task.ParseDate(v, time.UTC)
		return tm
	}
	tasks := []task.Task{
		{ID: "1", Category: "Design", Priority: task.PriorityHigh, Status: task.StatusActive, Due: d("2025-04-21"), CreatedAt: d("2025-04-15")},
		{ID: "2", Category: "Development", Priority: task.PriorityMedium, Status: task.StatusCompleted, Due: d("2025-04-10"), CreatedAt: d("2025-04-22")},
		{ID: "3", Category: "Design", Priority: task.PriorityLow, Status: task.StatusCompleted, Due: d("2025-05-01"), CreatedAt: d("2025-04-16")},
		{ID: "4", Category: "Research", Priority: task.PriorityLow, Status: task.StatusCompleted, Due: d("2025-05-01"), CreatedAt: d("2025-04-15")},
	}

	r := Compute(tasks, now)

	if r.Total != 4 {
		t.Fatalf("Total=%d, want 4", r.Total)
	}
	if r.ByStatus[0].Value != 1 || r.ByStatus[1].Value != 3 {
		t.Fatalf("ByStatus=%+v", r.ByStatus)
	}
	if r.ByPriority[0].Value != 1 || r.ByPriority[1].Value != 1 || r.ByPriority[2].Value != 2 {
		t.Fatalf("ByPriority=%+v", r.ByPriority)
	}
	wantCats := []Count{{"Design", 2}, {"Development", 1}, {"Research", 1}}
	if len(r.ByCategory) != len(wantCats) {
		t.Fatalf("ByCategory=%+v", r.ByCategory)
	}
	for i, c := range wantCats {
		if r.ByCategory[i] != c {
			t.Fatalf("ByCategory[%d]=%+v, want %+v", i, r.ByCategory[i], c)
		}
	}
	if r.Overdue != 1 {
		t.Fatalf("Overdue=%d, want 1", r.Overdue)
	}

	if len(r.Timeline) != TimelineDays {
		t.Fatalf("Timeline len=%d", len(r.Timeline))
	}
	if r.Timeline[0].Label != "Apr 16" || r.Timeline[6].Label != "Apr 22" {
		t.Fatalf("Timeline labels %s..%s", r.Timeline[0].Label, r.Timeline[6].Label)
	}
	if r.Timeline[0].Value != 1 || r.Timeline[6].Value != 1 {
		t.Fatalf("Timeline=%+v", r.Timeline)
	}
	if Max(r.Timeline) != 1 || Max(nil) != 0 {
		t.Fatal("Max() mismatch")
	}
}

func TestTimelineAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() err=%v", err)
	}
	// Clocks moved forward on 2025-03-09.
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, ny)
	created := func(v string) time.Time {
		tm, _ := task.ParseDate(v, ny)
		return tm
	}
	tasks := []task.Task{
		{ID: "1", Status: task.StatusCompleted, CreatedAt: created("2025-03-10")},
		{ID: "2", Status: task.StatusCompleted, CreatedAt: created("2025-03-08")},
		{ID: "3", Status: task.StatusCompleted, CreatedAt: created("2025-03-12")},
	}

	r := Compute(tasks, now)
	want := map[string]int{"Mar 6": 0, "Mar 7": 0, "Mar 8": 1, "Mar 9": 0, "Mar 10": 1, "Mar 11": 0, "Mar 12": 1}
	if len(r.Timeline) != TimelineDays {
		t.Fatalf("Timeline=%+v", r.Timeline)
	}
	for _, c := range r.Timeline {
		if w, ok := want[c.Label]; !ok || c.Value != w {
			t.Fatalf("Timeline=%+v, want %v", r.Timeline, want)
		}
	}
}
