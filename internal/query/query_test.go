package query

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/task"
)

// Tuesday.
var now = time.Date(2025, 4, 22, 14, 30, 0, 0, time.UTC)

func day(v string) time.Time {
	d, err := task.ParseDate(v, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApplyEmpty(t *testing.T) {
	got := Apply(nil, Default(), now)
	if got == nil || len(got) != 0 {
		t.Fatalf("Apply(nil)=%v, want empty non-nil", got)
	}
}

func TestSortPriorityDescending(t *testing.T) {
	tasks := []task.Task{
		{ID: "A", Title: "A", Priority: task.PriorityLow, Due: day("2025-05-01")},
		{ID: "B", Title: "B", Priority: task.PriorityHigh, Due: day("2025-04-20")},
	}
	got := Apply(tasks, Criteria{Sort: SortPriority, Direction: Descending}, now)
	if want := []string{"B", "A"}; !slices.Equal(ids(got), want) {
		t.Fatalf("Apply()=%v, want %v", ids(got), want)
	}
}

func TestSearch(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Title: "Website Redesign"},
		{ID: "2", Title: "Database Migration"},
		{ID: "3", Title: "Copy", Description: "update WEB copy"},
	}
	got := Apply(tasks, Criteria{Search: "web", Sort: SortTitle}, now)
	if want := []string{"3", "1"}; !slices.Equal(ids(got), want) {
		t.Fatalf("Apply()=%v, want %v", ids(got), want)
	}

	got = Apply(tasks[:2], Criteria{Search: "web"}, now)
	if want := []string{"1"}; !slices.Equal(ids(got), want) {
		t.Fatalf("Apply()=%v, want %v", ids(got), want)
	}

	// The term is matched as typed, surrounding spaces included.
	got = Apply(tasks, Criteria{Search: "web ", Sort: SortTitle}, now)
	if want := []string{"3"}; !slices.Equal(ids(got), want) {
		t.Fatalf("Apply(%q)=%v, want %v", "web ", ids(got), want)
	}
	got = Apply(tasks, Criteria{Search: " "}, now)
	if want := []string{"1", "2", "3"}; !slices.Equal(ids(got), want) {
		t.Fatalf("Apply(%q)=%v, want %v", " ", ids(got), want)
	}
}

func TestExactMatchFilters(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Category: "Design", Priority: task.PriorityHigh, Status: task.StatusActive},
		{ID: "2", Category: "Development", Priority: task.PriorityHigh, Status: task.StatusCompleted},
		{ID: "3", Category: "Design", Priority: task.PriorityLow, Status: task.StatusActive},
		{ID: "4", Category: "design", Priority: task.PriorityHigh, Status: task.StatusActive},
	}
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"category", Criteria{Category: "Design"}, []string{"1", "3"}},
		{"priority", Criteria{Priority: task.PriorityHigh}, []string{"1", "2", "4"}},
		{"status", Criteria{Status: task.StatusCompleted}, []string{"2"}},
		{"combined", Criteria{Category: "Design", Priority: task.PriorityHigh, Status: task.StatusActive}, []string{"1"}},
		{"none", Criteria{}, []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.c.Sort = SortCreated
			got := Apply(tasks, tt.c, now)
			if !slices.Equal(ids(got), tt.want) {
				t.Fatalf("Apply()=%v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestDateRanges(t *testing.T) {
	tasks := []task.Task{
		{ID: "sat-before", Due: day("2025-04-19")},
		{ID: "sunday", Due: day("2025-04-20")},
		{ID: "today", Due: day("2025-04-22")},
		{ID: "tomorrow", Due: day("2025-04-23")},
		{ID: "first", Due: day("2025-04-01")},
		{ID: "last-month", Due: day("2025-03-31")},
		{ID: "no-due"},
	}
	tests := []struct {
		r    DateRange
		want []string
	}{
		{DueToday, []string{"today"}},
		{DueThisWeek, []string{"sunday", "today"}},
		{DueThisMonth, []string{"first", "sat-before", "sunday", "today"}},
		{AnyDate, []string{"no-due", "last-month", "first", "sat-before", "sunday", "today", "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			got := Apply(tasks, Criteria{Dates: tt.r, Sort: SortDue}, now)
			if !slices.Equal(ids(got), tt.want) {
				t.Fatalf("Apply()=%v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestTodayScenario(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Due: day("2025-04-22")},
		{ID: "b", Due: day("2025-04-23")},
	}
	got := Apply(tasks, Criteria{Dates: DueToday}, now)
	if want := []string{"a"}; !slices.Equal(ids(got), want) {
		t.Fatalf("Apply()=%v, want %v", ids(got), want)
	}
}

func TestDueTimeOfDayIsIgnored(t *testing.T) {
	tasks := []task.Task{{ID: "late", Due: time.Date(2025, 4, 22, 23, 59, 0, 0, time.UTC)}}
	if got := Apply(tasks, Criteria{Dates: DueToday}, now); len(got) != 1 {
		t.Fatalf("Apply()=%v, want the late-evening task", ids(got))
	}
}

func TestSortKeys(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Title: "banana", Due: day("2025-05-03"), CreatedAt: day("2025-04-02"), Priority: task.PriorityMedium},
		{ID: "2", Title: "Apple", Due: day("2025-05-01"), CreatedAt: day("2025-04-03"), Priority: task.Priority("Urgent")},
		{ID: "3", Title: "cherry", Due: day("2025-05-02"), CreatedAt: day("2025-04-01"), Priority: task.PriorityHigh},
	}
	tests := []struct {
		key  SortKey
		dir  Direction
		want []string
	}{
		{SortDue, Ascending, []string{"2", "3", "1"}},
		{SortDue, Descending, []string{"1", "3", "2"}},
		{SortCreated, Ascending, []string{"3", "1", "2"}},
		{SortTitle, Ascending, []string{"2", "1", "3"}},
		{SortTitle, Descending, []string{"3", "1", "2"}},
		{SortPriority, Ascending, []string{"2", "1", "3"}},
		{SortPriority, Descending, []string{"3", "1", "2"}},
		{SortKey(42), Ascending, []string{"2", "1", "3"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s-%s", tt.key, tt.dir), func(t *testing.T) {
			got := Apply(tasks, Criteria{Sort: tt.key, Direction: tt.dir}, now)
			if !slices.Equal(ids(got), tt.want) {
				t.Fatalf("Apply()=%v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestSortIsStable(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Priority: task.PriorityHigh},
		{ID: "2", Priority: task.PriorityLow},
		{ID: "3", Priority: task.PriorityHigh},
		{ID: "4", Priority: task.PriorityLow},
		{ID: "5", Priority: task.PriorityHigh},
	}
	asc := Apply(tasks, Criteria{Sort: SortPriority, Direction: Ascending}, now)
	if want := []string{"2", "4", "1", "3", "5"}; !slices.Equal(ids(asc), want) {
		t.Fatalf("asc=%v, want %v", ids(asc), want)
	}
	desc := Apply(tasks, Criteria{Sort: SortPriority, Direction: Descending}, now)
	if want := []string{"1", "3", "5", "2", "4"}; !slices.Equal(ids(desc), want) {
		t.Fatalf("desc=%v, want %v", ids(desc), want)
	}
}

func TestApplyProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	priorities := []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow, ""}
	statuses := []task.Status{task.StatusActive, task.StatusCompleted}
	words := []string{"Website", "Database", "Research", "web", "Docs"}

	var tasks []task.Task
	for i := 0; i < 60; i++ {
		tasks = append(tasks, task.Task{
			ID:        fmt.Sprint(i),
			Title:     words[rng.Intn(len(words))],
			Category:  task.Categories[rng.Intn(len(task.Categories))],
			Priority:  priorities[rng.Intn(len(priorities))],
			Status:    statuses[rng.Intn(len(statuses))],
			Due:       now.AddDate(0, 0, rng.Intn(40)-30),
			CreatedAt: now.AddDate(0, 0, -rng.Intn(10)),
		})
	}
	position := map[string]int{}
	for i, tk := range tasks {
		position[tk.ID] = i
	}

	for i := 0; i < 200; i++ {
		c := Criteria{
			Sort:      SortKey(rng.Intn(4)),
			Direction: Direction(rng.Intn(2)),
			Dates:     DateRange(rng.Intn(4)),
		}
		if rng.Intn(2) == 0 {
			c.Search = words[rng.Intn(len(words))]
		}
		if rng.Intn(2) == 0 {
			c.Category = task.Categories[rng.Intn(len(task.Categories))]
		}
		if rng.Intn(2) == 0 {
			c.Priority = priorities[rng.Intn(3)]
		}
		if rng.Intn(2) == 0 {
			c.Status = statuses[rng.Intn(2)]
		}

		got := Apply(tasks, c, now)
		from, to, dated := dueWindow(c.Dates, now)
		for _, tk := range got {
			if c.Search != "" && !strings.Contains(strings.ToLower(tk.Title+"\x00"+tk.Description), strings.ToLower(c.Search)) {
				t.Fatalf("%s: %s fails search", c.Describe(), tk.ID)
			}
			if c.Category != "" && tk.Category != c.Category {
				t.Fatalf("%s: %s fails category", c.Describe(), tk.ID)
			}
			if c.Priority != "" && tk.Priority != c.Priority {
				t.Fatalf("%s: %s fails priority", c.Describe(), tk.ID)
			}
			if c.Status != "" && tk.Status != c.Status {
				t.Fatalf("%s: %s fails status", c.Describe(), tk.ID)
			}
			if dated {
				d := task.Day(tk.Due)
				if d.Before(from) || d.After(to) {
					t.Fatalf("%s: %s due %s outside window", c.Describe(), tk.ID, task.FormatDate(d))
				}
			}
		}

		cmpFn := comparator(c.Sort)
		for j := 1; j < len(got); j++ {
			r := cmpFn(got[j-1], got[j])
			if c.Direction == Descending {
				r = -r
			}
			if r > 0 {
				t.Fatalf("%s: out of order at %d", c.Describe(), j)
			}
			if r == 0 && position[got[j-1].ID] > position[got[j].ID] {
				t.Fatalf("%s: unstable at %d", c.Describe(), j)
			}
		}
	}
}

func TestApplyDoesNotAliasInput(t *testing.T) {
	tasks := []task.Task{{ID: "1", Subtasks: []task.Subtask{{ID: "s"}}}}
	got := Apply(tasks, Default(), now)
	got[0].Subtasks[0].Completed = true
	if tasks[0].Subtasks[0].Completed {
		t.Fatal("Apply() output shares subtasks with input")
	}
}

func TestParsers(t *testing.T) {
	if got := ParseSortKey("dueDate"); got != SortDue {
		t.Errorf("ParseSortKey(dueDate)=%s", got)
	}
	if got := ParseSortKey("bogus"); got != SortTitle {
		t.Errorf("ParseSortKey(bogus)=%s, want title", got)
	}
	if got := ParseDirection("DESC"); got != Descending {
		t.Errorf("ParseDirection(DESC)=%s", got)
	}
	if got := ParseDateRange("fortnight"); got != AnyDate {
		t.Errorf("ParseDateRange(fortnight)=%s, want any", got)
	}
	if got := ParseDateRange("week"); got != DueThisWeek {
		t.Errorf("ParseDateRange(week)=%s", got)
	}
}

func TestCriteriaDescribe(t *testing.T) {
	c := Criteria{Search: "web", Priority: task.PriorityHigh, Dates: DueThisWeek, Sort: SortPriority, Direction: Descending}
	if !c.Active() {
		t.Fatal("Active()=false with filters set")
	}
	want := `search:"web" priority:High due:week sort:priority desc`
	if got := c.Describe(); got != want {
		t.Fatalf("Describe()=%q, want %q", got, want)
	}
	if Default().Active() {
		t.Fatal("Default().Active()=true")
	}
}
