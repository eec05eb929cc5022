package board

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/auth"
	"taskdeck/internal/query"
	"taskdeck/internal/selection"
	"taskdeck/internal/storage"
	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

var now = time.Date(2025, 4, 22, 10, 0, 0, 0, time.UTC)

func newBoard(t *testing.T) *Board {
	t.Helper()
	db, err := storage.Open("")
	if err != nil {
		t.Fatalf("storage.Open() err=%v", err)
	}
	db.SetLocation(time.UTC)
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db, auth.New(auth.DemoAccount()), nil, store.Options{
		Now: func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("store.New() err=%v", err)
	}
	if err := s.Seed(store.SampleTasks(time.UTC)); err != nil {
		t.Fatalf("Seed() err=%v", err)
	}
	b := New(s, query.Default())
	if _, err := b.SignIn("demo@example.com", "password"); err != nil {
		t.Fatalf("SignIn() err=%v", err)
	}
	return b
}

func viewIDs(v View) []string {
	out := make([]string, len(v.Tasks))
	for i, t := range v.Tasks {
		out[i] = t.ID
	}
	return out
}

func TestSignedOutBoardIsEmpty(t *testing.T) {
	b := newBoard(t)
	b.SignOut()
	if v := b.View(); len(v.Tasks) != 0 || v.Total != 0 {
		t.Fatalf("View() after SignOut=%+v", v)
	}
	if err := b.CompleteTask("1"); !errors.Is(err, store.ErrNoSession) {
		t.Fatalf("CompleteTask() err=%v, want %v", err, store.ErrNoSession)
	}
}

func TestDefaultViewSortedByDue(t *testing.T) {
	b := newBoard(t)
	if want := []string{"3", "1", "2"}; !slices.Equal(viewIDs(b.View()), want) {
		t.Fatalf("View()=%v, want %v", viewIDs(b.View()), want)
	}
	if got := b.View().Total; got != 3 {
		t.Fatalf("Total=%d, want 3", got)
	}
}

func TestCriteriaChangesRecompute(t *testing.T) {
	b := newBoard(t)

	b.SetSearch("web")
	if want := []string{"1"}; !slices.Equal(viewIDs(b.View()), want) {
		t.Fatalf("search view=%v, want %v", viewIDs(b.View()), want)
	}

	b.SetSearch("")
	b.SetSort(query.SortPriority)
	b.ToggleDirection()
	if want := []string{"1", "2", "3"}; !slices.Equal(viewIDs(b.View()), want) {
		t.Fatalf("priority desc view=%v, want %v", viewIDs(b.View()), want)
	}

	b.SetStatus(task.StatusCompleted)
	if want := []string{"3"}; !slices.Equal(viewIDs(b.View()), want) {
		t.Fatalf("status view=%v, want %v", viewIDs(b.View()), want)
	}

	b.ClearFilters()
	if b.Criteria().Active() || b.Criteria().Sort != query.SortPriority {
		t.Fatalf("ClearFilters() criteria=%+v", b.Criteria())
	}
}

func TestMutationsVisibleBeforeReturn(t *testing.T) {
	b := newBoard(t)
	b.SetStatus(task.StatusActive)

	if err := b.CompleteTask("1"); err != nil {
		t.Fatalf("CompleteTask() err=%v", err)
	}
	if want := []string{"2"}; !slices.Equal(viewIDs(b.View()), want) {
		t.Fatalf("view=%v, want %v", viewIDs(b.View()), want)
	}

	created, err := b.AddTask(task.Draft{
		Title:    "Launch Campaign",
		Category: "Marketing",
		Priority: task.PriorityLow,
		Due:      time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddTask() err=%v", err)
	}
	if want := []string{"2", created.ID}; !slices.Equal(viewIDs(b.View()), want) {
		t.Fatalf("view=%v, want %v", viewIDs(b.View()), want)
	}
}

func TestAddTaskRoundTrip(t *testing.T) {
	b := newBoard(t)
	for _, id := range []string{"1", "2", "3"} {
		b.DeleteTask(id)
	}

	d := task.Draft{
		Title:       "Write docs",
		Description: "user guide",
		Category:    "Development",
		Priority:    task.PriorityMedium,
		Due:         time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Notes:       "ship with v1",
	}
	created, err := b.AddTask(d)
	if err != nil {
		t.Fatalf("AddTask() err=%v", err)
	}

	v := b.View()
	if len(v.Tasks) != 1 {
		t.Fatalf("view has %d tasks, want 1", len(v.Tasks))
	}
	want := d.Normalize().Build(created.ID, task.Day(now))
	want.AssignedTo = "1"
	if !v.Tasks[0].Equal(want) {
		t.Fatalf("view task=%+v, want %+v", v.Tasks[0], want)
	}
}

func TestAddTaskValidation(t *testing.T) {
	b := newBoard(t)
	calls := 0
	b.Subscribe(func(View) { calls++ })

	_, err := b.AddTask(task.Draft{Title: "no category", Priority: task.PriorityLow, Due: now})
	var verr *task.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category" {
		t.Fatalf("AddTask() err=%v, want category ValidationError", err)
	}
	if b.View().Total != 3 || calls != 0 {
		t.Fatalf("validation failure changed state: total=%d calls=%d", b.View().Total, calls)
	}
}

func TestSubscribersNotifiedOnlyOnChange(t *testing.T) {
	b := newBoard(t)
	var got []View
	unsubscribe := b.Subscribe(func(v View) { got = append(got, v) })

	b.SetSearch("web")
	b.SetSearch("web")
	b.SetSearch("WEB")
	if len(got) != 2 {
		t.Fatalf("notified %d times, want 2", len(got))
	}

	b.Refresh()
	b.SetCategory("Design")
	if len(got) != 3 {
		t.Fatalf("notified %d times after criteria change, want 3", len(got))
	}

	b.CompleteTask("nope")
	if len(got) != 3 {
		t.Fatalf("no-op mutation notified: %d", len(got))
	}

	unsubscribe()
	b.SetSearch("")
	if len(got) != 3 {
		t.Fatal("unsubscribed callback still runs")
	}
}

func TestSelectionPrunedWhenFilteredOut(t *testing.T) {
	b := newBoard(t)
	b.EnterSelection()
	if b.View().Selection != selection.ActiveEmpty {
		t.Fatalf("Selection=%s, want active-empty", b.View().Selection)
	}

	b.ToggleSelection("1", true)
	b.ToggleSelection("3", true)
	b.ToggleSelection("missing", true)
	if want := []string{"1", "3"}; !slices.Equal(b.Selected(), want) {
		t.Fatalf("Selected()=%v, want %v", b.Selected(), want)
	}

	b.SetStatus(task.StatusActive)
	if want := []string{"1"}; !slices.Equal(b.View().Selected, want) {
		t.Fatalf("Selected after filter=%v, want %v", b.View().Selected, want)
	}

	b.DeleteTask("1")
	if got := b.View().Selection; got != selection.ActiveEmpty {
		t.Fatalf("Selection after delete=%s, want active-empty", got)
	}

	b.CancelSelection()
	if got := b.View().Selection; got != selection.Inactive {
		t.Fatalf("Selection after cancel=%s, want inactive", got)
	}
}

func TestBatchActions(t *testing.T) {
	b := newBoard(t)
	b.EnterSelection()
	b.FlipSelection("1")
	b.FlipSelection("2")

	n, err := b.CompleteSelected()
	if err != nil || n != 2 {
		t.Fatalf("CompleteSelected() = %d, %v", n, err)
	}
	for _, tk := range b.All() {
		if tk.Status != task.StatusCompleted {
			t.Fatalf("task %s status=%s", tk.ID, tk.Status)
		}
	}
	if b.View().Selection != selection.Inactive {
		t.Fatal("batch did not leave selection mode")
	}

	b.EnterSelection()
	b.FlipSelection("3")
	n, err = b.DeleteSelected()
	if err != nil || n != 1 {
		t.Fatalf("DeleteSelected() = %d, %v", n, err)
	}
	if _, ok := b.Find("3"); ok {
		t.Fatal("task 3 still present")
	}
}

func TestToggleSubtask(t *testing.T) {
	b := newBoard(t)
	if err := b.ToggleSubtask("1", "1-3"); err != nil {
		t.Fatalf("ToggleSubtask() err=%v", err)
	}
	tk, _ := b.Find("1")
	if !tk.Subtasks[2].Completed {
		t.Fatal("subtask not toggled")
	}
}

func TestBatchReportsReloadFailure(t *testing.T) {
	db, err := storage.Open("")
	if err != nil {
		t.Fatalf("storage.Open() err=%v", err)
	}
	db.SetLocation(time.UTC)
	s, err := store.New(db, auth.New(auth.DemoAccount()), nil, store.Options{
		Now: func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("store.New() err=%v", err)
	}
	if err := s.Seed(store.SampleTasks(time.UTC)); err != nil {
		t.Fatalf("Seed() err=%v", err)
	}
	b := New(s, query.Default())
	if _, err := b.SignIn("demo@example.com", "password"); err != nil {
		t.Fatalf("SignIn() err=%v", err)
	}
	b.EnterSelection()
	b.FlipSelection("1")
	b.FlipSelection("2")

	errOp := errors.New("disk gone")
	calls := 0
	n, err := b.batch(func(id string) ([]task.Task, error) {
		calls++
		if calls == 1 {
			return s.CompleteTask(id)
		}
		db.Close()
		return nil, errOp
	})
	if n != 1 || !errors.Is(err, errOp) {
		t.Fatalf("batch() = %d, %v, want 1 and %v", n, err, errOp)
	}
	if !strings.Contains(err.Error(), "load tasks") {
		t.Fatalf("batch() err=%v, want the reload failure joined", err)
	}
	if b.View().Selection == selection.Inactive {
		t.Fatal("failed batch left selection mode")
	}
}

func TestEmptyPatchAndHiddenFlip(t *testing.T) {
	b := newBoard(t)
	calls := 0
	b.Subscribe(func(View) { calls++ })

	if err := b.UpdateTask("1", task.Patch{}); err != nil {
		t.Fatalf("UpdateTask(empty) err=%v", err)
	}
	if calls != 0 {
		t.Fatalf("empty patch notified %d times", calls)
	}

	b.SetStatus(task.StatusActive)
	b.EnterSelection()
	b.FlipSelection("3")
	if b.SelectedCount() != 0 {
		t.Fatalf("hidden task selected: %v", b.Selected())
	}
	b.FlipSelection("1")
	b.FlipSelection("2")
	b.FlipSelection("1")
	if want := []string{"2"}; !slices.Equal(b.Selected(), want) || b.SelectedCount() != 1 {
		t.Fatalf("Selected()=%v, want %v", b.Selected(), want)
	}
}
