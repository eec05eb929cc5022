// Package board binds the entity store, the query criteria and the selection
// into one session object. Every method that changes an input recomputes the
// view before it returns.
package board

import (
	"errors"
	"log"
	"slices"

	"taskdeck/internal/auth"
	"taskdeck/internal/query"
	"taskdeck/internal/selection"
	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

// View is the derived state a renderer draws from.
type View struct {
	Tasks     []task.Task
	Total     int
	Criteria  query.Criteria
	Selection selection.State
	Selected  []string
}

func (v View) equal(o View) bool {
	return v.Total == o.Total &&
		v.Criteria == o.Criteria &&
		v.Selection == o.Selection &&
		slices.Equal(v.Selected, o.Selected) &&
		slices.EqualFunc(v.Tasks, o.Tasks, task.Task.Equal)
}

type Board struct {
	store    *store.Store
	criteria query.Criteria
	sel      selection.Set
	all      []task.Task
	view     View
	subs     map[int]func(View)
	nextSub  int
}

func New(s *store.Store, c query.Criteria) *Board {
	b := &Board{store: s, criteria: c, subs: map[int]func(View){}}
	b.view = b.compute()
	return b
}

func (b *Board) Store() *store.Store { return b.store }

// Subscribe registers fn to run after any recompute that changes the view. The
// returned func unregisters it.
func (b *Board) Subscribe(fn func(View)) func() {
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	return func() { delete(b.subs, id) }
}

func (b *Board) View() View { return b.view }

func (b *Board) Criteria() query.Criteria { return b.criteria }

// All returns the whole collection in insertion order.
func (b *Board) All() []task.Task {
	return slices.Clone(b.all)
}

func (b *Board) Find(id string) (task.Task, bool) {
	i := slices.IndexFunc(b.all, func(t task.Task) bool { return t.ID == id })
	if i < 0 {
		return task.Task{}, false
	}
	return b.all[i].Clone(), true
}

// SignIn logs in through the auth provider and loads the collection.
func (b *Board) SignIn(email, password string) (auth.User, error) {
	u, err := b.store.Auth().Login(email, password)
	if err != nil {
		return auth.User{}, err
	}
	return u, b.Reload()
}

func (b *Board) Register(name, email, role string) (auth.User, error) {
	u, err := b.store.Auth().Register(name, email, role)
	if err != nil {
		return auth.User{}, err
	}
	return u, b.Reload()
}

// SignOut ends the session and empties the view.
func (b *Board) SignOut() {
	b.store.Auth().Logout()
	b.all = nil
	b.sel.Cancel()
	b.recompute()
}

// Reload re-reads the collection from the store.
func (b *Board) Reload() error {
	tasks, err := b.store.Tasks()
	return b.commit(tasks, err)
}

// Refresh recomputes against the current clock, which moves the date filters
// across midnight.
func (b *Board) Refresh() {
	b.recompute()
}

func (b *Board) SetCriteria(c query.Criteria) {
	b.criteria = c
	b.recompute()
}

func (b *Board) SetSearch(term string) {
	b.criteria.Search = term
	b.recompute()
}

func (b *Board) SetCategory(category string) {
	b.criteria.Category = category
	b.recompute()
}

func (b *Board) SetPriority(p task.Priority) {
	b.criteria.Priority = p
	b.recompute()
}

func (b *Board) SetStatus(s task.Status) {
	b.criteria.Status = s
	b.recompute()
}

func (b *Board) SetDates(r query.DateRange) {
	b.criteria.Dates = r
	b.recompute()
}

func (b *Board) SetSort(k query.SortKey) {
	b.criteria.Sort = k
	b.recompute()
}

func (b *Board) ToggleDirection() {
	b.criteria.Direction = b.criteria.Direction.Flip()
	b.recompute()
}

// ClearFilters resets every filter but keeps the sort order.
func (b *Board) ClearFilters() {
	b.criteria = query.Criteria{Sort: b.criteria.Sort, Direction: b.criteria.Direction}
	b.recompute()
}

// AddTask validates d, then stores it. A validation failure changes nothing.
func (b *Board) AddTask(d task.Draft) (task.Task, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return task.Task{}, err
	}
	created, tasks, err := b.store.AddTask(d)
	if err := b.commit(tasks, err); err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// UpdateTask merges p into the task with id. An empty patch changes nothing.
func (b *Board) UpdateTask(id string, p task.Patch) error {
	if p.Empty() {
		return nil
	}
	return b.commit(b.store.UpdateTask(id, p))
}

func (b *Board) DeleteTask(id string) error {
	return b.commit(b.store.DeleteTask(id))
}

func (b *Board) CompleteTask(id string) error {
	return b.commit(b.store.CompleteTask(id))
}

func (b *Board) ToggleSubtask(taskID, subtaskID string) error {
	return b.commit(b.store.ToggleSubtask(taskID, subtaskID))
}

func (b *Board) EnterSelection() {
	if b.sel.Active() {
		return
	}
	b.sel.Enter()
	b.recompute()
}

// ToggleSelection selects or deselects a visible task. Ids outside the view
// are ignored.
func (b *Board) ToggleSelection(id string, selected bool) {
	if !b.visible(id) {
		return
	}
	b.sel.Toggle(id, selected)
	b.recompute()
}

func (b *Board) FlipSelection(id string) {
	if !b.visible(id) {
		return
	}
	b.sel.Flip(id)
	b.recompute()
}

func (b *Board) CancelSelection() {
	b.sel.Cancel()
	b.recompute()
}

func (b *Board) Selected() []string { return b.sel.IDs() }

// SelectedCount is the number of selected tasks.
func (b *Board) SelectedCount() int { return b.sel.Len() }

// CompleteSelected completes every selected task and leaves selection mode.
// It returns how many tasks were processed.
func (b *Board) CompleteSelected() (int, error) {
	return b.batch(b.store.CompleteTask)
}

// DeleteSelected deletes every selected task and leaves selection mode.
func (b *Board) DeleteSelected() (int, error) {
	return b.batch(b.store.DeleteTask)
}

func (b *Board) batch(op func(string) ([]task.Task, error)) (int, error) {
	ids := b.sel.IDs()
	var tasks []task.Task
	for i, id := range ids {
		var err error
		tasks, err = op(id)
		if err != nil {
			if i > 0 {
				err = errors.Join(err, b.Reload())
			}
			return i, err
		}
	}
	b.sel.Cancel()
	if len(ids) == 0 {
		b.recompute()
		return 0, nil
	}
	return len(ids), b.commit(tasks, nil)
}

func (b *Board) commit(tasks []task.Task, err error) error {
	if err != nil {
		return err
	}
	b.all = tasks
	b.recompute()
	return nil
}

func (b *Board) visible(id string) bool {
	return slices.ContainsFunc(b.view.Tasks, func(t task.Task) bool { return t.ID == id })
}

func (b *Board) compute() View {
	tasks := query.Apply(b.all, b.criteria, b.store.Now())
	visible := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		visible[t.ID] = struct{}{}
	}
	if b.sel.Retain(func(id string) bool {
		_, ok := visible[id]
		return ok
	}) {
		log.Printf("selection: dropped ids no longer in view")
	}
	return View{
		Tasks:     tasks,
		Total:     len(b.all),
		Criteria:  b.criteria,
		Selection: b.sel.State(),
		Selected:  b.sel.IDs(),
	}
}

func (b *Board) recompute() {
	next := b.compute()
	changed := !next.equal(b.view)
	b.view = next
	if !changed {
		return
	}
	for _, fn := range b.subs {
		fn(next)
	}
}
