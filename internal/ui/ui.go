package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/auth"
	"taskdeck/internal/board"
	"taskdeck/internal/config"
	"taskdeck/internal/query"
	"taskdeck/internal/selection"
	"taskdeck/internal/task"
)

type mode int

const (
	modeLogin mode = iota
	modeList
	modeSearch
	modeForm
	modeAnalytics
	modeNotifications
)

type tickMsg time.Time

// viewSync receives every recomputed view from the board. It sits behind a
// pointer so the subscription survives bubbletea copying the model.
type viewSync struct {
	view    board.View
	version int
}

type Model struct {
	board        *board.Board
	cfg          config.Config
	sync         *viewSync
	clock        func() time.Time
	started      time.Time
	now          time.Time
	cursor       int
	subCursor    int
	noteCursor   int
	mode         mode
	input        textinput.Model
	login        *loginState
	form         *formState
	status       string
	confirmDel   bool
	pendingDel   []string
	pendingBatch bool
	showDetail   bool
	width        int
}

// New builds the model. clock may be nil to use time.Now.
func New(b *board.Board, cfg config.Config, clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}
	sync := &viewSync{view: b.View()}
	b.Subscribe(func(v board.View) {
		sync.view = v
		sync.version++
	})

	ti := textinput.New()
	ti.Placeholder = "Search tasks..."
	ti.CharLimit = 256
	ti.Width = 40

	now := clock()
	m := Model{
		board:   b,
		cfg:     cfg,
		sync:    sync,
		clock:   clock,
		started: now,
		now:     now,
		input:   ti,
		mode:    modeList,
		status:  "Press 'a' to add, 'c' to complete, '/' to search.",
	}
	if _, ok := b.Store().User(); !ok {
		m = m.startLogin()
	}
	return m
}

func Run(b *board.Board, cfg config.Config, firstLaunch bool) error {
	m := New(b, cfg, nil)
	if firstLaunch {
		m.status = fmt.Sprintf("Welcome! Sign in as %s / %s.", cfg.Demo.Email, cfg.Demo.Password)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		m.board.Refresh()
		m.cursor = clampCursor(m.cursor, len(m.tasks()))
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeLogin:
		return m.updateLoginMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeForm:
		return m.updateFormMode(key, msg)
	case modeAnalytics:
		return m.updateAnalyticsMode(key)
	case modeNotifications:
		return m.updateNotificationsMode(key)
	}
	if m.sync.view.Selection != selection.Inactive {
		if next, cmd, ok := m.updateSelectionMode(key); ok {
			return next, cmd
		}
	}
	return m.updateListMode(key)
}

func (m Model) tasks() []task.Task {
	return m.sync.view.Tasks
}

func (m Model) current() (task.Task, bool) {
	tasks := m.tasks()
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	return tasks[clampCursor(m.cursor, len(tasks))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.tasks()) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks()))
		m.subCursor = 0
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks()))
			m.subCursor = 0
		}
	case k.Add:
		return m.startForm(nil)
	case k.Edit:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case k.Complete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.board.CompleteTask(t.ID); err != nil {
			m.status = fmt.Sprintf("complete failed: %v", err)
			log.Printf("complete %s: %v", t.ID, err)
			return m, nil
		}
		m.status = fmt.Sprintf("Completed \"%s\"", t.Title)
	case k.Delete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = []string{t.ID}
		m.pendingBatch = false
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case k.Detail:
		if _, ok := m.current(); !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.showDetail = !m.showDetail
		m.subCursor = 0
	case "tab":
		if t, ok := m.current(); ok && m.showDetail && len(t.Subtasks) > 0 {
			m.subCursor = wrapIndex(m.subCursor+1, len(t.Subtasks))
		}
	case k.ToggleSubtask:
		t, ok := m.current()
		if !ok || len(t.Subtasks) == 0 {
			m.status = "No subtasks"
			return m, nil
		}
		st := t.Subtasks[wrapIndex(m.subCursor, len(t.Subtasks))]
		if err := m.board.ToggleSubtask(t.ID, st.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.showDetail = true
		m.status = fmt.Sprintf("Toggled \"%s\"", st.Title)
	case k.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search tasks..."
		m.input.SetValue(m.board.Criteria().Search)
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Search: type to filter, enter to keep, esc to clear"
	case k.FilterCategory:
		opts := append([]string{""}, m.cfg.Categories...)
		m.board.SetCategory(cycle(opts, m.board.Criteria().Category))
		m.status = m.criteriaStatus()
	case k.FilterPriority:
		opts := []task.Priority{"", task.PriorityHigh, task.PriorityMedium, task.PriorityLow}
		m.board.SetPriority(cycle(opts, m.board.Criteria().Priority))
		m.status = m.criteriaStatus()
	case k.FilterStatus:
		opts := []task.Status{"", task.StatusActive, task.StatusCompleted}
		m.board.SetStatus(cycle(opts, m.board.Criteria().Status))
		m.status = m.criteriaStatus()
	case k.FilterDate:
		opts := []query.DateRange{query.AnyDate, query.DueToday, query.DueThisWeek, query.DueThisMonth}
		m.board.SetDates(cycle(opts, m.board.Criteria().Dates))
		m.status = m.criteriaStatus()
	case k.ClearFilters:
		m.board.ClearFilters()
		m.status = "Filters cleared"
	case k.SortDue:
		m.board.SetSort(query.SortDue)
		m.status = m.criteriaStatus()
	case k.SortPriority:
		m.board.SetSort(query.SortPriority)
		m.status = m.criteriaStatus()
	case k.SortTitle:
		m.board.SetSort(query.SortTitle)
		m.status = m.criteriaStatus()
	case k.SortCreated:
		m.board.SetSort(query.SortCreated)
		m.status = m.criteriaStatus()
	case k.SortDirection:
		m.board.ToggleDirection()
		m.status = m.criteriaStatus()
	case k.SelectMode:
		m.board.EnterSelection()
		m.status = "Selection mode: space to select, c complete, d delete, esc cancel"
	case k.Analytics:
		m.mode = modeAnalytics
		m.status = "Analytics (esc to return)"
	case k.Notifications:
		m.mode = modeNotifications
		m.noteCursor = 0
		m.status = "Notifications: enter to mark read, m mark all, esc to return"
	case k.CyclePresence:
		u, ok := m.board.Store().User()
		if !ok {
			return m, nil
		}
		next := u.Presence.Next()
		m.board.Store().Auth().SetPresence(next)
		m.status = "Status: " + string(next)
	case k.Logout:
		m.board.SignOut()
		m.cursor = 0
		m.showDetail = false
		log.Printf("signed out")
		return m.startLogin(), nil
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks()))
	return m, nil
}

// updateSelectionMode handles keys that mean something else while selecting.
// ok is false when the key should fall through to list handling.
func (m Model) updateSelectionMode(key string) (tea.Model, tea.Cmd, bool) {
	k := m.cfg.Keys
	switch key {
	case k.Cancel, "esc":
		m.board.CancelSelection()
		m.status = "Selection cancelled"
	case k.Select, "space":
		t, ok := m.current()
		if !ok {
			return m, nil, true
		}
		m.board.FlipSelection(t.ID)
		m.status = fmt.Sprintf("%d selected", m.board.SelectedCount())
	case k.BatchComplete:
		n, err := m.board.CompleteSelected()
		if err != nil {
			m.status = fmt.Sprintf("complete failed: %v", err)
			log.Printf("batch complete: %v", err)
			return m, nil, true
		}
		m.status = fmt.Sprintf("Completed %d %s", n, plural(n, "task", "tasks"))
	case k.BatchDelete:
		ids := m.board.Selected()
		if len(ids) == 0 {
			m.status = "Nothing selected"
			return m, nil, true
		}
		m.confirmDel = true
		m.pendingDel = ids
		m.pendingBatch = true
		m.status = fmt.Sprintf("Delete %d %s? y/n", len(ids), plural(len(ids), "task", "tasks"))
	default:
		return m, nil, false
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks()))
	return m, nil, true
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		m.pendingBatch = false
		return m, nil
	case "y", "Y":
		if len(m.pendingDel) == 0 {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		var err error
		n := len(m.pendingDel)
		if m.pendingBatch {
			n, err = m.board.DeleteSelected()
		} else {
			err = m.board.DeleteTask(m.pendingDel[0])
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.pendingBatch = false
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			log.Printf("delete: %v", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.tasks()))
		m.showDetail = false
		m.status = fmt.Sprintf("Deleted %d %s", n, plural(n, "task", "tasks"))
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.board.SetSearch("")
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.status = "Search cleared"
	case m.cfg.Keys.Confirm, "enter":
		m.input.Blur()
		m.mode = modeList
		m.status = m.criteriaStatus()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.board.SetSearch(m.input.Value())
		m.cursor = clampCursor(m.cursor, len(m.tasks()))
		return m, cmd
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks()))
	return m, nil
}

func (m Model) updateAnalyticsMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Cancel, "esc", m.cfg.Keys.Analytics:
		m.mode = modeList
		m.status = ""
	}
	return m, nil
}

func (m Model) updateNotificationsMode(key string) (tea.Model, tea.Cmd) {
	feed := m.board.Store().Notifications()
	items := feed.List()
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Cancel, "esc", m.cfg.Keys.Notifications:
		m.mode = modeList
		m.status = ""
	case m.cfg.Keys.Down, "down":
		m.noteCursor = clampCursor(m.noteCursor+1, len(items))
	case m.cfg.Keys.Up, "up":
		m.noteCursor = clampCursor(m.noteCursor-1, len(items))
	case m.cfg.Keys.Confirm, "enter":
		if len(items) > 0 {
			feed.MarkRead(items[clampCursor(m.noteCursor, len(items))].ID)
		}
	case m.cfg.Keys.MarkAllRead:
		feed.MarkAllRead()
		m.status = "All notifications read"
	}
	return m, nil
}

func (m Model) criteriaStatus() string {
	v := m.sync.view
	return fmt.Sprintf("%d of %d %s • %s", len(v.Tasks), v.Total, plural(v.Total, "task", "tasks"), v.Criteria.Describe())
}

func describeErr(err error) string {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Please fill in all required fields: " + verr.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	default:
		return err.Error()
	}
}

func cycle[T comparable](opts []T, cur T) T {
	for i, v := range opts {
		if v == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return opts[0]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
