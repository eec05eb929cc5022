// Package store owns the session's entities: the task collection, the signed-in
// user and the notification feed. Its methods are the only write path for tasks.
package store

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/auth"
	"taskdeck/internal/notify"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
)

var ErrNoSession = errors.New("not signed in")

type Options struct {
	Now   func() time.Time
	NewID func() string
}

type Store struct {
	db    *storage.Store
	auth  *auth.Provider
	feed  *notify.Feed
	now   func() time.Time
	newID func() string
}

func New(db *storage.Store, provider *auth.Provider, feed *notify.Feed, opts Options) (*Store, error) {
	if db == nil {
		return nil, errors.New("store: nil database")
	}
	if provider == nil {
		return nil, errors.New("store: nil auth provider")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if feed == nil {
		feed = notify.NewFeed(opts.Now)
	}
	return &Store{db: db, auth: provider, feed: feed, now: opts.Now, newID: opts.NewID}, nil
}

func (s *Store) Auth() *auth.Provider { return s.auth }

func (s *Store) Notifications() *notify.Feed { return s.feed }

func (s *Store) Now() time.Time { return s.now() }

// User returns the signed-in user.
func (s *Store) User() (auth.User, bool) {
	return s.auth.Current()
}

// Tasks returns the collection in insertion order.
func (s *Store) Tasks() ([]task.Task, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	return s.fetch()
}

// Seed inserts tasks as given, ids and creation dates included. It does not
// need a session.
func (s *Store) Seed(tasks []task.Task) error {
	for _, t := range tasks {
		if err := s.db.InsertTask(t); err != nil {
			return fmt.Errorf("seed %s: %w", t.ID, err)
		}
	}
	return nil
}

// AddTask stores a new task built from d with a fresh id and today's date as
// its creation date. Required fields are checked by the caller.
func (s *Store) AddTask(d task.Draft) (task.Task, []task.Task, error) {
	if err := s.requireSession(); err != nil {
		return task.Task{}, nil, err
	}
	if d.AssignedTo == "" {
		if u, ok := s.auth.Current(); ok {
			d.AssignedTo = u.ID
		}
	}
	if d.Status == "" {
		d.Status = task.StatusActive
	}
	t := d.Build(s.newID(), task.Day(s.now()))
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = fmt.Sprintf("%s-%d", t.ID, i+1)
		}
	}
	if err := s.db.InsertTask(t); err != nil {
		return task.Task{}, nil, fmt.Errorf("add task: %w", err)
	}
	tasks, err := s.fetch()
	return t, tasks, err
}

// UpdateTask merges p into the task with id. A missing id is a silent no-op so
// a stale view racing a delete cannot fail.
func (s *Store) UpdateTask(id string, p task.Patch) ([]task.Task, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	cur, ok, err := s.db.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if !ok {
		log.Printf("update %s: no such task", id)
		return s.fetch()
	}
	if _, err := s.db.UpdateTask(p.Apply(cur)); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.fetch()
}

// DeleteTask removes the task with id, if present.
func (s *Store) DeleteTask(id string) ([]task.Task, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if _, err := s.db.DeleteTask(id); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return s.fetch()
}

// CompleteTask marks the task Completed whatever its current status.
func (s *Store) CompleteTask(id string) ([]task.Task, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if _, err := s.db.SetStatus(id, task.StatusCompleted); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	return s.fetch()
}

// ToggleSubtask flips one subtask's completed flag through UpdateTask.
func (s *Store) ToggleSubtask(taskID, subtaskID string) ([]task.Task, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	cur, ok, err := s.db.GetTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("toggle subtask: %w", err)
	}
	if !ok {
		return s.fetch()
	}
	subs := slices.Clone(cur.Subtasks)
	idx := slices.IndexFunc(subs, func(st task.Subtask) bool { return st.ID == subtaskID })
	if idx < 0 {
		return s.fetch()
	}
	subs[idx].Completed = !subs[idx].Completed
	return s.UpdateTask(taskID, task.Patch{Subtasks: &subs})
}

func (s *Store) requireSession() error {
	if _, ok := s.auth.Current(); !ok {
		return ErrNoSession
	}
	return nil
}

func (s *Store) fetch() ([]task.Task, error) {
	tasks, err := s.db.FetchTasks()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}
