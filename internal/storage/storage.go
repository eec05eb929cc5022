package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskdeck/internal/task"
)

// MemoryPath opens a private in-memory database that lives as long as the Store.
const MemoryPath = ":memory:"

type Store struct {
	db  *sql.DB
	loc *time.Location
}

// Open opens the task database. An empty path or MemoryPath keeps everything in
// memory; anything else is a sqlite file created on demand.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}
	if dbPath != MemoryPath && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, loc: time.Local}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetLocation sets the zone calendar dates are read back in.
func (s *Store) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Active',
	due TEXT DEFAULT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subtasks (
	task_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (task_id, position)
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns upgrades database files created before notes existed.
func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"notes": "ALTER TABLE tasks ADD COLUMN notes TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// FetchTasks returns every task in insertion order.
func (s *Store) FetchTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, title, description, category, priority, status, due, assigned_to, created_at, notes FROM tasks ORDER BY seq;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task.Task{}
	index := map[string]int{}
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subs, err := s.fetchSubtasks()
	if err != nil {
		return nil, err
	}
	for id, list := range subs {
		if i, ok := index[id]; ok {
			tasks[i].Subtasks = list
		}
	}
	return tasks, nil
}

// GetTask returns the task with id; ok is false when it does not exist.
func (s *Store) GetTask(id string) (task.Task, bool, error) {
	row := s.db.QueryRow(`SELECT id, title, description, category, priority, status, due, assigned_to, created_at, notes FROM tasks WHERE id = ?;`, id)
	t, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, err
	}
	subs, err := s.db.Query(`SELECT id, title, completed FROM subtasks WHERE task_id = ? ORDER BY position;`, id)
	if err != nil {
		return task.Task{}, false, err
	}
	defer subs.Close()
	for subs.Next() {
		var st task.Subtask
		var completed int
		if err := subs.Scan(&st.ID, &st.Title, &completed); err != nil {
			return task.Task{}, false, err
		}
		st.Completed = completed == 1
		t.Subtasks = append(t.Subtasks, st)
	}
	return t, true, subs.Err()
}

func (s *Store) InsertTask(t task.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO tasks (id, title, description, category, priority, status, due, assigned_to, created_at, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		t.ID, t.Title, t.Description, t.Category, string(t.Priority), string(t.Status), nullDate(t.Due), t.AssignedTo, task.FormatDate(t.CreatedAt), t.Notes)
	if err != nil {
		return err
	}
	if err := writeSubtasks(tx, t.ID, t.Subtasks); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateTask overwrites the stored row for t.ID. It reports false when no such
// task exists.
func (s *Store) UpdateTask(t task.Task) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE tasks SET title = ?, description = ?, category = ?, priority = ?, status = ?, due = ?, assigned_to = ?, notes = ? WHERE id = ?;`,
		t.Title, t.Description, t.Category, string(t.Priority), string(t.Status), nullDate(t.Due), t.AssignedTo, t.Notes, t.ID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}
	if _, err := tx.Exec(`DELETE FROM subtasks WHERE task_id = ?;`, t.ID); err != nil {
		return false, err
	}
	if err := writeSubtasks(tx, t.ID, t.Subtasks); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (s *Store) SetStatus(id string, status task.Status) (bool, error) {
	res, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?;`, string(status), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *Store) DeleteTask(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return false, err
	}
	if _, err := tx.Exec(`DELETE FROM subtasks WHERE task_id = ?;`, id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var priority, status, createdStr string
	var dueStr sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &priority, &status, &dueStr, &t.AssignedTo, &createdStr, &t.Notes); err != nil {
		return task.Task{}, err
	}
	t.Priority = task.Priority(priority)
	t.Status = task.Status(status)
	if dueStr.Valid {
		if parsed, err := task.ParseDate(dueStr.String, s.loc); err == nil {
			t.Due = parsed
		}
	}
	if created, err := task.ParseDate(createdStr, s.loc); err == nil {
		t.CreatedAt = created
	}
	return t, nil
}

func (s *Store) fetchSubtasks() (map[string][]task.Subtask, error) {
	rows, err := s.db.Query(`SELECT task_id, id, title, completed FROM subtasks ORDER BY task_id, position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]task.Subtask{}
	for rows.Next() {
		var taskID string
		var st task.Subtask
		var completed int
		if err := rows.Scan(&taskID, &st.ID, &st.Title, &completed); err != nil {
			return nil, err
		}
		st.Completed = completed == 1
		out[taskID] = append(out[taskID], st)
	}
	return out, rows.Err()
}

func writeSubtasks(tx *sql.Tx, taskID string, subtasks []task.Subtask) error {
	for i, st := range subtasks {
		done := 0
		if st.Completed {
			done = 1
		}
		if _, err := tx.Exec(`INSERT INTO subtasks (task_id, position, id, title, completed) VALUES (?, ?, ?, ?, ?);`,
			taskID, i, st.ID, st.Title, done); err != nil {
			return err
		}
	}
	return nil
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: task.FormatDate(t), Valid: true}
}

func sqliteDSN(path string) string {
	if path == MemoryPath || strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
