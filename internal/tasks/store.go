// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tasks persists batch tasks and runs batches asynchronously.
// Callers create a task, poll its status by ID, and read the batch result
// once the task completes. Finished tasks are swept after a retention
// window instead of accumulating forever.
package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// ErrNotFound reports that no task exists with the requested ID.
var ErrNotFound = errors.New("task not found")

// Store is the task lifecycle contract: create, update, poll, list,
// delete. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, rowsTotal int) (types.Task, error)
	Get(ctx context.Context, id string) (types.Task, error)
	List(ctx context.Context) ([]types.Task, error)
	SetState(ctx context.Context, id string, state types.TaskState, errMsg string) error
	SetProgress(ctx context.Context, id string, done int) error
	SetResult(ctx context.Context, id string, result *types.BatchMatchResponse) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// SQLiteStore persists tasks in a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	retention time.Duration
}

// NewSQLiteStore opens or creates the task database at cfg.Path, creates
// the schema if needed, and sweeps tasks older than the retention window.
func NewSQLiteStore(cfg types.TaskStoreConfig) (*SQLiteStore, error) {
	path := cfg.Path
	if path == "" {
		path = "expertai-tasks.db"
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening task database: %w", err)
	}

	s := &SQLiteStore{db: db, retention: retention}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if _, err := s.Sweep(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("sweeping expired tasks: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		rows_done INTEGER NOT NULL DEFAULT 0,
		rows_total INTEGER NOT NULL DEFAULT 0,
		result TEXT,
		error TEXT,
		created_at TEXT NOT NULL,
		completed_at TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Create inserts a new pending task and returns it.
func (s *SQLiteStore) Create(ctx context.Context, rowsTotal int) (types.Task, error) {
	task := types.Task{
		ID:        uuid.NewString(),
		State:     types.TaskPending,
		RowsTotal: rowsTotal,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, status, rows_done, rows_total, created_at) VALUES (?, ?, 0, ?, ?)`,
		task.ID, string(task.State), task.RowsTotal, task.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return types.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return task, nil
}

// Get returns one task by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, rows_done, rows_total, result, error, created_at, completed_at
		 FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return task, err
}

// List returns all tasks, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, rows_done, rows_total, result, error, created_at, completed_at
		 FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// SetState transitions a task. Terminal states also stamp completed_at.
func (s *SQLiteStore) SetState(ctx context.Context, id string, state types.TaskState, errMsg string) error {
	var completedAt any
	if state.Terminal() {
		completedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, error = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?`,
		string(state), nullIfEmpty(errMsg), completedAt, id)
	if err != nil {
		return fmt.Errorf("updating task state: %w", err)
	}
	return affectedOrNotFound(res, id)
}

// SetProgress records how many rows have finished.
func (s *SQLiteStore) SetProgress(ctx context.Context, id string, done int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET rows_done = ? WHERE id = ?`, done, id)
	if err != nil {
		return fmt.Errorf("updating task progress: %w", err)
	}
	return affectedOrNotFound(res, id)
}

// SetResult stores the final batch response as JSON.
func (s *SQLiteStore) SetResult(ctx context.Context, id string, result *types.BatchMatchResponse) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET result = ? WHERE id = ?`, string(payload), id)
	if err != nil {
		return fmt.Errorf("updating task result: %w", err)
	}
	return affectedOrNotFound(res, id)
}

// Delete removes one task.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return affectedOrNotFound(res, id)
}

// Sweep deletes finished tasks older than the retention window and
// returns how many were removed.
func (s *SQLiteStore) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.retention).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE status IN (?, ?, ?) AND completed_at IS NOT NULL AND completed_at < ?`,
		string(types.TaskCompleted), string(types.TaskFailed), string(types.TaskCancelled), cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping tasks: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (types.Task, error) {
	var (
		task        types.Task
		state       string
		result      sql.NullString
		errMsg      sql.NullString
		createdAt   string
		completedAt sql.NullString
	)
	err := sc.Scan(&task.ID, &state, &task.RowsDone, &task.RowsTotal, &result, &errMsg, &createdAt, &completedAt)
	if err != nil {
		return types.Task{}, err
	}

	task.State = types.TaskState(state)
	task.Error = errMsg.String
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		task.CreatedAt = t
	}
	if completedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, completedAt.String); err == nil {
			task.CompletedAt = &t
		}
	}
	if result.Valid && result.String != "" {
		var resp types.BatchMatchResponse
		if err := json.Unmarshal([]byte(result.String), &resp); err != nil {
			return types.Task{}, fmt.Errorf("parsing stored result: %w", err)
		}
		task.Result = &resp
	}
	return task, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func affectedOrNotFound(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
