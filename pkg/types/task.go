// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TaskState is the overall state of one batch task.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
	TaskCancelled TaskState = "cancelled"
)

// Terminal reports whether the state is final.
func (s TaskState) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCancelled
}

// Task is one asynchronous batch run. The task is created before the
// pipeline starts and updated as rows complete; callers poll it by ID.
type Task struct {
	ID    string    `json:"task_id" yaml:"task_id"`
	State TaskState `json:"status" yaml:"status"`

	// RowsDone and RowsTotal drive a progress percentage.
	RowsDone  int `json:"rows_done" yaml:"rows_done"`
	RowsTotal int `json:"rows_total" yaml:"rows_total"`

	// Result is populated once the task completes.
	Result *BatchMatchResponse `json:"result,omitempty" yaml:"result,omitempty"`

	// Error holds the batch-level failure message, set only when the row
	// source itself could not be queried. Per-row failures live inside
	// Result instead.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Progress returns completion as a fraction in [0,1].
func (t Task) Progress() float64 {
	if t.RowsTotal == 0 {
		return 0
	}
	return float64(t.RowsDone) / float64(t.RowsTotal)
}
