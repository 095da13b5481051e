// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Idriss-Abidi/ExpertAI/internal/pipeline"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// Runner executes batches asynchronously against the store. Start returns
// a task ID immediately; the pipeline runs in a goroutine and updates the
// task as rows complete.
type Runner struct {
	Store    Store
	Pipeline *pipeline.Pipeline
	Log      io.Writer

	mu      sync.Mutex
	flags   map[string]*pipeline.CancelFlag
	running sync.WaitGroup
}

// Start creates a task for the request and launches the pipeline. The
// returned ID can be polled via the store.
func (r *Runner) Start(ctx context.Context, req types.BatchMatchRequest) (string, error) {
	task, err := r.Store.Create(ctx, len(req.Rows))
	if err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}

	flag := &pipeline.CancelFlag{}
	r.mu.Lock()
	if r.flags == nil {
		r.flags = make(map[string]*pipeline.CancelFlag)
	}
	r.flags[task.ID] = flag
	r.mu.Unlock()

	r.running.Add(1)
	go func() {
		defer r.running.Done()
		defer func() {
			r.mu.Lock()
			delete(r.flags, task.ID)
			r.mu.Unlock()
		}()
		r.execute(ctx, task.ID, req, flag)
	}()

	return task.ID, nil
}

// Cancel asks a running task to stop scheduling new rows. In-flight rows
// finish and the task still produces a full-length result. Returns false
// when the task is not currently running.
func (r *Runner) Cancel(taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	flag, ok := r.flags[taskID]
	if !ok {
		return false
	}
	flag.Cancel()
	return true
}

// Wait blocks until every task started so far has finished.
func (r *Runner) Wait() {
	r.running.Wait()
}

func (r *Runner) execute(ctx context.Context, taskID string, req types.BatchMatchRequest, flag *pipeline.CancelFlag) {
	// Store updates use a background context so a cancelled batch can
	// still record its final state.
	if err := r.Store.SetState(context.Background(), taskID, types.TaskRunning, ""); err != nil {
		fmt.Fprintf(r.log(), "warning: task %s: %v\n", taskID, err)
		r.fail(taskID, err)
		return
	}

	progress := func(done, total int) {
		if err := r.Store.SetProgress(context.Background(), taskID, done); err != nil {
			fmt.Fprintf(r.log(), "warning: task %s progress: %v\n", taskID, err)
		}
	}

	resp := r.Pipeline.Run(ctx, req, flag, progress, r.log())

	if err := r.Store.SetResult(context.Background(), taskID, &resp); err != nil {
		fmt.Fprintf(r.log(), "warning: task %s result: %v\n", taskID, err)
		r.fail(taskID, err)
		return
	}

	final := types.TaskCompleted
	if flag.Cancelled() {
		final = types.TaskCancelled
	}
	if err := r.Store.SetState(context.Background(), taskID, final, ""); err != nil {
		fmt.Fprintf(r.log(), "warning: task %s: %v\n", taskID, err)
	}
}

// fail marks a task failed when its batch could not run or its result
// could not be persisted. Best effort; store trouble at this point is
// already logged by the caller.
func (r *Runner) fail(taskID string, cause error) {
	if err := r.Store.SetState(context.Background(), taskID, types.TaskFailed, cause.Error()); err != nil {
		fmt.Fprintf(r.log(), "warning: task %s: %v\n", taskID, err)
	}
}

func (r *Runner) log() io.Writer {
	if r.Log == nil {
		return io.Discard
	}
	return r.Log
}
