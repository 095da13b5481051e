// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/Idriss-Abidi/ExpertAI/internal/pipeline"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// noopDirectory returns no candidates for any variant.
type noopDirectory struct{}

func (noopDirectory) SearchByName(_ context.Context, _, _ string, _ int) ([]types.CandidateProfile, error) {
	return nil, nil
}

func (noopDirectory) SearchByNameAndAffiliation(_ context.Context, _, _, _ string, _ int) ([]types.CandidateProfile, error) {
	return nil, nil
}

func (noopDirectory) SearchByNameAndEmail(_ context.Context, _, _, _ string, _ int) ([]types.CandidateProfile, error) {
	return nil, nil
}

func (noopDirectory) SearchByNameAndCountry(_ context.Context, _, _, _ string, _ int) ([]types.CandidateProfile, error) {
	return nil, nil
}

func (noopDirectory) SearchBySwappedName(_ context.Context, _, _ string, _ int) ([]types.CandidateProfile, error) {
	return nil, nil
}

// blockingExtractor signals when extraction starts and waits for release.
type blockingExtractor struct {
	started chan struct{}
	release chan struct{}
	once    bool
}

func (b *blockingExtractor) ExtractIdentity(_ context.Context, row types.RawRecord) (types.IdentityDraft, error) {
	if !b.once {
		b.once = true
		close(b.started)
		<-b.release
	}
	return types.IdentityDraft{FirstName: row.Values["first"], LastName: row.Values["last"]}, nil
}

// plainExtractor reads the two name columns directly.
type plainExtractor struct{}

func (plainExtractor) ExtractIdentity(_ context.Context, row types.RawRecord) (types.IdentityDraft, error) {
	return types.IdentityDraft{FirstName: row.Values["first"], LastName: row.Values["last"]}, nil
}

func runnerRows(n int) []types.RawRecord {
	rows := make([]types.RawRecord, n)
	for i := range rows {
		rows[i] = types.NewRawRecord([]string{"first", "last"}, map[string]string{"first": "Marie", "last": "Curie"})
	}
	return rows
}

func TestRunnerCompletesTask(t *testing.T) {
	store := testStore(t)
	r := &Runner{
		Store: store,
		Pipeline: &pipeline.Pipeline{
			Directory: noopDirectory{},
			Extractor: plainExtractor{},
			Config:    types.PipelineConfig{Workers: 2},
		},
	}

	id, err := r.Start(context.Background(), types.BatchMatchRequest{Rows: runnerRows(3)})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	task, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.State != types.TaskCompleted {
		t.Errorf("state = %q, want completed", task.State)
	}
	if task.RowsDone != 3 || task.RowsTotal != 3 {
		t.Errorf("progress = %d/%d", task.RowsDone, task.RowsTotal)
	}
	if task.Result == nil || len(task.Result.Results) != 3 {
		t.Fatalf("result = %+v", task.Result)
	}
	if task.CompletedAt == nil {
		t.Error("completed task should carry completed_at")
	}
}

func TestRunnerCancel(t *testing.T) {
	store := testStore(t)
	ex := &blockingExtractor{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	r := &Runner{
		Store: store,
		Pipeline: &pipeline.Pipeline{
			Directory: noopDirectory{},
			Extractor: ex,
			Config:    types.PipelineConfig{Workers: 1},
		},
	}

	id, err := r.Start(context.Background(), types.BatchMatchRequest{Rows: runnerRows(3)})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	<-ex.started
	if !r.Cancel(id) {
		t.Fatal("Cancel should find the running task")
	}
	close(ex.release)
	r.Wait()

	task, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.State != types.TaskCancelled {
		t.Errorf("state = %q, want cancelled", task.State)
	}
	if task.Result == nil || len(task.Result.Results) != 3 {
		t.Fatalf("cancelled task still reports every row, got %+v", task.Result)
	}
	// The in-flight row finished; the rest were cancelled before starting.
	if task.Result.Results[0].Status != "done" {
		t.Errorf("row 0 = %+v", task.Result.Results[0])
	}
	for i := 1; i < 3; i++ {
		if task.Result.Results[i].FailureReason != pipeline.ReasonCancelled {
			t.Errorf("row %d = %+v, want cancelled", i, task.Result.Results[i])
		}
	}
}

// brokenResultStore rejects result writes so the runner has to record the
// task as failed.
type brokenResultStore struct {
	Store
}

func (b brokenResultStore) SetResult(_ context.Context, _ string, _ *types.BatchMatchResponse) error {
	return errors.New("disk full")
}

func TestRunnerFailsTaskWhenResultCannotBePersisted(t *testing.T) {
	store := testStore(t)
	r := &Runner{
		Store: brokenResultStore{store},
		Pipeline: &pipeline.Pipeline{
			Directory: noopDirectory{},
			Extractor: plainExtractor{},
			Config:    types.PipelineConfig{Workers: 2},
		},
	}

	id, err := r.Start(context.Background(), types.BatchMatchRequest{Rows: runnerRows(2)})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	task, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.State != types.TaskFailed {
		t.Errorf("state = %q, want failed", task.State)
	}
	if task.Error == "" {
		t.Error("failed task should record the cause")
	}
	if task.Result != nil {
		t.Errorf("result should be absent, got %+v", task.Result)
	}
}

func TestRunnerCancelUnknownTask(t *testing.T) {
	r := &Runner{Store: testStore(t)}
	if r.Cancel("no-such-task") {
		t.Error("Cancel of an unknown task should report false")
	}
}
