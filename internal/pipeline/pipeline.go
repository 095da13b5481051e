// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the per-row matching sequence: identity
// extraction, variant search, candidate ranking, and topic synthesis.
// Rows are independent; failures never cross a row boundary, and the batch
// result always carries one entry per input row in input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Idriss-Abidi/ExpertAI/internal/capability"
	"github.com/Idriss-Abidi/ExpertAI/internal/match"
	"github.com/Idriss-Abidi/ExpertAI/internal/topics"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// Row failure reasons preserved on EnrichedRecord.FailureReason.
const (
	ReasonExtractionUnparseable = "extraction_unparseable"
	ReasonCancelled             = "cancelled"
)

// Extractor turns one raw row into an identity draft.
type Extractor interface {
	ExtractIdentity(ctx context.Context, row types.RawRecord) (types.IdentityDraft, error)
}

// CancelFlag requests that a running batch stop scheduling new rows.
// In-flight rows finish normally so the batch never emits partial records.
type CancelFlag struct {
	cancelled atomic.Bool
}

// Cancel flips the flag. Safe to call from any goroutine, more than once.
func (c *CancelFlag) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether cancellation was requested.
func (c *CancelFlag) Cancelled() bool { return c.cancelled.Load() }

// Pipeline wires the pipeline stages together. All fields must be set
// except Synth, which may be nil when topic synthesis is disabled.
type Pipeline struct {
	Directory match.Directory
	Extractor Extractor
	Synth     topics.Synthesizer
	Config    types.PipelineConfig
}

// Run processes every request row and assembles the batch response in
// input order. Rows run concurrently under the configured worker bound.
// cancel and progress may be nil. Per-row progress lines go to w.
func (p *Pipeline) Run(ctx context.Context, req types.BatchMatchRequest, cancel *CancelFlag, progress func(done, total int), w io.Writer) types.BatchMatchResponse {
	cfg := p.Config.WithDefaults()
	if w == nil {
		w = io.Discard
	}
	total := len(req.Rows)
	results := make([]types.EnrichedRecord, total)

	limit := req.LimitPerRow
	if limit <= 0 {
		limit = cfg.Match.CandidateLimit
	}

	var mu sync.Mutex
	done := 0
	report := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		done++
		d := done
		mu.Unlock()
		progress(d, total)
	}

	g := new(errgroup.Group)
	g.SetLimit(cfg.Workers)

	for i, row := range req.Rows {
		if cancel != nil && cancel.Cancelled() {
			results[i] = failedRecord(row, ReasonCancelled)
			report()
			continue
		}

		g.Go(func() error {
			results[i] = p.processRow(ctx, row, limit, cancel, w)
			report()
			return nil
		})
	}
	g.Wait()

	resp := types.BatchMatchResponse{
		Results:        results,
		TotalProcessed: total,
	}
	for _, r := range results {
		if r.IdentityID != "" {
			resp.SuccessfulMatches++
		}
	}
	return resp
}

// processRow runs one row through extracting → searching → ranking →
// synthesizing. Any outcome, including total failure, produces a record
// that preserves the original row.
func (p *Pipeline) processRow(ctx context.Context, row types.RawRecord, limit int, cancel *CancelFlag, w io.Writer) types.EnrichedRecord {
	// Re-check before doing any work: a row may have been scheduled just
	// before cancellation was requested. A row past this point finishes.
	if cancel != nil && cancel.Cancelled() {
		return failedRecord(row, ReasonCancelled)
	}

	if row.Describe() == "" {
		return skippedRecord(row, "Row skipped: every cell was empty.")
	}

	// Extracting.
	draft, err := p.Extractor.ExtractIdentity(ctx, row)
	if err != nil {
		if errors.Is(err, capability.ErrUnparseable) {
			fmt.Fprintf(w, "warning: extraction unparseable: %v\n", err)
			return failedRecord(row, ReasonExtractionUnparseable)
		}
		if ctx.Err() != nil {
			return failedRecord(row, ReasonCancelled)
		}
		return failedRecord(row, err.Error())
	}
	if !draft.Searchable() {
		return skippedRecord(row, "Row skipped: no usable name information was extracted, search not attempted.")
	}

	// Searching. Failed variants degrade to empty result sets inside the
	// executor; nothing here aborts the row.
	results := match.ExecuteVariants(ctx, p.Directory, draft, limit)
	for _, set := range results {
		if set.Err != "" {
			fmt.Fprintf(w, "warning: variant %s failed: %s\n", set.Variant, set.Err)
		}
	}

	// Ranking. An empty candidate union yields a nil selection, which is
	// a valid outcome, not an error.
	decision := match.Rank(draft, results, p.Config.Match)

	record := types.EnrichedRecord{
		Status:       "done",
		Confidence:   decision.Reasoning.Confidence,
		Reasoning:    decision.Reasoning.Summary,
		OriginalData: row.Clone(),
	}
	if decision.Selected == nil {
		return record
	}

	sel := decision.Selected
	record.IdentityID = sel.IdentityID
	record.FirstName = sel.FirstName
	record.LastName = sel.LastName
	record.Email = sel.Email
	record.Country = sel.Country
	record.Affiliation = sel.Affiliation

	// Synthesizing. Directory or capability trouble leaves the topic
	// fields empty without failing the row.
	if p.Synth != nil {
		main, specific, err := p.Synth.Synthesize(ctx, sel.IdentityID)
		if err != nil {
			fmt.Fprintf(w, "warning: topic synthesis for %s failed: %v\n", sel.IdentityID, err)
		} else {
			record.MainResearchArea = main
			record.SpecificResearchArea = specific
		}
	}
	return record
}

// skippedRecord marks a row done with empty derived fields and an
// explanatory reasoning line.
func skippedRecord(row types.RawRecord, why string) types.EnrichedRecord {
	return types.EnrichedRecord{
		Status:       "done",
		Reasoning:    why,
		OriginalData: row.Clone(),
	}
}

// failedRecord marks a row failed while still preserving the original
// input; rows are never silently dropped.
func failedRecord(row types.RawRecord, reason string) types.EnrichedRecord {
	return types.EnrichedRecord{
		Status:        "failed",
		FailureReason: reason,
		OriginalData:  row.Clone(),
	}
}
