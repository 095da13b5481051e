// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Idriss-Abidi/ExpertAI/internal/capability"
	"github.com/Idriss-Abidi/ExpertAI/internal/extract"
	"github.com/Idriss-Abidi/ExpertAI/internal/orcid"
	"github.com/Idriss-Abidi/ExpertAI/internal/pipeline"
	"github.com/Idriss-Abidi/ExpertAI/internal/rowsource"
	"github.com/Idriss-Abidi/ExpertAI/internal/tasks"
	"github.com/Idriss-Abidi/ExpertAI/internal/topics"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match input rows against the ORCID directory",
	Long: `Match reads people records from a CSV/JSON file or a SQLite table, extracts
an identity from each row, searches ORCID with several query variants, ranks
the candidates deterministically, and synthesizes research topics for the
selected profile.

With --model set, identity extraction and topic synthesis use the named
text-understanding model. Without it, extraction falls back to known
column-header mapping and topics to the built-in taxonomy.

The batch runs as a task recorded in the local task store; interrupting the
run (Ctrl-C) stops scheduling new rows but lets in-flight rows finish.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("rows-file", "", "CSV or JSON file of input rows")
	matchCmd.Flags().String("db", "", "SQLite database of input rows")
	matchCmd.Flags().String("table", "", "table to read when --db is set")
	matchCmd.Flags().String("columns", "", "columns to read from --db (comma-separated, default all)")
	matchCmd.Flags().Int("row-limit", 0, "maximum rows to read from --db (default 100)")
	matchCmd.Flags().String("model", "", "text-understanding model (e.g. gpt-4o-mini, claude-sonnet-4-5, deepseek-chat)")
	matchCmd.Flags().Int("limit", 0, "per-variant candidate limit (default 20)")
	matchCmd.Flags().Float64("min-confidence", -1, "clear selections whose total score falls below this")
	matchCmd.Flags().Int("workers", 0, "concurrent rows (default 4)")
	matchCmd.Flags().Bool("no-topics", false, "skip research-topic synthesis")
	matchCmd.Flags().Bool("json", false, "output results as JSON instead of YAML")
	matchCmd.Flags().String("output", "", "write results to a file instead of stdout")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := matchSource(cmd)
	if err != nil {
		return err
	}
	rows, err := src.Rows(ctx)
	if err != nil {
		return fmt.Errorf("reading input rows: %w", err)
	}

	cfg := buildConfig()
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.AI.Model = model
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.Match.CandidateLimit = limit
	}
	if minConf, _ := cmd.Flags().GetFloat64("min-confidence"); minConf >= 0 {
		cfg.Match.MinConfidence = minConf
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	cfg = cfg.WithDefaults()

	directory := orcid.NewClient(cfg.Directory)

	var extractor pipeline.Extractor = extract.HeaderExtractor{}
	var synth topics.Synthesizer = &topics.TaxonomySynthesizer{Source: directory, WorksLimit: cfg.Match.WorksLimit}
	if cfg.AI.Model != "" {
		if cfg.AI.APIKey == "" {
			cfg.AI.APIKey = secretDefault(apiKeyFor(cfg.AI.Model), "")
		}
		cap, err := capability.New(cfg.AI)
		if err != nil {
			return err
		}
		extractor = extract.CapabilityExtractor{Capability: cap}
		synth = &topics.CapabilitySynthesizer{Source: directory, Capability: cap, WorksLimit: cfg.Match.WorksLimit}
	}
	if noTopics, _ := cmd.Flags().GetBool("no-topics"); noTopics {
		synth = nil
	}

	pipe := &pipeline.Pipeline{
		Directory: directory,
		Extractor: extractor,
		Synth:     synth,
		Config:    cfg,
	}

	store, err := tasks.NewSQLiteStore(cfg.Tasks)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := &tasks.Runner{Store: store, Pipeline: pipe, Log: os.Stderr}
	taskID, err := runner.Start(ctx, types.BatchMatchRequest{
		Rows:        rows,
		LimitPerRow: cfg.Match.CandidateLimit,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Task %s: matching %d rows with %d workers\n", taskID, len(rows), cfg.Workers)

	// Ctrl-C stops scheduling; in-flight rows still complete.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Fprintln(os.Stderr, "Cancelling: in-flight rows will finish")
		runner.Cancel(taskID)
	}()
	runner.Wait()
	signal.Stop(sig)

	task, err := store.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Error != "" {
		fmt.Fprintf(os.Stderr, "Task %s failed: %s\n", taskID, task.Error)
	}
	if task.Result == nil {
		return fmt.Errorf("task %s finished without a result", taskID)
	}

	if err := writeResult(cmd, task.Result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Matched %d of %d rows\n", task.Result.SuccessfulMatches, task.Result.TotalProcessed)
	return nil
}

// matchSource selects the row source from the mutually exclusive
// --rows-file and --db flag groups.
func matchSource(cmd *cobra.Command) (rowsource.Source, error) {
	rowsFile, _ := cmd.Flags().GetString("rows-file")
	db, _ := cmd.Flags().GetString("db")

	switch {
	case rowsFile != "" && db != "":
		return nil, fmt.Errorf("--rows-file and --db are mutually exclusive")
	case rowsFile != "":
		return &rowsource.FileSource{Path: rowsFile}, nil
	case db != "":
		table, _ := cmd.Flags().GetString("table")
		if table == "" {
			return nil, fmt.Errorf("--table is required with --db")
		}
		var columns []string
		if raw, _ := cmd.Flags().GetString("columns"); raw != "" {
			for _, c := range strings.Split(raw, ",") {
				columns = append(columns, strings.TrimSpace(c))
			}
		}
		rowLimit, _ := cmd.Flags().GetInt("row-limit")
		return &rowsource.SQLiteSource{Path: db, Table: table, Columns: columns, Limit: rowLimit}, nil
	default:
		return nil, fmt.Errorf("one of --rows-file or --db is required")
	}
}
