// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func init() {
	// Use a tiny base delay so retry tests finish quickly.
	backoffBase = 1 * time.Millisecond
}

// stubGenerator returns scripted responses in order, recording prompts.
type stubGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

// --- policy ---

func TestResolvePolicy(t *testing.T) {
	tests := []struct {
		model      string
		wantFamily string
		wantMode   parseMode
	}{
		{"gpt-4o-mini", "openai", parseStrict},
		{"o4-mini", "openai", parseStrict},
		{"openai/gpt-4o", "openai", parseStrict},
		{"claude-sonnet-4-5", "anthropic", parseStrict},
		{"anthropic/claude-3-haiku", "anthropic", parseStrict},
		{"gemini-2.0-flash", "gemini", parseTolerant},
		{"google/gemini-pro", "gemini", parseTolerant},
		{"deepseek-chat", "deepseek", parseTolerant},
		{"DeepSeek-Chat", "deepseek", parseTolerant},
		{"mystery-model", "openai", parseTolerant},
	}
	for _, tt := range tests {
		family, mode := resolvePolicy(tt.model)
		if family != tt.wantFamily || mode != tt.wantMode {
			t.Errorf("resolvePolicy(%q) = (%q, %d), want (%q, %d)",
				tt.model, family, mode, tt.wantFamily, tt.wantMode)
		}
	}
}

// --- identity extraction ---

func TestExtractIdentityTolerant(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		"Sure, here it is:\n```json\n{\"first_name\": \"Marie\", \"last_name\": \"Curie\", \"country\": \"France\"}\n```",
	}}
	cap := &promptCapability{gen: gen, mode: parseTolerant, maxRetries: 1}

	draft, err := cap.ExtractIdentity(context.Background(), "prenom: Marie, nom: Curie, pays: FR")
	if err != nil {
		t.Fatalf("ExtractIdentity: %v", err)
	}
	if draft.FirstName != "Marie" || draft.LastName != "Curie" || draft.Country != "France" {
		t.Errorf("draft = %+v", draft)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "prenom: Marie, nom: Curie") {
		t.Errorf("prompt should embed the row description, got %q", gen.prompts)
	}
}

func TestExtractIdentityStrictRejectsProse(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`The identity is {"first_name": "Marie", "last_name": "Curie"}.`,
	}}
	cap := &promptCapability{gen: gen, mode: parseStrict, maxRetries: 1}

	_, err := cap.ExtractIdentity(context.Background(), "first: Marie, last: Curie")
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("err = %v, want ErrUnparseable", err)
	}
}

func TestExtractIdentityNullFields(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"first_name": "Marie", "last_name": "Curie", "email": null, "affiliation": null, "country": null}`,
	}}
	cap := &promptCapability{gen: gen, mode: parseStrict, maxRetries: 1}

	draft, err := cap.ExtractIdentity(context.Background(), "first: Marie, last: Curie")
	if err != nil {
		t.Fatalf("ExtractIdentity: %v", err)
	}
	if draft.Email != "" || draft.Affiliation != "" || draft.Country != "" {
		t.Errorf("null fields should stay empty, got %+v", draft)
	}
}

// --- topic summarization ---

func TestSummarizeTopics(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"main_research_area": "Physics, Chemistry, Radioactivity, Nuclear Science", "specific_research_area": "radium isolation, polonium, ionizing radiation, pitchblende analysis"}`,
	}}
	cap := &promptCapability{gen: gen, mode: parseStrict, maxRetries: 1}

	main, specific, err := cap.SummarizeTopics(context.Background(), TopicEvidence{
		Biography: "Pioneer of radioactivity research.",
		Keywords:  []string{"radioactivity"},
		Titles:    []string{"On a new radioactive substance"},
	})
	if err != nil {
		t.Fatalf("SummarizeTopics: %v", err)
	}
	if !strings.Contains(main, "Physics") || !strings.Contains(specific, "radium isolation") {
		t.Errorf("main = %q, specific = %q", main, specific)
	}
}

func TestSummarizeTopicsEmptyEvidence(t *testing.T) {
	gen := &stubGenerator{}
	cap := &promptCapability{gen: gen, mode: parseStrict, maxRetries: 1}

	main, specific, err := cap.SummarizeTopics(context.Background(), TopicEvidence{})
	if err != nil {
		t.Fatalf("SummarizeTopics: %v", err)
	}
	if main != "" || specific != "" {
		t.Errorf("expected empty topics, got %q / %q", main, specific)
	}
	if len(gen.prompts) != 0 {
		t.Error("no backend call should be made without evidence")
	}
}

// --- retry ---

func TestCompleteWithRetryRecovers(t *testing.T) {
	gen := &stubGenerator{
		errs:      []error{errors.New("transient"), errors.New("transient")},
		responses: []string{"", "", `{"first_name": "Marie", "last_name": "Curie"}`},
	}
	cap := &promptCapability{gen: gen, mode: parseStrict, maxRetries: 3}

	draft, err := cap.ExtractIdentity(context.Background(), "first: Marie, last: Curie")
	if err != nil {
		t.Fatalf("ExtractIdentity after retries: %v", err)
	}
	if draft.FirstName != "Marie" {
		t.Errorf("draft = %+v", draft)
	}
	if len(gen.prompts) != 3 {
		t.Errorf("calls = %d, want 3", len(gen.prompts))
	}
}

func TestCompleteWithRetryExhausts(t *testing.T) {
	boom := errors.New("backend down")
	gen := &stubGenerator{errs: []error{boom, boom, boom}}
	cap := &promptCapability{gen: gen, mode: parseStrict, maxRetries: 2}

	_, err := cap.ExtractIdentity(context.Background(), "first: Marie, last: Curie")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped backend error", err)
	}
	if len(gen.prompts) != 3 {
		t.Errorf("calls = %d, want 3 (1 initial + 2 retries)", len(gen.prompts))
	}
}
