// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package capability abstracts the text-understanding backends used by the
// pipeline: identity extraction from free-form row descriptions and topic
// summarization from pooled publication evidence. Backend differences
// (structured output support, output discipline) live in a policy table
// here rather than in the business logic.
package capability

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// ErrUnparseable reports that a backend's output could not be coerced into
// the expected shape. Callers mark the row failed with reason
// "extraction_unparseable" and move on.
var ErrUnparseable = errors.New("capability output unparseable")

// TopicEvidence pools the material topic synthesis works from: the
// profile biography, declared keywords, and publication titles.
type TopicEvidence struct {
	Biography string
	Keywords  []string
	Titles    []string
}

// Empty reports whether there is nothing to summarize.
func (e TopicEvidence) Empty() bool {
	return e.Biography == "" && len(e.Keywords) == 0 && len(e.Titles) == 0
}

// TextCapability is the reasoning/extraction engine behind the pipeline.
// Implementations adapt one text-generation backend.
type TextCapability interface {
	// ExtractIdentity pulls first/last name, email, affiliation, and
	// country out of a flattened row description. Absent fields stay
	// empty; nothing is invented.
	ExtractIdentity(ctx context.Context, description string) (types.IdentityDraft, error)

	// SummarizeTopics derives the broad and specific research-area
	// strings (comma-joined, never lists) from pooled evidence.
	SummarizeTopics(ctx context.Context, ev TopicEvidence) (main, specific string, err error)
}

// generator is the minimal surface an adapter provides: one prompt in,
// raw text out.
type generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// parseMode selects how a backend's raw output is coerced to JSON.
type parseMode int

const (
	// parseStrict expects the response to be exactly one JSON object.
	parseStrict parseMode = iota
	// parseTolerant scrapes the first JSON object out of a conversational
	// response (fenced block first, then brace scan).
	parseTolerant
)

// backendPolicy maps a model-name prefix to its adapter family and output
// discipline. First match wins; unknown prefixes fall through to OpenAI
// with tolerant parsing.
var backendPolicy = []struct {
	prefix string
	family string
	mode   parseMode
}{
	{"gpt-", "openai", parseStrict},
	{"o4", "openai", parseStrict},
	{"o3", "openai", parseStrict},
	{"openai/", "openai", parseStrict},
	{"claude", "anthropic", parseStrict},
	{"anthropic/", "anthropic", parseStrict},
	{"gemini", "gemini", parseTolerant},
	{"google/", "gemini", parseTolerant},
	{"deepseek", "deepseek", parseTolerant},
}

// resolvePolicy returns the adapter family and parse mode for a model name.
func resolvePolicy(model string) (family string, mode parseMode) {
	lower := strings.ToLower(model)
	for _, p := range backendPolicy {
		if strings.HasPrefix(lower, p.prefix) {
			return p.family, p.mode
		}
	}
	return "openai", parseTolerant
}

// New builds the TextCapability for the configured model. The adapter is
// chosen by model-name prefix; DeepSeek rides the OpenAI-compatible API
// with an alternate base URL.
func New(cfg types.AIConfig) (TextCapability, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("no model configured")
	}
	family, mode := resolvePolicy(cfg.Model)

	var gen generator
	switch family {
	case "openai":
		gen = newOpenAIGenerator(cfg)
	case "deepseek":
		gen = newDeepSeekGenerator(cfg)
	case "anthropic":
		gen = newAnthropicGenerator(cfg)
	case "gemini":
		gen = newGeminiGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend family %q", family)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &promptCapability{gen: gen, mode: mode, maxRetries: maxRetries}, nil
}

// promptCapability implements TextCapability on top of any generator.
type promptCapability struct {
	gen        generator
	mode       parseMode
	maxRetries int
}

func (p *promptCapability) ExtractIdentity(ctx context.Context, description string) (types.IdentityDraft, error) {
	prompt, err := renderExtractionPrompt(description)
	if err != nil {
		return types.IdentityDraft{}, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := p.completeWithRetry(ctx, prompt)
	if err != nil {
		return types.IdentityDraft{}, err
	}

	var draft types.IdentityDraft
	if err := p.coerce(raw, &draft); err != nil {
		return types.IdentityDraft{}, err
	}
	return draft, nil
}

func (p *promptCapability) SummarizeTopics(ctx context.Context, ev TopicEvidence) (string, string, error) {
	if ev.Empty() {
		return "", "", nil
	}
	prompt, err := renderTopicsPrompt(ev)
	if err != nil {
		return "", "", fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := p.completeWithRetry(ctx, prompt)
	if err != nil {
		return "", "", err
	}

	var out struct {
		MainResearchArea     string `json:"main_research_area"`
		SpecificResearchArea string `json:"specific_research_area"`
	}
	if err := p.coerce(raw, &out); err != nil {
		return "", "", err
	}
	return out.MainResearchArea, out.SpecificResearchArea, nil
}

// coerce parses raw backend output into dst according to the parse mode.
func (p *promptCapability) coerce(raw string, dst any) error {
	var err error
	switch p.mode {
	case parseStrict:
		err = unmarshalStrict(raw, dst)
	default:
		err = ExtractJSON(raw, dst)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return nil
}

// backoffBase controls the base duration for exponential backoff between
// backend retries. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// completeWithRetry calls the generator with exponential backoff.
func (p *promptCapability) completeWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := p.gen.Complete(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", p.maxRetries, lastErr)
}
