// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s). A timed-out call
	// is treated the same as a failed call, never left hanging.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "expertai/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DirectoryConfig holds settings for the identity directory client.
type DirectoryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the public ORCID API endpoint. Empty means the
	// default https://pub.orcid.org/v3.0.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxConcurrent caps concurrent outbound directory calls shared by the
	// search executor and the topic synthesizer (default 10). Exceeding the
	// cap delays requests rather than failing them.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// AIConfig holds settings for the text-understanding capability.
type AIConfig struct {
	// Model is the backend model identifier (e.g. "gpt-4o-mini",
	// "claude-sonnet-4-5", "deepseek-chat"). The prefix selects the adapter.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the selected backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the backend endpoint (used for OpenAI-compatible
	// providers such as DeepSeek).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MatchConfig holds settings for variant search and candidate ranking.
type MatchConfig struct {
	// CandidateLimit is the per-variant search result cap (default 20).
	CandidateLimit int `json:"candidate_limit" yaml:"candidate_limit"`

	// WorksLimit is the number of work summaries pulled for topic
	// synthesis (default 30).
	WorksLimit int `json:"works_limit" yaml:"works_limit"`

	// MinConfidence clears the selection when the best total falls below
	// it. Zero keeps the historical best-effort behavior of always
	// returning the top candidate.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// Weights for the four sub-scores. All-zero falls back to the
	// defaults 0.5/0.25/0.15/0.10.
	NameWeight        float64 `json:"name_weight" yaml:"name_weight"`
	AffiliationWeight float64 `json:"affiliation_weight" yaml:"affiliation_weight"`
	CountryWeight     float64 `json:"country_weight" yaml:"country_weight"`
	EmailWeight       float64 `json:"email_weight" yaml:"email_weight"`
}

// TaskStoreConfig holds settings for the batch task store.
type TaskStoreConfig struct {
	// Path is the SQLite database file (default "expertai-tasks.db").
	Path string `json:"path" yaml:"path"`

	// Retention is how long finished tasks are kept before the sweep
	// deletes them (default 24h).
	Retention time.Duration `json:"retention" yaml:"retention"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Directory DirectoryConfig `json:"directory" yaml:"directory"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Match     MatchConfig     `json:"match" yaml:"match"`
	Tasks     TaskStoreConfig `json:"tasks" yaml:"tasks"`

	// Workers bounds concurrent row processing (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.Directory.Timeout <= 0 {
		c.Directory.Timeout = 30 * time.Second
	}
	if c.Directory.UserAgent == "" {
		c.Directory.UserAgent = "expertai/0.1"
	}
	if c.Directory.MaxConcurrent <= 0 {
		c.Directory.MaxConcurrent = 10
	}
	if c.AI.MaxRetries <= 0 {
		c.AI.MaxRetries = 3
	}
	if c.Match.CandidateLimit <= 0 {
		c.Match.CandidateLimit = 20
	}
	if c.Match.WorksLimit <= 0 {
		c.Match.WorksLimit = 30
	}
	if c.Match.NameWeight == 0 && c.Match.AffiliationWeight == 0 &&
		c.Match.CountryWeight == 0 && c.Match.EmailWeight == 0 {
		c.Match.NameWeight = 0.5
		c.Match.AffiliationWeight = 0.25
		c.Match.CountryWeight = 0.15
		c.Match.EmailWeight = 0.10
	}
	if c.Tasks.Path == "" {
		c.Tasks.Path = "expertai-tasks.db"
	}
	if c.Tasks.Retention <= 0 {
		c.Tasks.Retention = 24 * time.Hour
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	return c
}
