// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// buildConfig assembles the pipeline configuration from the viper config
// file and environment, with API keys falling back to loaded secrets.
// Defaults are applied by the consumers via WithDefaults.
func buildConfig() types.PipelineConfig {
	var cfg types.PipelineConfig

	cfg.Directory.BaseURL = secretDefault("orcid-base-url", viper.GetString("directory.base_url"))
	cfg.Directory.Timeout = viper.GetDuration("directory.timeout")
	cfg.Directory.UserAgent = viper.GetString("directory.user_agent")
	cfg.Directory.MaxConcurrent = viper.GetInt("directory.max_concurrent")

	cfg.AI.Model = viper.GetString("ai.model")
	cfg.AI.BaseURL = viper.GetString("ai.base_url")
	cfg.AI.MaxRetries = viper.GetInt("ai.max_retries")
	cfg.AI.APIKey = viper.GetString("ai.api_key")

	cfg.Match.CandidateLimit = viper.GetInt("match.candidate_limit")
	cfg.Match.WorksLimit = viper.GetInt("match.works_limit")
	cfg.Match.MinConfidence = viper.GetFloat64("match.min_confidence")
	cfg.Match.NameWeight = viper.GetFloat64("match.name_weight")
	cfg.Match.AffiliationWeight = viper.GetFloat64("match.affiliation_weight")
	cfg.Match.CountryWeight = viper.GetFloat64("match.country_weight")
	cfg.Match.EmailWeight = viper.GetFloat64("match.email_weight")

	cfg.Tasks.Path = viper.GetString("tasks.path")
	cfg.Tasks.Retention = viper.GetDuration("tasks.retention")
	cfg.Workers = viper.GetInt("workers")

	return cfg
}

// apiKeyFor returns the secret key name for a model identifier, matching
// the prefix families the capability layer recognizes.
func apiKeyFor(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude") || strings.HasPrefix(m, "anthropic"):
		return "anthropic-api-key"
	case strings.HasPrefix(m, "gemini") || strings.HasPrefix(m, "google"):
		return "gemini-api-key"
	case strings.HasPrefix(m, "deepseek"):
		return "deepseek-api-key"
	default:
		return "openai-api-key"
	}
}
