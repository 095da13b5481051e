// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capability

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// deepseekBaseURL is the OpenAI-compatible DeepSeek endpoint.
const deepseekBaseURL = "https://api.deepseek.com"

// openAIGenerator adapts the OpenAI chat completions API, and by base-URL
// override any OpenAI-compatible provider.
type openAIGenerator struct {
	client openai.Client
	model  string
}

func newOpenAIGenerator(cfg types.AIConfig) *openAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIGenerator{
		client: openai.NewClient(opts...),
		model:  strings.TrimPrefix(cfg.Model, "openai/"),
	}
}

// newDeepSeekGenerator rides the OpenAI-compatible DeepSeek API. Model
// names arrive as "deepseek/deepseek-chat" or bare "deepseek-chat".
func newDeepSeekGenerator(cfg types.AIConfig) *openAIGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = deepseekBaseURL
	}
	cfg.Model = strings.TrimPrefix(cfg.Model, "deepseek/")
	return newOpenAIGenerator(cfg)
}

func (g *openAIGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
