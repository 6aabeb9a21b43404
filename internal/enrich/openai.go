package enrich

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// defaultModel is used when the config names no chat model.
const defaultModel = "gpt-4o-mini"

// LLMConfig configures the enrichment language-model client.
type LLMConfig struct {
	APIKey  string        `env:"LLM_API_KEY"   yaml:"api_key"`
	BaseURL string        `env:"LLM_BASE_URL"  yaml:"base_url"`
	Model   string        `env:"LLM_MODEL"     yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChatClient is the minimal chat-completion surface the enrichment pass
// needs. Kept small so tests can substitute a canned implementation.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient implements ChatClient using the official openai-go SDK.
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIClient creates a chat client from config. Returns nil when no API
// key is configured, which disables enrichment.
func NewOpenAIClient(cfg LLMConfig) *OpenAIClient {
	if cfg.APIKey == "" {
		return nil
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &OpenAIClient{model: model, opts: opts}
}

// Complete sends one chat-completion request and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
