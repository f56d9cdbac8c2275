package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 256
)

type Config struct {
	APIKey  string
	BaseURL string
}

type client struct {
	api *anthropic.Client
}

func NewClient(cfg Config) (providers.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, providers.ErrMissingAPIKey
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := anthropic.NewClient(opts...)
	return &client{api: &api}, nil
}

func (c *client) Complete(ctx context.Context, req *providers.Request) (string, error) {
	model := anthropic.Model(defaultModel)
	if req.Model != "" {
		model = anthropic.Model(req.Model)
	}
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserContent)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if system := providers.SystemPromptWithSchema(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system, Type: "text"}}
	}

	message, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	for _, content := range message.Content {
		if content.Type == "text" && content.Text != "" {
			return content.Text, nil
		}
	}
	return "", providers.ErrEmptyResponse
}
