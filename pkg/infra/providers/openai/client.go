package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

type Config struct {
	APIKey  string
	BaseURL string
}

type client struct {
	api *openai.Client
}

func NewClient(cfg Config) (providers.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, providers.ErrMissingAPIKey
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return NewFromOptions(opts...), nil
}

// NewFromOptions builds a client from raw SDK options. The azure provider
// reuses it with its own endpoint and credential options.
func NewFromOptions(opts ...option.RequestOption) providers.Client {
	api := openai.NewClient(opts...)
	return &client{api: &api}
}

func (c *client) Complete(ctx context.Context, req *providers.Request) (string, error) {
	if req.Model == "" {
		return "", providers.ErrMissingModel
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserContent))

	params := openai.ChatCompletionNewParams{
		Model:       req.Model,
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Schema.Name,
					Schema: req.Schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", providers.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
