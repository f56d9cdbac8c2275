package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

type Config struct {
	APIKey  string
	BaseURL string
}

type client struct {
	genaiClient *genai.Client
}

func NewClient(ctx context.Context, cfg Config) (providers.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, providers.ErrMissingAPIKey
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	genaiClient, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &client{genaiClient: genaiClient}, nil
}

func (c *client) Complete(ctx context.Context, req *providers.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if system := providers.SystemPromptWithSchema(req); system != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if req.Schema != nil {
		genCfg.ResponseMIMEType = "application/json"
	}

	result, err := c.genaiClient.Models.GenerateContent(ctx, model, genai.Text(req.UserContent), genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", providers.ErrEmptyResponse
	}
	return text, nil
}
