package factory

import (
	"context"
	"fmt"

	"github.com/bezhai/inner-bot-server-sub000/pkg/config"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/httpx"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/anthropic"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/azure"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/bedrock"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/gemini"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderBedrock   = "bedrock"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter
type ProviderLocator interface {
	Get(ctx context.Context, provider string) (providers.Client, error)
}

type providerLocator struct {
	cfg config.LLMConfig
}

func NewProviderLocator(cfg config.LLMConfig) ProviderLocator {
	return &providerLocator{cfg: cfg}
}

// Get builds the named provider and puts it behind a circuit breaker.
func (l *providerLocator) Get(ctx context.Context, provider string) (providers.Client, error) {
	client, err := l.build(ctx, provider)
	if err != nil {
		return nil, err
	}
	breaker := httpx.NewCircuitBreaker("llm-"+provider, l.cfg.Breaker.OpenTimeout, l.cfg.Breaker.MaxFailures)
	return providers.NewBreakerClient(client, breaker), nil
}

func (l *providerLocator) build(ctx context.Context, provider string) (providers.Client, error) {
	switch provider {
	case ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:  l.cfg.OpenAI.APIKey,
			BaseURL: l.cfg.OpenAI.BaseURL,
		})
	case ProviderAzure:
		return azure.NewClient(azure.Config{
			Endpoint:           l.cfg.Azure.Endpoint,
			APIKey:             l.cfg.Azure.APIKey,
			APIVersion:         l.cfg.Azure.APIVersion,
			UseManagedIdentity: l.cfg.Azure.UseManagedIdentity,
		})
	case ProviderAnthropic:
		return anthropic.NewClient(anthropic.Config{
			APIKey:  l.cfg.Anthropic.APIKey,
			BaseURL: l.cfg.Anthropic.BaseURL,
		})
	case ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{APIKey: l.cfg.Gemini.APIKey})
	case ProviderBedrock:
		return bedrock.NewClient(ctx, bedrock.Config{
			Region:       l.cfg.Bedrock.Region,
			AccessKey:    l.cfg.Bedrock.AccessKey,
			SecretKey:    l.cfg.Bedrock.SecretKey,
			SessionToken: l.cfg.Bedrock.SessionToken,
			RoleARN:      l.cfg.Bedrock.RoleARN,
			UseRole:      l.cfg.Bedrock.UseRole,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
