package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers/openai"
	"github.com/openai/openai-go/v2/azure"
	"github.com/openai/openai-go/v2/option"
)

const defaultAPIVersion = "2024-10-21"

type Config struct {
	Endpoint           string
	APIKey             string
	APIVersion         string
	UseManagedIdentity bool
}

// NewClient talks to an Azure OpenAI resource. Request.Model is the deployment name.
func NewClient(cfg Config) (providers.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	opts := []option.RequestOption{azure.WithEndpoint(cfg.Endpoint, apiVersion)}
	if cfg.UseManagedIdentity {
		cred, err := defaultCredential()
		if err != nil {
			return nil, err
		}
		opts = append(opts, azure.WithTokenCredential(cred))
	} else {
		if cfg.APIKey == "" {
			return nil, providers.ErrMissingAPIKey
		}
		opts = append(opts, azure.WithAPIKey(cfg.APIKey))
	}
	return openai.NewFromOptions(opts...), nil
}

func defaultCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	return cred, nil
}
