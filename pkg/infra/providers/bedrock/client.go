package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
)

const (
	defaultRegion    = "us-east-1"
	defaultModel     = "anthropic.claude-3-haiku-20240307-v1:0"
	anthropicVersion = "bedrock-2023-05-31"
	defaultMaxTokens = 256
	roleSessionName  = "SafetyJudgeSession"
)

type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	RoleARN      string
	UseRole      bool
}

type RuntimeAPI interface {
	InvokeModel(
		ctx context.Context,
		params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
}

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
	Temperature      float64         `json:"temperature"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type client struct {
	runtime RuntimeAPI
}

// NewClient only supports Anthropic Claude models hosted on Bedrock.
func NewClient(ctx context.Context, cfg Config) (providers.Client, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithRuntime(bedrockruntime.NewFromConfig(awsCfg)), nil
}

func NewWithRuntime(runtime RuntimeAPI) providers.Client {
	return &client{runtime: runtime}
}

func (c *client) Complete(ctx context.Context, req *providers.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	if !strings.Contains(model, "anthropic.claude-3") {
		return "", fmt.Errorf("unsupported bedrock model %q", model)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		System:           providers.SystemPromptWithSchema(req),
		Messages: []claudeMessage{{
			Role:    "user",
			Content: []claudeContent{{Type: "text", Text: req.UserContent}},
		}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal bedrock request: %w", err)
	}

	resp, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock request failed: %w", err)
	}

	var parsed claudeResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
	}
	for _, content := range parsed.Content {
		if content.Type == "text" && content.Text != "" {
			return content.Text, nil
		}
	}
	return "", providers.ErrEmptyResponse
}

func buildAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	if cfg.AccessKey == "" {
		// fall back to the default credential chain
		return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	}
	if cfg.UseRole && cfg.RoleARN != "" {
		return assumeRole(ctx, cfg, region)
	}
	return loadAWSConfig(ctx, cfg.AccessKey, cfg.SecretKey, cfg.SessionToken, region)
}

func loadAWSConfig(ctx context.Context, accessKey, secretKey, sessionToken, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					SessionToken:    sessionToken,
				}, nil
			},
		)),
		awsconfig.WithRegion(region),
	)
}

func assumeRole(ctx context.Context, cfg Config, region string) (aws.Config, error) {
	baseCfg, err := loadAWSConfig(ctx, cfg.AccessKey, cfg.SecretKey, cfg.SessionToken, region)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load base AWS config: %w", err)
	}
	output, err := sts.NewFromConfig(baseCfg).AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(cfg.RoleARN),
		RoleSessionName: aws.String(roleSessionName),
	})
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to assume role: %w", err)
	}
	creds := output.Credentials
	return loadAWSConfig(ctx,
		aws.ToString(creds.AccessKeyId),
		aws.ToString(creds.SecretAccessKey),
		aws.ToString(creds.SessionToken),
		region,
	)
}
