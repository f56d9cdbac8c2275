package config

import (
	"time"

	"github.com/spf13/viper"
)

// LLMConfig selects the provider backing every LLM judge.
type LLMConfig struct {
	Provider    string          `mapstructure:"provider"`
	Model       string          `mapstructure:"model"`
	Temperature float64         `mapstructure:"temperature"`
	MaxTokens   int             `mapstructure:"max_tokens"`
	Breaker     BreakerConfig   `mapstructure:"breaker"`
	OpenAI      OpenAIConfig    `mapstructure:"openai"`
	Azure       AzureConfig     `mapstructure:"azure"`
	Anthropic   AnthropicConfig `mapstructure:"anthropic"`
	Gemini      GeminiConfig    `mapstructure:"gemini"`
	Bedrock     BedrockConfig   `mapstructure:"bedrock"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type AzureConfig struct {
	Endpoint           string `mapstructure:"endpoint"`
	APIKey             string `mapstructure:"api_key"`
	APIVersion         string `mapstructure:"api_version"`
	UseManagedIdentity bool   `mapstructure:"use_managed_identity"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type BedrockConfig struct {
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	RoleARN      string `mapstructure:"role_arn"`
	UseRole      bool   `mapstructure:"use_role"`
}

func setLLMDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 256)
	v.SetDefault("llm.breaker.max_failures", 5)
	v.SetDefault("llm.breaker.open_timeout", 30*time.Second)

	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.azure.endpoint", "")
	v.SetDefault("llm.azure.api_key", "")
	v.SetDefault("llm.azure.api_version", "2024-10-21")
	v.SetDefault("llm.azure.use_managed_identity", false)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.bedrock.region", "us-east-1")
	v.SetDefault("llm.bedrock.access_key", "")
	v.SetDefault("llm.bedrock.secret_key", "")
	v.SetDefault("llm.bedrock.session_token", "")
	v.SetDefault("llm.bedrock.role_arn", "")
	v.SetDefault("llm.bedrock.use_role", false)
}
