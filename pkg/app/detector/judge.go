package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/common"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

type JudgeConfig struct {
	Model       string
	Threshold   float64
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

func (c JudgeConfig) threshold() float64 {
	if c.Threshold <= 0 {
		return common.DefaultBlockThreshold
	}
	return c.Threshold
}

// judgeOutput is the decoded structured reply of one LLM judge.
type judgeOutput interface {
	flagged() bool
	score() float64
}

type injectionOutput struct {
	IsInjection bool    `json:"is_injection"`
	Confidence  float64 `json:"confidence"`
}

func (o injectionOutput) flagged() bool  { return o.IsInjection }
func (o injectionOutput) score() float64 { return o.Confidence }

type sensitiveOutput struct {
	IsSensitive bool    `json:"is_sensitive"`
	Confidence  float64 `json:"confidence"`
}

func (o sensitiveOutput) flagged() bool  { return o.IsSensitive }
func (o sensitiveOutput) score() float64 { return o.Confidence }

type outputSafetyOutput struct {
	IsUnsafe   bool    `json:"is_unsafe"`
	Confidence float64 `json:"confidence"`
}

func (o outputSafetyOutput) flagged() bool  { return o.IsUnsafe }
func (o outputSafetyOutput) score() float64 { return o.Confidence }

type judge[T judgeOutput] struct {
	name   string
	reason safety.Reason
	prompt string
	schema *providers.Schema
	client providers.Client
	cfg    JudgeConfig
	logger *logrus.Logger
}

func NewPromptInjectionJudge(logger *logrus.Logger, client providers.Client, cfg JudgeConfig) Detector {
	return &judge[injectionOutput]{
		name:   NamePromptInjection,
		reason: safety.ReasonPromptInjection,
		prompt: promptInjectionPrompt,
		schema: flagSchema("prompt_injection_verdict", "is_injection"),
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func NewSensitiveTopicJudge(logger *logrus.Logger, client providers.Client, cfg JudgeConfig) Detector {
	return &judge[sensitiveOutput]{
		name:   NameSensitiveTopic,
		reason: safety.ReasonSensitiveTopic,
		prompt: sensitiveTopicPrompt,
		schema: flagSchema("sensitive_topic_verdict", "is_sensitive"),
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func NewOutputSafetyJudge(logger *logrus.Logger, client providers.Client, cfg JudgeConfig) Detector {
	return &judge[outputSafetyOutput]{
		name:   NameOutputSafety,
		reason: safety.ReasonOutputUnsafe,
		prompt: outputSafetyPrompt,
		schema: flagSchema("output_safety_verdict", "is_unsafe"),
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (j *judge[T]) Name() string { return j.name }

func (j *judge[T]) Detect(ctx context.Context, text string) safety.DetectorVerdict {
	if j.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Timeout)
		defer cancel()
	}

	out, err := providers.Classify[T](ctx, j.client, &providers.Request{
		Model:        j.cfg.Model,
		SystemPrompt: j.prompt,
		UserContent:  text,
		Schema:       j.schema,
		Temperature:  j.cfg.Temperature,
		MaxTokens:    j.cfg.MaxTokens,
	})
	if err != nil {
		j.logger.WithError(err).WithField("detector", j.name).Warn("llm judge failed, failing open")
		return safety.FailOpen(j.name, err)
	}

	confidence := safety.ClampConfidence(out.score())
	if Blocks(out.flagged(), confidence, j.cfg.threshold()) {
		return safety.Block(j.name, j.reason, fmt.Sprintf("confidence %.2f", confidence))
	}
	return safety.Pass(j.name)
}

// Blocks is the confidence gate shared by every judge. The threshold is inclusive.
func Blocks(flagged bool, confidence, threshold float64) bool {
	return flagged && confidence >= threshold
}

func flagSchema(name, flag string) *providers.Schema {
	return &providers.Schema{
		Name: name,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				flag:         map[string]any{"type": "boolean"},
				"confidence": map[string]any{"type": "number"},
			},
			"required":             []string{flag, "confidence"},
			"additionalProperties": false,
		},
	}
}
