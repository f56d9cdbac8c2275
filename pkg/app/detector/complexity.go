package detector

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=ComplexityClassifier --dir=. --output=./mocks --filename=complexity_classifier_mock.go --case=underscore --with-expecter
type ComplexityClassifier interface {
	// Classify never fails; it returns SIMPLE when it cannot decide.
	Classify(ctx context.Context, text string) safety.ComplexityVerdict
}

type complexityOutput struct {
	Complexity string  `json:"complexity"`
	Confidence float64 `json:"confidence"`
}

type complexityClassifier struct {
	client providers.Client
	cfg    JudgeConfig
	logger *logrus.Logger
}

func NewComplexityClassifier(logger *logrus.Logger, client providers.Client, cfg JudgeConfig) ComplexityClassifier {
	return &complexityClassifier{client: client, cfg: cfg, logger: logger}
}

var complexitySchema = &providers.Schema{
	Name: "complexity_verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"complexity": map[string]any{
				"type": "string",
				"enum": []string{
					string(safety.ComplexitySimple),
					string(safety.ComplexityComplex),
					string(safety.ComplexitySuperComplex),
				},
			},
			"confidence": map[string]any{"type": "number"},
		},
		"required":             []string{"complexity", "confidence"},
		"additionalProperties": false,
	},
}

func (c *complexityClassifier) Classify(ctx context.Context, text string) safety.ComplexityVerdict {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	out, err := providers.Classify[complexityOutput](ctx, c.client, &providers.Request{
		Model:        c.cfg.Model,
		SystemPrompt: complexityPrompt,
		UserContent:  text,
		Schema:       complexitySchema,
		Temperature:  c.cfg.Temperature,
		MaxTokens:    c.cfg.MaxTokens,
	})
	if err != nil {
		c.logger.WithError(err).WithField("detector", NameComplexity).Warn("complexity classification failed, defaulting to SIMPLE")
		return safety.DefaultComplexity()
	}
	return safety.ComplexityVerdict{
		Complexity: safety.ParseComplexity(out.Complexity),
		Confidence: safety.ClampConfidence(out.Confidence),
	}
}
