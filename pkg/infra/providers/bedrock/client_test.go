package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeRuntime) InvokeModel(
	_ context.Context,
	params *bedrockruntime.InvokeModelInput,
	_ ...func(*bedrockruntime.Options),
) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestComplete_ClaudeV3(t *testing.T) {
	rt := &fakeRuntime{body: `{"content":[{"type":"text","text":"{\"is_sensitive\":true,\"confidence\":0.7}"}]}`}
	client := NewWithRuntime(rt)

	out, err := client.Complete(context.Background(), &providers.Request{
		SystemPrompt: "classify",
		UserContent:  "question",
		Schema:       &providers.Schema{Name: "s", Definition: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"is_sensitive":true,"confidence":0.7}`, out)

	assert.Equal(t, defaultModel, aws.ToString(rt.input.ModelId))
	var sent claudeRequest
	require.NoError(t, json.Unmarshal(rt.input.Body, &sent))
	assert.Equal(t, anthropicVersion, sent.AnthropicVersion)
	assert.Equal(t, defaultMaxTokens, sent.MaxTokens)
	assert.Contains(t, sent.System, "classify")
	assert.Contains(t, sent.System, "JSON schema")
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, "question", sent.Messages[0].Content[0].Text)
}

func TestComplete_UnsupportedModel(t *testing.T) {
	client := NewWithRuntime(&fakeRuntime{})
	_, err := client.Complete(context.Background(), &providers.Request{Model: "amazon.titan-text-express-v1"})
	assert.Error(t, err)
}

func TestComplete_RuntimeError(t *testing.T) {
	client := NewWithRuntime(&fakeRuntime{err: errors.New("throttled")})
	_, err := client.Complete(context.Background(), &providers.Request{UserContent: "x"})
	assert.ErrorContains(t, err, "throttled")
}

func TestComplete_EmptyContent(t *testing.T) {
	client := NewWithRuntime(&fakeRuntime{body: `{"content":[]}`})
	_, err := client.Complete(context.Background(), &providers.Request{UserContent: "x"})
	assert.ErrorIs(t, err, providers.ErrEmptyResponse)
}
