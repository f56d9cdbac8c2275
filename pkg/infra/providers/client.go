package providers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrMissingModel  = errors.New("model is required")
	ErrEmptyResponse = errors.New("no completions returned")
)

// Schema is a JSON schema the model output must satisfy.
type Schema struct {
	Name       string
	Definition map[string]any
}

type Request struct {
	Model        string
	SystemPrompt string
	UserContent  string
	Schema       *Schema
	Temperature  float64
	MaxTokens    int
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	// Complete returns the raw text of the first completion.
	Complete(ctx context.Context, req *Request) (string, error)
}

// SystemPromptWithSchema is used by providers that cannot enforce a schema
// natively; the schema is appended to the system prompt instead.
func SystemPromptWithSchema(req *Request) string {
	if req.Schema == nil {
		return req.SystemPrompt
	}
	schema, err := json.Marshal(req.Schema.Definition)
	if err != nil {
		return req.SystemPrompt
	}
	var b strings.Builder
	b.WriteString(req.SystemPrompt)
	b.WriteString("\n\nRespond with a single JSON object that matches this JSON schema and nothing else:\n")
	b.Write(schema)
	return b.String()
}
