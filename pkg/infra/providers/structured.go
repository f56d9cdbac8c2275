package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fastjson"
)

var ErrMalformedOutput = errors.New("malformed structured output")

// Classify sends req and decodes the JSON object in the reply into T. The
// reply must parse and carry every field the schema lists as required.
func Classify[T any](ctx context.Context, client Client, req *Request) (T, error) {
	var out T
	raw, err := client.Complete(ctx, req)
	if err != nil {
		return out, err
	}
	payload, err := ExtractJSON(raw, req.Schema)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// ExtractJSON strips markdown fences and surrounding prose and checks the
// object against the schema's required properties and their primitive types.
func ExtractJSON(raw string, schema *Schema) ([]byte, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	obj, ok := firstObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrMalformedOutput, truncate(raw, 120))
	}
	text = string(obj)

	var p fastjson.Parser
	v, err := p.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformedOutput, v.Type())
	}
	if schema != nil {
		if err := checkRequired(v, schema.Definition); err != nil {
			return nil, err
		}
	}
	return []byte(text), nil
}

// firstObject returns the first complete JSON value starting at a '{'.
// Anything after it, braces included, is ignored.
func firstObject(text string) (json.RawMessage, bool) {
	for offset := 0; offset < len(text); {
		i := strings.IndexByte(text[offset:], '{')
		if i < 0 {
			return nil, false
		}
		start := offset + i
		var obj json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&obj); err == nil {
			return obj, true
		}
		offset = start + 1
	}
	return nil, false
}

func checkRequired(v *fastjson.Value, definition map[string]any) error {
	props, _ := definition["properties"].(map[string]any)
	for _, name := range requiredFields(definition["required"]) {
		field := v.Get(name)
		if field == nil {
			return fmt.Errorf("%w: missing field %q", ErrMalformedOutput, name)
		}
		prop, _ := props[name].(map[string]any)
		want, _ := prop["type"].(string)
		if !typeMatches(field.Type(), want) {
			return fmt.Errorf("%w: field %q is %s, want %s", ErrMalformedOutput, name, field.Type(), want)
		}
	}
	return nil
}

func requiredFields(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func typeMatches(got fastjson.Type, want string) bool {
	switch want {
	case "boolean":
		return got == fastjson.TypeTrue || got == fastjson.TypeFalse
	case "number", "integer":
		return got == fastjson.TypeNumber
	case "string":
		return got == fastjson.TypeString
	case "object":
		return got == fastjson.TypeObject
	case "array":
		return got == fastjson.TypeArray
	default:
		return true
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
