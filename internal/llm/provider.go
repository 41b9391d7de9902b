package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Provider produces one structured completion per call. Implementations
// make a single attempt and never retry.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single-turn prompt: a system instruction plus one user
// prompt. Question generation never needs a longer conversation.
type Request struct {
	System string
	Prompt string

	// Schema, when set, switches the provider to its native JSON output
	// mode. WithValidation checks the reply against it.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero keeps the vendor default for Gemini and
	// Anthropic.
	Temperature float64
}

// Schema is a named JSON Schema. Name doubles as the OpenAI schema name
// and the compiled-schema cache key, e.g. "quiz-questions".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is a vendor finish reason normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a completed generation.
type Response struct {
	// Content is the reply text. For schema requests that passed
	// WithValidation it is a bare JSON document.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

var errEmptyReply = errors.New("empty reply")

// finish turns a vendor reply into a Response. Truncated output is an
// error since a cut-off question list is never usable.
func finish(text string, stop StopReason, model string, usage Usage) (*Response, error) {
	content := json.RawMessage(text)
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ErrInvalidResponse{Err: errEmptyReply}
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a short alias to a vendor model ID. Unknown names
// are taken as IDs.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
