package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion is returned when the provider answers without any choice.
var ErrEmptyCompletion = errors.New("llm returned empty completion")

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// Options are the per-persona sampling settings. Zero values mean provider defaults.
type Options struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}
