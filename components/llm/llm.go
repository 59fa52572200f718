package llm

import (
	"context"
	"errors"
	"time"

	"github.com/leagravellard/Projet-GENAI/components"
)

type Provider = string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ErrEmptyResponse is returned when a provider answers without any choice or content
var ErrEmptyResponse = errors.New("empty response from language model")

// Model is the plain completion capability: system prompt and user prompt in, text out.
type Model interface {
	Provider() Provider
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// ToolModel is a Model which also supports native tool calling.
type ToolModel interface {
	Model
	CompleteWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*components.Completion, error)
}

// CallWithTimeout runs fn under a deadline of timeout. It returns once the deadline
// passes even when fn ignores its context; fn then finishes in the background.
func CallWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	type outcome struct {
		value T
		err   error
	}
	ch := make(chan outcome, 1)
	go func() {
		value, err := fn(ctx)
		ch <- outcome{value: value, err: err}
	}()
	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
