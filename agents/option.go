package agents

import (
	"context"
	"log/slog"
	"time"

	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
)

type Option func(a *Agent)

func WithClient(clt llm.Model) Option {
	return func(a *Agent) {
		a.client = clt
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(a *Agent) {
		a.systemPromptGenerator = g
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		a.timeout = timeout
	}
}

func WithName(name string) Option {
	return func(a *Agent) {
		a.name = name
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

func WithStartHook(fn func(context.Context, *Agent, string)) Option {
	return func(a *Agent) {
		a.startHook = fn
	}
}

func WithEndHook(fn func(context.Context, *Agent, string, string)) Option {
	return func(a *Agent) {
		a.endHook = fn
	}
}

func WithErrorHook(fn func(context.Context, *Agent, string, error)) Option {
	return func(a *Agent) {
		a.errorHook = fn
	}
}
