package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
	"github.com/leagravellard/Projet-GENAI/components/systemprompt/cot"
)

// DefaultTimeout bounds a single language model call
const DefaultTimeout = 60 * time.Second

// ErrToolsUnsupported is returned by RunWithTools when the model has no native tool calling
var ErrToolsUnsupported = errors.New("language model does not support tool calling")

// Config represents general agents configuration
type Config struct {
	// client the language model
	client llm.Model
	// systemPromptGenerator Component for generating system prompts.
	systemPromptGenerator systemprompt.Generator
	// timeout bounds every model call
	timeout time.Duration
	// name is Agent name presentation
	name   string
	logger *slog.Logger
}

// Agent is a single language model pass: a generated system prompt, the caller supplied
// history and the user input in, the model answer out. It holds no conversation state.
type Agent struct {
	Config
	startHook func(context.Context, *Agent, string)
	endHook   func(context.Context, *Agent, string, string)
	errorHook func(context.Context, *Agent, string, error)
}

// NewAgent initializes the Agent
func NewAgent(options ...Option) *Agent {
	ret := new(Agent)
	for _, opt := range options {
		opt(ret)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = cot.New()
	}
	if ret.timeout <= 0 {
		ret.timeout = DefaultTimeout
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

func (a *Agent) SetClient(clt llm.Model) {
	a.client = clt
}

func (a *Agent) SetSystemPromptGenerator(g systemprompt.Generator) {
	a.systemPromptGenerator = g
}

func (a Agent) Name() string {
	return a.name
}

func (a *Agent) SetName(name string) {
	a.name = name
}

func (a *Agent) SetStartHook(fn func(context.Context, *Agent, string)) {
	a.startHook = fn
}

func (a *Agent) SetEndHook(fn func(context.Context, *Agent, string, string)) {
	a.endHook = fn
}

func (a *Agent) SetErrorHook(fn func(context.Context, *Agent, string, error)) {
	a.errorHook = fn
}

// Client returns the language model
func (a *Agent) Client() llm.Model {
	return a.client
}

// SystemPrompt returns the system prompt
func (a *Agent) SystemPrompt() string {
	return a.systemPromptGenerator.Generate()
}

// Run sends input to the model. History, when given, is rendered into the system prompt.
func (a *Agent) Run(ctx context.Context, input string, history ...components.Message) (string, error) {
	a.started(ctx, input)
	if a.client == nil {
		return "", a.failed(ctx, input, errors.New("agent has no language model"))
	}
	system := a.systemPromptWithHistory(history)
	text, err := llm.CallWithTimeout(ctx, a.timeout, func(ctx context.Context) (string, error) {
		return a.client.Complete(ctx, system, input)
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		return "", a.failed(ctx, input, err)
	}
	a.finished(ctx, input, text)
	return text, nil
}

// RunWithTools sends input to a model supporting native tool calling, the tools being declared with defs
func (a *Agent) RunWithTools(ctx context.Context, input string, defs []components.ToolDefinition, history ...components.Message) (*components.Completion, error) {
	a.started(ctx, input)
	model, ok := a.client.(llm.ToolModel)
	if !ok {
		return nil, a.failed(ctx, input, ErrToolsUnsupported)
	}
	messages := make([]components.Message, 0, len(history)+2)
	messages = append(messages, *components.NewTextMessage(components.SystemRole, a.SystemPrompt()))
	messages = append(messages, history...)
	messages = append(messages, *components.NewTextMessage(components.UserRole, input))
	completion, err := llm.CallWithTimeout(ctx, a.timeout, func(ctx context.Context) (*components.Completion, error) {
		return model.CompleteWithTools(ctx, messages, defs)
	})
	if err == nil && (completion == nil || (strings.TrimSpace(completion.Text) == "" && len(completion.ToolCalls) == 0)) {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		return nil, a.failed(ctx, input, err)
	}
	a.finished(ctx, input, completion.Text)
	return completion, nil
}

func (a *Agent) systemPromptWithHistory(history []components.Message) string {
	prompt := a.SystemPrompt()
	if len(history) == 0 {
		return prompt
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\n# HISTORIQUE DE LA CONVERSATION\n")
	for _, msg := range history {
		switch msg.Role() {
		case components.UserRole:
			fmt.Fprintf(&sb, "Utilisateur : %s\n", msg.Text())
		case components.AssistantRole:
			fmt.Fprintf(&sb, "Assistant : %s\n", msg.Text())
		}
	}
	return strings.TrimSpace(sb.String())
}

func (a *Agent) started(ctx context.Context, input string) {
	a.logger.DebugContext(ctx, "agent started", slog.String("agent", a.name))
	if fn := a.startHook; fn != nil {
		fn(ctx, a, input)
	}
}

func (a *Agent) finished(ctx context.Context, input string, output string) {
	a.logger.DebugContext(ctx, "agent finished", slog.String("agent", a.name), slog.Int("size", len(output)))
	if fn := a.endHook; fn != nil {
		fn(ctx, a, input, output)
	}
}

func (a *Agent) failed(ctx context.Context, input string, err error) error {
	a.logger.ErrorContext(ctx, "agent failed", slog.String("agent", a.name), slog.Any("error", err))
	if fn := a.errorHook; fn != nil {
		fn(ctx, a, input, err)
	}
	return err
}
