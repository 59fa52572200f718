package anthropic

import (
	"context"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/llm"
)

const (
	defaultModel     = "claude-3-5-sonnet-latest"
	defaultMaxTokens = 1024
)

// Model is an Anthropic messages model
type Model struct {
	*anthropic.Client
	llm.Options
}

var _ llm.ToolModel = (*Model)(nil)

func New(client *anthropic.Client, opts ...llm.Option) *Model {
	ret := &Model{
		Client: client,
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.Model() == "" {
		llm.WithModel(defaultModel)(&ret.Options)
	}
	if ret.MaxTokens() == 0 {
		llm.WithMaxTokens(defaultMaxTokens)(&ret.Options)
	}
	return ret
}

func (m *Model) Provider() llm.Provider {
	return llm.ProviderAnthropic
}

func (m *Model) request() anthropic.MessagesRequest {
	temperature := m.Temperature()
	return anthropic.MessagesRequest{
		Model:       anthropic.Model(m.Model()),
		Temperature: &temperature,
		MaxTokens:   m.MaxTokens(),
	}
}

func (m *Model) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	req := m.request()
	req.System = systemPrompt
	req.Messages = []anthropic.Message{anthropic.NewUserTextMessage(userPrompt)}
	resp, err := m.CreateMessages(ctx, req)
	if err != nil {
		return "", err
	}
	text, _ := splitContent(resp.Content)
	if text == "" && len(resp.Content) == 0 {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// CompleteWithTools sends the conversation with the tool definitions attached.
// System messages are folded into the request system prompt.
func (m *Model) CompleteWithTools(ctx context.Context, messages []components.Message, defs []components.ToolDefinition) (*components.Completion, error) {
	req := m.request()
	var system []string
	for _, msg := range messages {
		switch msg.Role() {
		case components.SystemRole:
			system = append(system, msg.Text())
		case components.AssistantRole:
			req.Messages = append(req.Messages, anthropic.NewAssistantTextMessage(msg.Text()))
		default:
			req.Messages = append(req.Messages, anthropic.NewUserTextMessage(msg.Text()))
		}
	}
	req.System = strings.Join(system, "\n\n")
	for _, def := range defs {
		req.Tools = append(req.Tools, anthropic.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Parameters,
		})
	}
	resp, err := m.CreateMessages(ctx, req)
	if err != nil {
		return nil, err
	}
	text, calls := splitContent(resp.Content)
	return &components.Completion{
		ID:        resp.ID,
		Model:     string(resp.Model),
		Text:      text,
		ToolCalls: calls,
		Usage: &components.LLMUsage{
			InputTokens:  int64(resp.Usage.InputTokens),
			OutputTokens: int64(resp.Usage.OutputTokens),
		},
	}, nil
}

func splitContent(content []anthropic.MessageContent) (string, []components.ToolCall) {
	var (
		texts []string
		calls []components.ToolCall
	)
	for _, v := range content {
		switch v.Type {
		case anthropic.MessagesContentTypeText:
			if v.Text != nil {
				texts = append(texts, *v.Text)
			}
		case anthropic.MessagesContentTypeToolUse:
			if use := v.MessageContentToolUse; use != nil {
				calls = append(calls, components.ToolCall{ID: use.ID, Name: use.Name, Arguments: string(use.Input)})
			}
		}
	}
	return strings.Join(texts, "\n"), calls
}
