package openai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/llm"
)

// Model is an OpenAI chat completion model
type Model struct {
	*openai.Client
	llm.Options
}

var _ llm.ToolModel = (*Model)(nil)

func New(client *openai.Client, opts ...llm.Option) *Model {
	ret := &Model{
		Client: client,
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.Model() == "" {
		llm.WithModel(openai.GPT4o)(&ret.Options)
	}
	return ret
}

func (m *Model) Provider() llm.Provider {
	return llm.ProviderOpenAI
}

func (m *Model) request() openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:               m.Model(),
		Temperature:         m.Temperature(),
		MaxCompletionTokens: m.MaxTokens(),
	}
}

// Complete sends a system and a user message and returns the first choice text
func (m *Model) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	req := m.request()
	if systemPrompt != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})
	resp, err := m.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteWithTools sends the conversation with the tool definitions attached
func (m *Model) CompleteWithTools(ctx context.Context, messages []components.Message, defs []components.ToolDefinition) (*components.Completion, error) {
	req := m.request()
	for _, msg := range messages {
		v := new(openai.ChatCompletionMessage)
		messageToOpenAI(&msg, v)
		req.Messages = append(req.Messages, *v)
	}
	for _, def := range defs {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	resp, err := m.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	ret := &components.Completion{
		ID:    resp.ID,
		Model: resp.Model,
		Text:  resp.Choices[0].Message.Content,
		Usage: &components.LLMUsage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}
	for _, call := range resp.Choices[0].Message.ToolCalls {
		ret.ToolCalls = append(ret.ToolCalls, components.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return ret, nil
}

func messageToOpenAI(src *components.Message, dist *openai.ChatCompletionMessage) {
	dist.Role = src.Role()
	dist.Content = src.Text()
}
