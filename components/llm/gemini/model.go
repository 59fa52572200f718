package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/invopop/jsonschema"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/llm"
)

const defaultModel = "gemini-1.5-flash"

// Model is a Gemini generative model
type Model struct {
	*genai.Client
	llm.Options
}

var _ llm.ToolModel = (*Model)(nil)

func New(client *genai.Client, opts ...llm.Option) *Model {
	ret := &Model{
		Client: client,
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.Model() == "" {
		llm.WithModel(defaultModel)(&ret.Options)
	}
	return ret
}

func (m *Model) Provider() llm.Provider {
	return llm.ProviderGemini
}

func (m *Model) generativeModel(systemPrompt string) *genai.GenerativeModel {
	gm := m.GenerativeModel(m.Model())
	gm.SetTemperature(m.Temperature())
	if n := m.MaxTokens(); n > 0 {
		gm.SetMaxOutputTokens(int32(n))
	}
	if systemPrompt != "" {
		gm.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}
	return gm
}

func (m *Model) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	resp, err := m.generativeModel(systemPrompt).GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", err
	}
	ret, err := fromResponse(resp)
	if err != nil {
		return "", err
	}
	return ret.Text, nil
}

// CompleteWithTools replays the conversation as a chat session, the last message is sent.
func (m *Model) CompleteWithTools(ctx context.Context, messages []components.Message, defs []components.ToolDefinition) (*components.Completion, error) {
	var (
		system  []string
		history []*genai.Content
	)
	for _, msg := range messages {
		switch msg.Role() {
		case components.SystemRole:
			system = append(system, msg.Text())
		case components.AssistantRole:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(msg.Text())}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Text())}})
		}
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("gemini: no message to send")
	}
	gm := m.generativeModel(strings.Join(system, "\n\n"))
	if len(defs) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(defs))
		for _, def := range defs {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  toGeminiSchema(def.Parameters),
			})
		}
		gm.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	last := history[len(history)-1]
	cs := gm.StartChat()
	cs.History = history[:len(history)-1]
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, err
	}
	return fromResponse(resp)
}

func fromResponse(resp *genai.GenerateContentResponse) (*components.Completion, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, llm.ErrEmptyResponse
	}
	ret := new(components.Completion)
	var texts []string
	for idx, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			texts = append(texts, string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				args = []byte("{}")
			}
			ret.ToolCalls = append(ret.ToolCalls, components.ToolCall{
				ID:        fmt.Sprintf("call_%d", idx),
				Name:      v.Name,
				Arguments: string(args),
			})
		}
	}
	ret.Text = strings.Join(texts, "")
	if usage := resp.UsageMetadata; usage != nil {
		ret.Usage = &components.LLMUsage{
			InputTokens:  int64(usage.PromptTokenCount),
			OutputTokens: int64(usage.CandidatesTokenCount),
		}
	}
	return ret, nil
}

// toGeminiSchema converts the reflected argument schema, tool arguments are flat objects of scalars
func toGeminiSchema(s *jsonschema.Schema) *genai.Schema {
	ret := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema),
	}
	if s == nil || s.Properties == nil {
		return ret
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := &genai.Schema{Type: genai.TypeString}
		if pair.Value != nil {
			prop.Description = pair.Value.Description
			switch pair.Value.Type {
			case "number":
				prop.Type = genai.TypeNumber
			case "integer":
				prop.Type = genai.TypeInteger
			case "boolean":
				prop.Type = genai.TypeBoolean
			}
		}
		ret.Properties[pair.Key] = prop
	}
	ret.Required = s.Required
	return ret
}
