package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/tools"
)

// Decision is the outcome of the decision pass: either a direct answer or directives
type Decision struct {
	Text       string
	Directives []Directive
}

// Direct reports whether the decision is a final answer
func (d Decision) Direct() bool {
	return len(d.Directives) == 0
}

// IntentSource turns a user query into a Decision
type IntentSource interface {
	Decide(ctx context.Context, query string, history []components.Message) (*Decision, error)
}

var (
	_ IntentSource = (*TextIntents)(nil)
	_ IntentSource = (*StructuredIntents)(nil)
)

// TextIntents parses tool directives out of free text model answers
type TextIntents struct {
	agent *Agent
}

func NewTextIntents(agent *Agent) *TextIntents {
	return &TextIntents{agent: agent}
}

func (t *TextIntents) Decide(ctx context.Context, query string, history []components.Message) (*Decision, error) {
	text, err := t.agent.Run(ctx, query, history...)
	if err != nil {
		return nil, err
	}
	ret := &Decision{Text: text}
	if directive, ok := ParseDirective(text); ok {
		ret.Directives = []Directive{directive}
	}
	return ret, nil
}

// StructuredIntents relies on native tool calling. Answers without tool calls
// are still scanned for text directives.
type StructuredIntents struct {
	agent    *Agent
	registry *tools.Registry
}

func NewStructuredIntents(agent *Agent, registry *tools.Registry) *StructuredIntents {
	return &StructuredIntents{agent: agent, registry: registry}
}

func (s *StructuredIntents) Decide(ctx context.Context, query string, history []components.Message) (*Decision, error) {
	completion, err := s.agent.RunWithTools(ctx, query, s.registry.Definitions(), history...)
	if err != nil {
		return nil, err
	}
	ret := &Decision{Text: completion.Text}
	if len(completion.ToolCalls) == 0 {
		if directive, ok := ParseDirective(completion.Text); ok {
			ret.Directives = []Directive{directive}
		}
		return ret, nil
	}
	ret.Directives = make([]Directive, 0, len(completion.ToolCalls))
	for _, call := range completion.ToolCalls {
		directive := Directive{Tool: call.Name, CallID: call.ID}
		property := "query"
		if desc, err := s.registry.Resolve(call.Name); err == nil && desc.Argument() != "" {
			property = desc.Argument()
		}
		directive.Argument, directive.Problem = ExtractArgument(call.Arguments, property)
		ret.Directives = append(ret.Directives, directive)
	}
	return ret, nil
}

// ExtractArgument reads the string argument named property from raw JSON tool call arguments.
// Slightly malformed JSON is repaired first. A non empty problem describes why no argument could be read.
func ExtractArgument(raw string, property string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "arguments d'appel vides"
	}
	if !gjson.Valid(raw) {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return "", fmt.Sprintf("arguments d'appel invalides : %v", err)
		}
		raw = repaired
	}
	res := gjson.Parse(raw)
	if res.Type == gjson.String {
		return argumentValue(res, property)
	}
	if !res.IsObject() {
		return "", "arguments d'appel : objet JSON attendu"
	}
	value := res.Get(gjson.Escape(property))
	if !value.Exists() {
		var (
			count int
			only  gjson.Result
		)
		res.ForEach(func(_, v gjson.Result) bool {
			count++
			only = v
			return count < 2
		})
		if count != 1 {
			return "", fmt.Sprintf("propriété « %s » manquante dans les arguments d'appel", property)
		}
		value = only
	}
	return argumentValue(value, property)
}

func argumentValue(value gjson.Result, property string) (string, string) {
	var ret string
	switch value.Type {
	case gjson.String:
		ret = strings.TrimSpace(value.String())
	case gjson.Number:
		ret = value.Raw
	default:
		return "", fmt.Sprintf("propriété « %s » : chaîne de caractères attendue", property)
	}
	if ret == "" {
		return "", fmt.Sprintf("propriété « %s » vide", property)
	}
	return ret, ""
}
