package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leagravellard/Projet-GENAI/components"
)

// State is a step of a tool agent turn
type State int

const (
	Deciding State = iota
	Direct
	Dispatching
	Synthesizing
	Done
)

func (s State) String() string {
	switch s {
	case Deciding:
		return "deciding"
	case Direct:
		return "direct"
	case Dispatching:
		return "dispatching"
	case Synthesizing:
		return "synthesizing"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reply is the outcome of a tool agent turn
type Reply struct {
	Text string
	// Results of the dispatched directives, empty for direct answers
	Results []Result
}

// Direct reports whether the reply was answered without tools
func (r Reply) Direct() bool {
	return len(r.Results) == 0
}

type ToolAgentOption func(*ToolAgent)

// WithStateHook is called on every state transition
func WithStateHook(fn func(context.Context, State)) ToolAgentOption {
	return func(t *ToolAgent) {
		t.stateHook = fn
	}
}

// WithMaxDirectives caps how many directives of one decision are dispatched
func WithMaxDirectives(n int) ToolAgentOption {
	return func(t *ToolAgent) {
		t.maxDirectives = n
	}
}

func WithToolAgentLogger(l *slog.Logger) ToolAgentOption {
	return func(t *ToolAgent) {
		t.logger = l
	}
}

// ToolAgent answers a query in two passes: a decision pass which either answers
// directly or requests tools, then a synthesis pass over the tool results.
type ToolAgent struct {
	intents       IntentSource
	dispatcher    *Dispatcher
	synthesizer   *Agent
	stateHook     func(context.Context, State)
	maxDirectives int
	logger        *slog.Logger
}

// NewToolAgent returns a new ToolAgent instance. The dispatcher registry is sealed.
func NewToolAgent(intents IntentSource, dispatcher *Dispatcher, synthesizer *Agent, opts ...ToolAgentOption) *ToolAgent {
	ret := &ToolAgent{
		intents:     intents,
		dispatcher:  dispatcher,
		synthesizer: synthesizer,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	dispatcher.Registry().Seal()
	return ret
}

// Dispatcher returns the tool dispatcher
func (t *ToolAgent) Dispatcher() *Dispatcher {
	return t.dispatcher
}

// Run answers query. Errors are *DecisionError or *SynthesisError; tool failures are not errors.
func (t *ToolAgent) Run(ctx context.Context, query string, history ...components.Message) (*Reply, error) {
	t.enter(ctx, Deciding)
	decision, err := t.intents.Decide(ctx, query, history)
	if err != nil {
		return nil, &DecisionError{Err: err}
	}
	if decision.Direct() {
		t.enter(ctx, Direct)
		t.enter(ctx, Done)
		return &Reply{Text: decision.Text}, nil
	}
	directives := decision.Directives
	if t.maxDirectives > 0 && len(directives) > t.maxDirectives {
		directives = directives[:t.maxDirectives]
	}
	t.enter(ctx, Dispatching)
	var results []Result
	if len(directives) == 1 {
		results = []Result{t.dispatcher.Dispatch(ctx, directives[0])}
	} else {
		results = t.dispatcher.DispatchAll(ctx, directives)
	}
	t.enter(ctx, Synthesizing)
	text, err := t.synthesizer.Run(ctx, SynthesisInput(query, results))
	if err != nil {
		return nil, &SynthesisError{Err: err}
	}
	t.enter(ctx, Done)
	return &Reply{Text: text, Results: results}, nil
}

// Answer never fails: errors are rendered after ErrorPrefix
func (t *ToolAgent) Answer(ctx context.Context, query string, history ...components.Message) string {
	reply, err := t.Run(ctx, query, history...)
	if err != nil {
		t.logger.ErrorContext(ctx, "turn failed", slog.Any("error", err))
		var (
			decisionErr  *DecisionError
			synthesisErr *SynthesisError
		)
		switch {
		case errors.As(err, &decisionErr):
			err = decisionErr.Err
		case errors.As(err, &synthesisErr):
			err = synthesisErr.Err
		}
		return ErrorPrefix + err.Error()
	}
	return reply.Text
}

func (t *ToolAgent) enter(ctx context.Context, state State) {
	t.logger.DebugContext(ctx, "tool agent state", slog.String("state", state.String()))
	if fn := t.stateHook; fn != nil {
		fn(ctx, state)
	}
}

// SynthesisInput renders the user prompt of the synthesis pass
func SynthesisInput(query string, results []Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question de l'utilisateur : %s\n\n", query)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Tool)
	}
	fmt.Fprintf(&sb, "Outils utilisés : %s\n\n", strings.Join(names, ", "))
	sb.WriteString("Résultats des outils :\n")
	for idx, r := range results {
		fmt.Fprintf(&sb, "\n[%d] %s (argument : %s)\n", idx+1, r.Tool, r.Argument)
		if r.Failed {
			fmt.Fprintf(&sb, "ÉCHEC : %s\n", r.Reason)
		} else {
			sb.WriteString(r.Text)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nRédige la réponse finale à la question de l'utilisateur, dans sa langue.")
	return sb.String()
}
