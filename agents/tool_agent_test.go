package agents_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leagravellard/Projet-GENAI/agents"
	"github.com/leagravellard/Projet-GENAI/agents/rag"
	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/embedder"
	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/memory"
	"github.com/leagravellard/Projet-GENAI/schema"
	"github.com/leagravellard/Projet-GENAI/tools"
	"github.com/leagravellard/Projet-GENAI/tools/calculator"
)

// scriptedModel replays replies in order, the last one repeating
type scriptedModel struct {
	mu         sync.Mutex
	replies    []string
	err        error
	completion *components.Completion
	systems    []string
	users      []string
}

func (m *scriptedModel) Provider() llm.Provider { return "stub" }

func (m *scriptedModel) Complete(_ context.Context, system string, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems = append(m.systems, system)
	m.users = append(m.users, user)
	if m.err != nil {
		return "", m.err
	}
	idx := min(len(m.users), len(m.replies)) - 1
	return m.replies[idx], nil
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type scriptedToolModel struct {
	scriptedModel
}

func (m *scriptedToolModel) CompleteWithTools(_ context.Context, messages []components.Message, _ []components.ToolDefinition) (*components.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, messages[len(messages)-1].Text())
	if m.err != nil {
		return nil, m.err
	}
	return m.completion, nil
}

// blockingModel answers only once release is closed. With honorContext it gives up
// when its context is done.
type blockingModel struct {
	release      chan struct{}
	honorContext bool
}

func (m *blockingModel) Provider() llm.Provider { return "stub" }

func (m *blockingModel) Complete(ctx context.Context, _ string, _ string) (string, error) {
	if m.honorContext {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-m.release:
		}
	} else {
		<-m.release
	}
	return "trop tard", nil
}

// constantEmbedder maps every text to the same vector
type constantEmbedder struct{}

func (constantEmbedder) Provider() embedder.Provider { return "constant" }

func (constantEmbedder) Model() string { return "constant" }

func (constantEmbedder) Embed(_ context.Context, text string, embedding *embedder.Embedding, _ *components.LLMUsage) error {
	embedding.Object = text
	embedding.Embedding = []float64{1, 0}
	return nil
}

func (constantEmbedder) BatchEmbed(_ context.Context, parts []string, _ *components.LLMUsage) ([]embedder.Embedding, error) {
	ret := make([]embedder.Embedding, 0, len(parts))
	for _, p := range parts {
		ret = append(ret, embedder.Embedding{Object: p, Embedding: []float64{1, 0}})
	}
	return ret, nil
}

type fixture struct {
	decision  *scriptedModel
	synthesis *scriptedModel
	rag       *scriptedModel
	agent     *agents.ToolAgent
	states    []agents.State
}

func newFixture(t *testing.T, decision *scriptedModel, synthesis *scriptedModel) *fixture {
	t.Helper()
	ctx := context.Background()
	index := rag.NewIndex(constantEmbedder{}, memory.New())
	if _, err := index.AddChunks(ctx, rag.Chunk{Text: "Le chiffre d'affaires 2023 était de 5M€", SourceID: "rapport.pdf", Page: 3}); err != nil {
		t.Fatal(err)
	}
	ret := &fixture{
		decision:  decision,
		synthesis: synthesis,
		rag:       &scriptedModel{replies: []string{"Le chiffre d'affaires 2023 était de 5M€."}},
	}
	registry, err := tools.NewRegistry(
		tools.FromInvoker(rag.New(index, ret.rag)),
		tools.FromInvoker(calculator.New()),
	)
	if err != nil {
		t.Fatal(err)
	}
	decisionAgent := agents.NewAgent(
		agents.WithClient(decision),
		agents.WithSystemPromptGenerator(agents.NewDecisionPrompt(registry, false)),
	)
	synthesisAgent := agents.NewAgent(
		agents.WithClient(synthesis),
		agents.WithSystemPromptGenerator(agents.NewSynthesisPrompt()),
	)
	ret.agent = agents.NewToolAgent(
		agents.NewTextIntents(decisionAgent),
		agents.NewDispatcher(registry),
		synthesisAgent,
		agents.WithStateHook(func(_ context.Context, s agents.State) {
			ret.states = append(ret.states, s)
		}),
	)
	return ret
}

func TestToolAgentRetrieval(t *testing.T) {
	f := newFixture(t,
		&scriptedModel{replies: []string{"[TOOL: search_documents] chiffre d'affaires 2023"}},
		&scriptedModel{replies: []string{"Selon le rapport, le chiffre d'affaires 2023 était de 5M€."}},
	)
	query := "Quel est le chiffre d'affaires 2023 ?"
	got := f.agent.Answer(context.Background(), query)
	if !strings.Contains(got, "5M€") {
		t.Errorf("answer misses 5M€: %q", got)
	}
	if n := f.agent.Dispatcher().Invocations(); n != 1 {
		t.Errorf("expect one tool invocation, but got %d", n)
	}
	if f.rag.calls() != 1 || f.synthesis.calls() != 1 {
		t.Errorf("expect one rag and one synthesis call, but got %d and %d", f.rag.calls(), f.synthesis.calls())
	}
	prompt := f.synthesis.users[0]
	for _, want := range []string{query, "search_documents", "chiffre d'affaires 2023", "5M€", "rapport.pdf (p. 3)"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("synthesis prompt misses %q: %q", want, prompt)
		}
	}
	wantStates := []agents.State{agents.Deciding, agents.Dispatching, agents.Synthesizing, agents.Done}
	if len(f.states) != len(wantStates) {
		t.Fatalf("expect states %v, but got %v", wantStates, f.states)
	}
	for idx, s := range wantStates {
		if f.states[idx] != s {
			t.Errorf("expect states %v, but got %v", wantStates, f.states)
			break
		}
	}
}

func TestToolAgentDirect(t *testing.T) {
	f := newFixture(t,
		&scriptedModel{replies: []string{"Bonjour ! Comment puis-je vous aider ?"}},
		&scriptedModel{replies: []string{"ne devrait pas être appelé"}},
	)
	got := f.agent.Answer(context.Background(), "Bonjour")
	if got != "Bonjour ! Comment puis-je vous aider ?" {
		t.Errorf("expect the decision text verbatim, but got %q", got)
	}
	if n := f.agent.Dispatcher().Invocations(); n != 0 {
		t.Errorf("expect no tool invocation, but got %d", n)
	}
	if f.synthesis.calls() != 0 || f.rag.calls() != 0 {
		t.Error("expect no synthesis nor retrieval call")
	}
	if len(f.states) != 3 || f.states[1] != agents.Direct {
		t.Errorf("unexpected states %v", f.states)
	}
}

func TestToolAgentCalculator(t *testing.T) {
	f := newFixture(t,
		&scriptedModel{replies: []string{"TOOL: calculatrice\nQUERY: 3*4+2"}},
		&scriptedModel{replies: []string{"Le résultat est 14."}},
	)
	reply, err := f.agent.Run(context.Background(), "Combien font 3*4+2 ?")
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.Results) != 1 || reply.Results[0].Text != "14" {
		t.Fatalf("unexpected results %+v", reply.Results)
	}
	if reply.Text != "Le résultat est 14." {
		t.Errorf("unexpected answer %q", reply.Text)
	}
}

func TestToolAgentUnknownTool(t *testing.T) {
	f := newFixture(t,
		&scriptedModel{replies: []string{"[TOOL: meteo] Paris"}},
		&scriptedModel{replies: []string{"Je ne peux pas consulter la météo."}},
	)
	got := f.agent.Answer(context.Background(), "Quel temps fait-il à Paris ?")
	if got != "Je ne peux pas consulter la météo." {
		t.Errorf("unexpected answer %q", got)
	}
	if !strings.Contains(f.synthesis.users[0], "ÉCHEC : outil inconnu « meteo »") {
		t.Errorf("synthesis prompt misses the failure: %q", f.synthesis.users[0])
	}
}

func TestToolAgentFailures(t *testing.T) {
	t.Run("decision", func(t *testing.T) {
		f := newFixture(t,
			&scriptedModel{err: errors.New("connexion refusée")},
			&scriptedModel{replies: []string{"ok"}},
		)
		_, err := f.agent.Run(context.Background(), "Bonjour")
		var decisionErr *agents.DecisionError
		if !errors.As(err, &decisionErr) {
			t.Fatalf("expect a decision error, but got %v", err)
		}
		if got := f.agent.Answer(context.Background(), "Bonjour"); got != agents.ErrorPrefix+"connexion refusée" {
			t.Errorf("unexpected answer %q", got)
		}
	})
	t.Run("synthesis", func(t *testing.T) {
		f := newFixture(t,
			&scriptedModel{replies: []string{"[TOOL: calculatrice] 1+1"}},
			&scriptedModel{err: llm.ErrEmptyResponse},
		)
		_, err := f.agent.Run(context.Background(), "1+1 ?")
		var synthesisErr *agents.SynthesisError
		if !errors.As(err, &synthesisErr) || !errors.Is(err, llm.ErrEmptyResponse) {
			t.Fatalf("expect a synthesis error, but got %v", err)
		}
		got := f.agent.Answer(context.Background(), "1+1 ?")
		if !strings.HasPrefix(got, agents.ErrorPrefix) {
			t.Errorf("unexpected answer %q", got)
		}
	})
}

func TestToolAgentTimeout(t *testing.T) {
	const timeout = 20 * time.Millisecond
	newAgent := func(t *testing.T, decision llm.Model, synthesis llm.Model) *agents.ToolAgent {
		registry, err := tools.NewRegistry(tools.FromInvoker(calculator.New()))
		if err != nil {
			t.Fatal(err)
		}
		return agents.NewToolAgent(
			agents.NewTextIntents(agents.NewAgent(agents.WithClient(decision), agents.WithTimeout(timeout))),
			agents.NewDispatcher(registry),
			agents.NewAgent(agents.WithClient(synthesis), agents.WithTimeout(timeout)),
		)
	}
	for _, honorContext := range []bool{true, false} {
		blocking := &blockingModel{release: make(chan struct{}), honorContext: honorContext}
		t.Cleanup(func() { close(blocking.release) })
		t.Run(fmt.Sprintf("decision/honor_context=%t", honorContext), func(t *testing.T) {
			agent := newAgent(t, blocking, &scriptedModel{replies: []string{"ok"}})
			start := time.Now()
			_, err := agent.Run(context.Background(), "Bonjour")
			var decisionErr *agents.DecisionError
			if !errors.As(err, &decisionErr) || !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("expect a decision deadline error, but got %v", err)
			}
			if elapsed := time.Since(start); elapsed > time.Second {
				t.Errorf("decision pass not bounded, took %s", elapsed)
			}
			if got := agent.Answer(context.Background(), "Bonjour"); !strings.HasPrefix(got, agents.ErrorPrefix) {
				t.Errorf("unexpected answer %q", got)
			}
		})
		t.Run(fmt.Sprintf("synthesis/honor_context=%t", honorContext), func(t *testing.T) {
			agent := newAgent(t, &scriptedModel{replies: []string{"[TOOL: calculatrice] 1+1"}}, blocking)
			_, err := agent.Run(context.Background(), "1+1 ?")
			var synthesisErr *agents.SynthesisError
			if !errors.As(err, &synthesisErr) || !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("expect a synthesis deadline error, but got %v", err)
			}
			if got := agent.Answer(context.Background(), "1+1 ?"); !strings.HasPrefix(got, agents.ErrorPrefix) {
				t.Errorf("unexpected answer %q", got)
			}
		})
	}
}

func TestToolAgentHistory(t *testing.T) {
	f := newFixture(t,
		&scriptedModel{replies: []string{"Vous vous appelez Léa."}},
		&scriptedModel{replies: []string{"ok"}},
	)
	mem := components.NewMemory(10)
	mem.NewTurn()
	mem.NewMessage(components.UserRole, schema.String("Je m'appelle Léa"))
	mem.NewMessage(components.AssistantRole, schema.String("Enchanté Léa !"))
	f.agent.Answer(context.Background(), "Comment je m'appelle ?", mem.History()...)
	system := f.decision.systems[0]
	for _, want := range []string{"HISTORIQUE DE LA CONVERSATION", "Utilisateur : Je m'appelle Léa", "Assistant : Enchanté Léa !", "search_documents", "calculatrice"} {
		if !strings.Contains(system, want) {
			t.Errorf("decision prompt misses %q", want)
		}
	}
}

func TestToolAgentStructured(t *testing.T) {
	decision := &scriptedToolModel{scriptedModel: scriptedModel{completion: &components.Completion{
		ToolCalls: []components.ToolCall{
			{ID: "1", Name: "calculatrice", Arguments: `{"expression":"3*4+2"}`},
			{ID: "2", Name: "calculatrice", Arguments: `{"expression":"10/4"}`},
			{ID: "3", Name: "calculatrice", Arguments: `{}`},
		},
	}}}
	synthesis := &scriptedModel{replies: []string{"14 et 2.5"}}
	registry, err := tools.NewRegistry(tools.FromInvoker(calculator.New()))
	if err != nil {
		t.Fatal(err)
	}
	decisionAgent := agents.NewAgent(
		agents.WithClient(decision),
		agents.WithSystemPromptGenerator(agents.NewDecisionPrompt(registry, true)),
	)
	agent := agents.NewToolAgent(
		agents.NewStructuredIntents(decisionAgent, registry),
		agents.NewDispatcher(registry),
		agents.NewAgent(agents.WithClient(synthesis)),
	)
	if !registry.Sealed() {
		t.Error("expect the registry to be sealed")
	}
	reply, err := agent.Run(context.Background(), "Calcule 3*4+2 et 10/4")
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.Results) != 3 {
		t.Fatalf("expect 3 results, but got %+v", reply.Results)
	}
	if reply.Results[0].Text != "14" || reply.Results[1].Text != "2.5" {
		t.Errorf("unexpected results %+v", reply.Results)
	}
	if !reply.Results[2].Failed || reply.Results[2].CallID != "3" {
		t.Errorf("expect the empty call to fail, but got %+v", reply.Results[2])
	}
	if n := agent.Dispatcher().Invocations(); n != 2 {
		t.Errorf("expect 2 invocations, but got %d", n)
	}
	prompt := synthesis.users[0]
	first := strings.Index(prompt, "[1] calculatrice (argument : 3*4+2)\n14")
	second := strings.Index(prompt, "[2] calculatrice (argument : 10/4)\n2.5")
	if first < 0 || second < first {
		t.Errorf("results out of order: %q", prompt)
	}
}

func TestToolAgentStructuredFallsBackToText(t *testing.T) {
	decision := &scriptedToolModel{scriptedModel: scriptedModel{completion: &components.Completion{
		Text: "[TOOL: calculatrice] 2+2",
	}}}
	registry, err := tools.NewRegistry(tools.FromInvoker(calculator.New()))
	if err != nil {
		t.Fatal(err)
	}
	agent := agents.NewToolAgent(
		agents.NewStructuredIntents(agents.NewAgent(agents.WithClient(decision)), registry),
		agents.NewDispatcher(registry),
		agents.NewAgent(agents.WithClient(&scriptedModel{replies: []string{"4"}})),
	)
	reply, err := agent.Run(context.Background(), "2+2 ?")
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.Results) != 1 || reply.Results[0].Text != "4" {
		t.Errorf("unexpected results %+v", reply.Results)
	}
}

func TestToolAgentStructuredRequiresToolModel(t *testing.T) {
	registry, err := tools.NewRegistry(tools.FromInvoker(calculator.New()))
	if err != nil {
		t.Fatal(err)
	}
	agent := agents.NewToolAgent(
		agents.NewStructuredIntents(agents.NewAgent(agents.WithClient(&scriptedModel{replies: []string{"x"}})), registry),
		agents.NewDispatcher(registry),
		agents.NewAgent(agents.WithClient(&scriptedModel{replies: []string{"x"}})),
	)
	_, err = agent.Run(context.Background(), "2+2 ?")
	if !errors.Is(err, agents.ErrToolsUnsupported) {
		t.Errorf("expect ErrToolsUnsupported, but got %v", err)
	}
}
