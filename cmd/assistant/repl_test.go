package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/leagravellard/Projet-GENAI/agents"
	"github.com/leagravellard/Projet-GENAI/components"
)

type echoAgent struct {
	histories [][]components.Message
}

func (a *echoAgent) Answer(_ context.Context, query string, history ...components.Message) string {
	a.histories = append(a.histories, history)
	if strings.HasPrefix(query, "panne") {
		return agents.ErrorPrefix + "délai dépassé"
	}
	return "réponse à " + query
}

func TestReplRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		answers int
	}{
		{name: "quit word", input: "Bonjour\n\nQuelle heure ?\nquitter\nignoré\n", answers: 2},
		{name: "upper case quit", input: "Bonjour\nEXIT\n", answers: 1},
		{name: "eof without newline", input: "Bonjour\nDernière question", answers: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := new(echoAgent)
			var out bytes.Buffer
			r := &repl{
				agent:  agent,
				memory: components.NewMemory(10),
				render: func(s string) string { return s },
				in:     strings.NewReader(tt.input),
				out:    &out,
			}
			if err := r.run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if len(agent.histories) != tt.answers {
				t.Fatalf("expect %d answers, but got %d", tt.answers, len(agent.histories))
			}
			// every turn sees the previous questions and answers
			for idx, h := range agent.histories {
				if len(h) != idx*2 {
					t.Errorf("turn %d: expect %d history messages, but got %d", idx, idx*2, len(h))
				}
			}
			if !strings.Contains(out.String(), "réponse à Bonjour") {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}

func TestReplAskSkipsFailedTurns(t *testing.T) {
	agent := new(echoAgent)
	r := &repl{agent: agent, memory: components.NewMemory(10)}
	ctx := context.Background()
	r.ask(ctx, "Bonjour")
	if got := r.ask(ctx, "panne réseau"); !strings.HasPrefix(got, agents.ErrorPrefix) {
		t.Fatalf("unexpected answer %q", got)
	}
	r.ask(ctx, "Et maintenant ?")
	last := agent.histories[len(agent.histories)-1]
	if len(last) != 2 {
		t.Fatalf("expect 2 history messages, but got %d", len(last))
	}
	for _, msg := range last {
		if strings.Contains(msg.Text(), agents.ErrorPrefix) || strings.Contains(msg.Text(), "panne") {
			t.Errorf("failed turn kept in history: %q", msg.Text())
		}
	}
}
