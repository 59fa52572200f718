package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/leagravellard/Projet-GENAI/agents"
	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/schema"
)

var quitWords = []string{"q", "quit", "quitter", "exit"}

// answerer is the part of the tool agent the loop needs
type answerer interface {
	Answer(ctx context.Context, query string, history ...components.Message) string
}

// repl reads questions line by line and prints the answers. The conversation
// is kept in memory and passed to the agent on every turn.
type repl struct {
	agent  answerer
	memory *components.Memory
	render func(string) string
	in     io.Reader
	out    io.Writer
}

// newRenderer renders markdown for the terminal, falling back to the raw text
func newRenderer(width int) func(string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(s string) string { return s }
	}
	return func(s string) string {
		out, err := renderer.Render(s)
		if err != nil {
			return s
		}
		return out
	}
}

// ask answers query. Failed turns are not remembered.
func (r *repl) ask(ctx context.Context, query string) string {
	history := r.memory.History()
	answer := r.agent.Answer(ctx, query, history...)
	if strings.HasPrefix(answer, agents.ErrorPrefix) {
		return answer
	}
	r.memory.NewTurn()
	r.memory.NewMessage(components.UserRole, schema.String(query))
	r.memory.NewMessage(components.AssistantRole, schema.String(answer))
	return answer
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintf(r.out, "Assistant prêt. Tapez %s pour quitter.\n", strings.Join(quitWords, ", "))
	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, "\nVous : ")
		txt, err := reader.ReadString('\n')
		txt = strings.TrimSpace(txt)
		if txt != "" {
			if slices.Contains(quitWords, strings.ToLower(txt)) {
				fmt.Fprintln(r.out, "Au revoir !")
				return nil
			}
			answer := r.ask(ctx, txt)
			fmt.Fprintf(r.out, "\nAssistant :\n%s\n", r.render(answer))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
