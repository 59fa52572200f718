package simple

import (
	"testing"

	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
)

type provider struct {
	title string
	info  string
}

func (p provider) Title() string { return p.title }

func (p provider) Info() string { return p.info }

func TestGenerate(t *testing.T) {
	g := New("Réponds uniquement à partir du contexte.")
	if got := g.Generate(); got != "Réponds uniquement à partir du contexte." {
		t.Errorf("unexpected prompt %q", got)
	}
	g = New("Réponds.", WithContextProviders(provider{"Date", "18/10/2026"}))
	want := "Réponds.\n\n# " + systemprompt.ContextSection + "\n## Date\n18/10/2026"
	if got := g.Generate(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
