package simple

import (
	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
)

// Generator renders a fixed prompt followed by its context providers
type Generator struct {
	systemprompt.BaseGenerator
	content string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(content string, options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	ret.content = content
	return ret
}

func (g *Generator) Generate() string {
	return systemprompt.Join(g.RenderContext([]string{g.content, ""}))
}
