package cot

import (
	"fmt"

	"github.com/leagravellard/Projet-GENAI/components/systemprompt"
)

const (
	sectionBackground = "IDENTITÉ ET OBJECTIF"
	sectionSteps      = "ÉTAPES INTERNES DE L'ASSISTANT"
	sectionOutput     = "INSTRUCTIONS DE SORTIE"
)

// Generator is Chain-of-Thought system prompt generator
type Generator struct {
	systemprompt.BaseGenerator
	background      []string
	steps           []string
	outputInstructs []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.background) == 0 {
		ret.background = []string{"- Tu es un assistant serviable et bienveillant."}
	}
	return ret
}

func (g *Generator) Generate() string {
	var promptParts []string
	for _, section := range []struct {
		title   string
		content []string
	}{
		{sectionBackground, g.background},
		{sectionSteps, g.steps},
		{sectionOutput, g.outputInstructs},
	} {
		if len(section.content) > 0 {
			promptParts = append(promptParts, fmt.Sprintf("# %s", section.title))
			promptParts = append(promptParts, section.content...)
			promptParts = append(promptParts, "")
		}
	}
	return systemprompt.Join(g.RenderContext(promptParts))
}
