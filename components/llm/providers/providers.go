package providers

import (
	"github.com/leagravellard/Projet-GENAI/components/llm/anthropic"
	"github.com/leagravellard/Projet-GENAI/components/llm/gemini"
	"github.com/leagravellard/Projet-GENAI/components/llm/openai"
)

var (
	FromOpenAI    = openai.New
	FromAnthropic = anthropic.New
	FromGemini    = gemini.New
)
