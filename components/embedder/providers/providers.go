package providers

import (
	"github.com/leagravellard/Projet-GENAI/components/embedder/providers/gemini"
	"github.com/leagravellard/Projet-GENAI/components/embedder/providers/openai"
)

var (
	FromOpenAI = openai.New
	FromGemini = gemini.New
)
