package embedder

type Provider = string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)
