package app

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/leagravellard/Projet-GENAI/components/embedder"
	embedproviders "github.com/leagravellard/Projet-GENAI/components/embedder/providers"
	"github.com/leagravellard/Projet-GENAI/components/llm"
	"github.com/leagravellard/Projet-GENAI/components/llm/providers"
	"github.com/leagravellard/Projet-GENAI/components/vectordb"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/chromem"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/milvus"
)

func newOpenAIClient(apiKey string, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (a *App) newGeminiClient(ctx context.Context, apiKey string, baseURL string) (*genai.Client, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}
	clt, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	a.closers = append(a.closers, clt.Close)
	return clt, nil
}

func (a *App) newModel(ctx context.Context) (llm.Model, error) {
	cfg := a.config.LLM
	opts := []llm.Option{
		llm.WithModel(cfg.Model),
		llm.WithTemperature(cfg.Temperature),
		llm.WithMaxTokens(cfg.MaxTokens),
	}
	switch cfg.Provider {
	case llm.ProviderOpenAI:
		return providers.FromOpenAI(newOpenAIClient(cfg.APIKey, cfg.BaseURL), opts...), nil
	case llm.ProviderAnthropic:
		var clientOpts []anthropic.ClientOption
		if cfg.BaseURL != "" {
			clientOpts = append(clientOpts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return providers.FromAnthropic(anthropic.NewClient(cfg.APIKey, clientOpts...), opts...), nil
	case llm.ProviderGemini:
		clt, err := a.newGeminiClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return providers.FromGemini(clt, opts...), nil
	}
	return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
}

func (a *App) newEmbedder(ctx context.Context) (embedder.Embedder, error) {
	cfg := a.config.Embedder
	opts := []embedder.Option{embedder.WithModel(cfg.Model)}
	switch cfg.Provider {
	case embedder.ProviderOpenAI:
		return embedproviders.FromOpenAI(newOpenAIClient(cfg.APIKey, cfg.BaseURL), opts...), nil
	case embedder.ProviderGemini:
		clt, err := a.newGeminiClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return embedproviders.FromGemini(clt, opts...), nil
	}
	return nil, fmt.Errorf("unsupported embedder provider %q", cfg.Provider)
}

func (a *App) newEngine(ctx context.Context) (vectordb.Engine, error) {
	cfg := a.config.VectorDB
	opts := []vectordb.Option{vectordb.WithTopK(cfg.TopK)}
	switch vectordb.EngineType(cfg.Engine) {
	case vectordb.Memory:
		return engines.FromMemory(opts...), nil
	case vectordb.Chromem:
		engine, err := chromem.NewPersistent(cfg.Path, cfg.Compress, opts...)
		if err != nil {
			return nil, fmt.Errorf("chromem %s: %w", cfg.Path, err)
		}
		return engine, nil
	case vectordb.Milvus:
		engine, err := milvus.Dial(ctx, cfg.Address, opts...)
		if err != nil {
			return nil, fmt.Errorf("milvus %s: %w", cfg.Address, err)
		}
		a.closers = append(a.closers, engine.Close)
		return engine, nil
	}
	return nil, fmt.Errorf("unsupported vector engine %q", cfg.Engine)
}
